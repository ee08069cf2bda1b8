package query

import (
	"encoding/json"
	"fmt"
	"strings"
)

// WhereSQL renders the search and filter stages as a WHERE clause with
// positional placeholders starting at $1. Returns an empty string when
// nothing filters.
func (p *Plan) WhereSQL() (string, []any) {
	var frags []string
	var args []any

	if p.Search != "" && p.schema.SearchField != "" {
		pattern := "%" + p.Search + "%"
		searchCol := p.schema.column(p.schema.SearchField)
		if p.schema.TagField != "" {
			tagCol := p.schema.column(p.schema.TagField)
			frags = append(frags, fmt.Sprintf("(%s ILIKE $%d OR %s ILIKE $%d)", searchCol, len(args)+1, tagCol, len(args)+2))
			args = append(args, pattern, pattern)
		} else {
			frags = append(frags, fmt.Sprintf("%s ILIKE $%d", searchCol, len(args)+1))
			args = append(args, pattern)
		}
	}

	for _, c := range p.Conditions {
		frags = append(frags, fmt.Sprintf("%s %s $%d", c.Column, c.Op, len(args)+1))
		args = append(args, c.Value)
	}

	if len(frags) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(frags, " AND "), args
}

// OrderSQL renders the sort stage as an ORDER BY clause.
func (p *Plan) OrderSQL() string {
	if len(p.Sort) == 0 {
		return ""
	}

	keys := make([]string, 0, len(p.Sort))
	for _, s := range p.Sort {
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		keys = append(keys, s.Column+" "+dir)
	}
	return " ORDER BY " + strings.Join(keys, ", ")
}

// PageSQL renders the pagination stage as LIMIT/OFFSET placeholders
// numbered from next, returning the clause and its arguments.
func (p *Plan) PageSQL(next int) (string, []any) {
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", next, next+1), []any{p.Limit, p.Skip()}
}

// Project applies the projection stage to fetched records. With an
// explicit fields= list only those fields (plus id) are kept; by
// default every field is kept except the ones the schema marks
// DefaultOmit. Expanded relations not present in the schema survive
// the default projection untouched.
func (p *Plan) Project(items any) ([]map[string]any, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to project records: %w", err)
	}

	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to project records: %w", err)
	}

	if len(p.Projection) > 0 {
		keep := map[string]bool{"id": true}
		for _, f := range p.Projection {
			keep[f] = true
		}
		for _, row := range rows {
			for k := range row {
				if !keep[k] {
					delete(row, k)
				}
			}
		}
		return rows, nil
	}

	for name, field := range p.schema.Fields {
		if !field.DefaultOmit {
			continue
		}
		for _, row := range rows {
			delete(row, name)
		}
	}
	return rows, nil
}
