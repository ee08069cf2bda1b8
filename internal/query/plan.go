package query

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrBadQuery is returned when a query string references unknown
// fields or operators. Handlers translate it into a 400 response.
var ErrBadQuery = errors.New("invalid query parameter")

// Defaults for the pagination stage. There is deliberately no upper
// bound on limit or page; see DESIGN.md.
const (
	DefaultPage  = 1
	DefaultLimit = 100
)

// Op is a SQL comparison operator. Only the values below are ever
// emitted; raw query input is mapped through the operators table and
// can never reach the generated SQL.
type Op string

const (
	OpEq  Op = "="
	OpGt  Op = ">"
	OpGte Op = ">="
	OpLt  Op = "<"
	OpLte Op = "<="
)

var operators = map[string]Op{
	"gt":  OpGt,
	"gte": OpGte,
	"lt":  OpLt,
	"lte": OpLte,
}

// reserved keys never participate in the filter stage.
var reserved = map[string]bool{
	"page":   true,
	"sort":   true,
	"limit":  true,
	"fields": true,
	"search": true,
}

var bracketKey = regexp.MustCompile(`^(.+)\[(.+)\]$`)

// Condition is a single field/operator/value filter triple.
type Condition struct {
	Field  string
	Column string
	Op     Op
	Value  any
}

// SortKey is a single sort field with direction.
type SortKey struct {
	Field  string
	Column string
	Desc   bool
}

// Plan is the validated read plan derived from a request's raw query
// parameters. It is request-scoped: built fresh per request, never
// shared, discarded after execution.
type Plan struct {
	schema     *Schema
	Search     string
	Conditions []Condition
	Sort       []SortKey
	Projection []string
	Page       int
	Limit      int
}

// Parse translates raw query parameters into a Plan, validating every
// field and operator against the schema. Stage inputs:
//
//	search  free-text term matched against the schema's search field
//	f=v     equality filter
//	f[op]=v comparison filter, op in gt/gte/lt/lte
//	sort    comma-separated fields, "-" prefix for descending
//	fields  comma-separated inclusion list
//	page    1-indexed page number (default 1)
//	limit   page size (default 100)
func Parse(values url.Values, schema *Schema) (*Plan, error) {
	plan := &Plan{
		schema: schema,
		Page:   DefaultPage,
		Limit:  DefaultLimit,
	}

	if schema.SearchField != "" {
		plan.Search = values.Get("search")
	}

	if err := plan.parseFilters(values); err != nil {
		return nil, err
	}
	if err := plan.parseSort(values.Get("sort")); err != nil {
		return nil, err
	}
	if err := plan.parseFields(values.Get("fields")); err != nil {
		return nil, err
	}
	plan.parsePagination(values.Get("page"), values.Get("limit"))

	return plan, nil
}

func (p *Plan) parseFilters(values url.Values) error {
	for key, vals := range values {
		if reserved[key] || len(vals) == 0 {
			continue
		}

		name, op := key, OpEq
		if m := bracketKey.FindStringSubmatch(key); m != nil {
			name = m[1]
			mapped, ok := operators[m[2]]
			if !ok {
				return fmt.Errorf("%w: unsupported operator %q", ErrBadQuery, m[2])
			}
			op = mapped
		}

		field, ok := p.schema.Fields[name]
		if !ok || !field.Filterable {
			return fmt.Errorf("%w: cannot filter on %q", ErrBadQuery, name)
		}

		value, err := convertValue(vals[0], field.Kind)
		if err != nil {
			return fmt.Errorf("%w: bad value for %q: %v", ErrBadQuery, name, err)
		}

		p.Conditions = append(p.Conditions, Condition{
			Field:  name,
			Column: field.Column,
			Op:     op,
			Value:  value,
		})
	}
	return nil
}

func (p *Plan) parseSort(raw string) error {
	if raw == "" {
		// Newest first by default.
		p.Sort = []SortKey{{Field: "created_at", Column: p.schema.column("created_at"), Desc: true}}
		return nil
	}

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		desc := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(part, "-")

		field, ok := p.schema.Fields[name]
		if !ok || !field.Sortable {
			return fmt.Errorf("%w: cannot sort on %q", ErrBadQuery, name)
		}

		p.Sort = append(p.Sort, SortKey{Field: name, Column: field.Column, Desc: desc})
	}
	return nil
}

func (p *Plan) parseFields(raw string) error {
	if raw == "" {
		return nil
	}

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, ok := p.schema.Fields[part]; !ok {
			return fmt.Errorf("%w: unknown field %q", ErrBadQuery, part)
		}
		p.Projection = append(p.Projection, part)
	}
	return nil
}

func (p *Plan) parsePagination(page, limit string) {
	if n, err := strconv.Atoi(page); err == nil && n >= 1 {
		p.Page = n
	}
	if n, err := strconv.Atoi(limit); err == nil && n >= 1 {
		p.Limit = n
	}
}

// Skip returns the number of records skipped before the current page.
func (p *Plan) Skip() int {
	return (p.Page - 1) * p.Limit
}

func convertValue(raw string, kind Kind) (any, error) {
	switch kind {
	case KindNumber:
		return strconv.ParseFloat(raw, 64)
	case KindBool:
		return strconv.ParseBool(raw)
	case KindTime:
		return time.Parse(time.RFC3339, raw)
	default:
		return raw, nil
	}
}
