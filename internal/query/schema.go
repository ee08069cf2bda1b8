package query

// Kind is the value type of a schema field. Raw query-string values
// are converted to this type before they reach the database, so a
// parameter value can never be interpreted as a query operator.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindBool
	KindTime
)

// Field describes one exposed field of a collection.
type Field struct {
	// Column is the database column the field maps to.
	Column string
	Kind   Kind
	// Filterable fields may appear as filter keys (bare or bracketed).
	Filterable bool
	// Sortable fields may appear in the sort list.
	Sortable bool
	// DefaultOmit fields are dropped from the default projection and
	// returned only when explicitly requested via fields=.
	DefaultOmit bool
}

// Schema is the allow-listed field table of a collection. Only fields
// present here can be filtered, sorted or selected; everything else in
// the query string is rejected.
type Schema struct {
	Table string
	// Fields maps query-string names (which match the JSON names of
	// the entity) to field descriptors.
	Fields map[string]Field
	// SearchField, when set, names the field matched by ?search=
	// alongside the tag field.
	SearchField string
	// TagField, when set, is also matched by ?search=.
	TagField string
}

func (s *Schema) column(name string) string {
	return s.Fields[name].Column
}
