package rowfilter

import (
	"fmt"
	"strings"
)

// LogicalField is one column of a logical schema: a stable numeric id, a
// display name, whether the field is required (never null), and its
// logical type. Field ids are the sole stable identity; two fields with
// the same id but different names are the same field (a rename).
type LogicalField struct {
	ID       int
	Name     string
	Required bool
	Type     LogicalType
}

func (f LogicalField) String() string {
	req := "optional"
	if f.Required {
		req = "required"
	}

	return fmt.Sprintf("%d: %s: %s %s", f.ID, f.Name, req, f.Type)
}

func (f LogicalField) Equals(o LogicalField) bool {
	return f.ID == o.ID && f.Name == o.Name && f.Required == o.Required && f.Type.Equals(o.Type)
}

// LogicalSchema is an ordered, immutable sequence of logical fields.
// Names are display-only and looked up case-sensitively or not per the
// caller's request; ids are the sole stable identity.
type LogicalSchema struct {
	fields  []LogicalField
	byName  map[string]int // exact name -> index into fields
	byFold  map[string]int // case-folded name -> index into fields
	byID    map[int]int    // field id -> index into fields
}

// NewLogicalSchema builds a schema from an ordered field list. Panics if
// two fields share a name or an id, since both must be unique within a
// schema for lookups to be well defined.
func NewLogicalSchema(fields ...LogicalField) *LogicalSchema {
	s := &LogicalSchema{
		fields: fields,
		byName: make(map[string]int, len(fields)),
		byFold: make(map[string]int, len(fields)),
		byID:   make(map[int]int, len(fields)),
	}

	for i, f := range fields {
		if _, dup := s.byName[f.Name]; dup {
			panic(fmt.Errorf("%w: duplicate field name %q in schema", ErrInvalidArgument, f.Name))
		}
		if _, dup := s.byID[f.ID]; dup {
			panic(fmt.Errorf("%w: duplicate field id %d in schema", ErrInvalidArgument, f.ID))
		}

		s.byName[f.Name] = i
		s.byFold[strings.ToLower(f.Name)] = i
		s.byID[f.ID] = i
	}

	return s
}

// Fields returns the ordered field list. The returned slice must not be
// mutated by callers.
func (s *LogicalSchema) Fields() []LogicalField { return s.fields }

// FindFieldByName looks up a field by exact, case-sensitive name.
func (s *LogicalSchema) FindFieldByName(name string) (LogicalField, bool) {
	i, ok := s.byName[name]
	if !ok {
		return LogicalField{}, false
	}

	return s.fields[i], true
}

// FindFieldByNameCaseInsensitive looks up a field by name ignoring case.
func (s *LogicalSchema) FindFieldByNameCaseInsensitive(name string) (LogicalField, bool) {
	i, ok := s.byFold[strings.ToLower(name)]
	if !ok {
		return LogicalField{}, false
	}

	return s.fields[i], true
}

// FindFieldByID looks up a field by its stable id.
func (s *LogicalSchema) FindFieldByID(id int) (LogicalField, bool) {
	i, ok := s.byID[id]
	if !ok {
		return LogicalField{}, false
	}

	return s.fields[i], true
}

// ColumnPath is a sequence of names identifying a column within a
// physical schema's (possibly nested) column tree. For this module's
// purposes it is almost always a single-element path (a top-level
// column), but the type is a slice so a caller-supplied mapping function
// can address a column nested inside a struct.
type ColumnPath []string

func (p ColumnPath) String() string { return strings.Join(p, ".") }

func (p ColumnPath) Equals(o ColumnPath) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}

	return true
}

// ColumnDescriptor is the physical-schema-side counterpart of a bound
// reference: the column path and physical type the file reader reports
// for a column, independent of any particular row group. It carries no
// encoding information; per-row-group encodings come from
// RowGroupMetadata, since encodings vary per row group even for the same
// column.
type ColumnDescriptor struct {
	Path         ColumnPath
	PhysicalType PhysicalType
}

// PhysicalSchema is the opaque column tree supplied by the file reader
// (an external collaborator, out of scope for this module — see §6).
// Binding maps a logical field to a physical path via ResolveColumn,
// using a name-matching rule the caller has already arranged (e.g. a
// field-id-to-path table built once when the file was opened).
type PhysicalSchema interface {
	// ResolveColumn returns the column descriptor for a logical field, or
	// false if the physical schema has no such column.
	ResolveColumn(field LogicalField) (ColumnDescriptor, bool)
}
