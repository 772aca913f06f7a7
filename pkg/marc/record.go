package marc

import (
	"encoding/json"
	"fmt"
)

// Record is a full MARC21 record: a leader plus an ordered field list.
// Construction does not enforce cross-field rules (repeatability, required
// fields, main entry count); those are reported by the validator, not
// rejected here.
type Record struct {
	Leader Leader
	Fields []Field
}

// ControlFields returns the control fields in declaration order.
func (r *Record) ControlFields() []*ControlField {
	var out []*ControlField
	for _, f := range r.Fields {
		if cf, ok := f.(*ControlField); ok {
			out = append(out, cf)
		}
	}
	return out
}

// DataFields returns the data fields in declaration order.
func (r *Record) DataFields() []*DataField {
	var out []*DataField
	for _, f := range r.Fields {
		if df, ok := f.(*DataField); ok {
			out = append(out, df)
		}
	}
	return out
}

// GetField returns the first field with the given tag, or nil.
func (r *Record) GetField(tag string) Field {
	for _, f := range r.Fields {
		if f.FieldTag() == tag {
			return f
		}
	}
	return nil
}

// ControlNumber returns the record's 001 payload, or "" when absent.
func (r *Record) ControlNumber() string {
	if cf, ok := r.GetField("001").(*ControlField); ok {
		return cf.Data
	}
	return ""
}

// MarshalJSON serializes the record into its canonical structured form:
//
//	{"leader": "...", "fields": [{tag: data}, {tag: {ind1, ind2, subfields}}, ...]}
//
// Field and subfield declaration order is preserved.
func (r *Record) MarshalJSON() ([]byte, error) {
	fields := make([]json.RawMessage, 0, len(r.Fields))
	for _, f := range r.Fields {
		raw, err := f.MarshalJSON()
		if err != nil {
			return nil, err
		}
		fields = append(fields, raw)
	}
	return json.Marshal(struct {
		Leader string            `json:"leader"`
		Fields []json.RawMessage `json:"fields"`
	}{
		Leader: string(r.Leader),
		Fields: fields,
	})
}

// UnmarshalJSON parses a record from the canonical structured form.
func (r *Record) UnmarshalJSON(data []byte) error {
	var wire struct {
		Leader string            `json:"leader"`
		Fields []json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("record is not an object: %w", err)
	}
	r.Leader = Leader(wire.Leader)
	r.Fields = r.Fields[:0]
	for i, raw := range wire.Fields {
		f, err := decodeField(raw)
		if err != nil {
			return fmt.Errorf("fields[%d]: %w", i, err)
		}
		r.Fields = append(r.Fields, f)
	}
	return nil
}
