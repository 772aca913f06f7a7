package marc

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	// controlTagPattern matches control field tags (001-009).
	controlTagPattern = regexp.MustCompile(`^00[1-9]$`)

	// dataTagPattern matches data field tags (010-999).
	dataTagPattern = regexp.MustCompile(`^(0[1-9]\d|[1-9]\d\d)$`)
)

// IsControlTag reports whether tag names a control field (001-009).
func IsControlTag(tag string) bool {
	return controlTagPattern.MatchString(tag)
}

// IsDataTag reports whether tag names a data field (010-999).
func IsDataTag(tag string) bool {
	return dataTagPattern.MatchString(tag)
}

// Field is a tagged MARC field: either a ControlField or a DataField.
// The discriminator is the tag prefix: tags starting with "00" are
// control fields, everything else is a data field.
type Field interface {
	// FieldTag returns the three-digit tag.
	FieldTag() string

	// Control reports whether the field is a control field.
	Control() bool

	json.Marshaler
}

// Subfield is one (code, value) pair within a data field. The code is a
// single character; repeated codes are legal unless a rule forbids them.
type Subfield struct {
	Code  string
	Value string
}

// MarshalJSON serializes a subfield as {"<code>": "<value>"}.
func (s Subfield) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{s.Code: s.Value})
}

// Indicators are the two single-character qualifiers on a data field.
// An empty string represents an indicator that was not recorded.
type Indicators struct {
	First  string
	Second string
}

// At returns indicator n (0 or 1).
func (i Indicators) At(n int) string {
	if n == 0 {
		return i.First
	}
	return i.Second
}

// ControlField is a field with tag 001-009: a scalar data payload with no
// indicators or subfields.
type ControlField struct {
	Tag  string
	Data string
}

// FieldTag implements Field.
func (f *ControlField) FieldTag() string { return f.Tag }

// Control implements Field.
func (f *ControlField) Control() bool { return true }

// MarshalJSON serializes a control field as {"<tag>": "<data>"}.
func (f *ControlField) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{f.Tag: f.Data})
}

// DataField is a field with tag 010-999: two indicators plus an ordered
// subfield list.
type DataField struct {
	Tag        string
	Indicators Indicators
	Subfields  []Subfield
}

// FieldTag implements Field.
func (f *DataField) FieldTag() string { return f.Tag }

// Control implements Field.
func (f *DataField) Control() bool { return false }

// MarshalJSON serializes a data field as
// {"<tag>": {"ind1": ..., "ind2": ..., "subfields": [...]}}.
func (f *DataField) MarshalJSON() ([]byte, error) {
	subs := make([]json.RawMessage, 0, len(f.Subfields))
	for _, s := range f.Subfields {
		raw, err := s.MarshalJSON()
		if err != nil {
			return nil, err
		}
		subs = append(subs, raw)
	}
	body := map[string]any{
		"ind1":      f.Indicators.First,
		"ind2":      f.Indicators.Second,
		"subfields": subs,
	}
	return json.Marshal(map[string]any{f.Tag: body})
}

// dataFieldBody is the wire shape of a data field's value object.
type dataFieldBody struct {
	Ind1      string            `json:"ind1"`
	Ind2      string            `json:"ind2"`
	Subfields []json.RawMessage `json:"subfields"`
}

// decodeField parses one element of the "fields" array: a single-key
// object mapping a tag to either a scalar string (control field) or an
// indicator/subfield object (data field).
func decodeField(raw json.RawMessage) (Field, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("field entry is not an object: %w", err)
	}
	if len(obj) != 1 {
		return nil, fmt.Errorf("field entry must have exactly one tag key, got %d", len(obj))
	}

	var tag string
	var value json.RawMessage
	for k, v := range obj {
		tag, value = k, v
	}

	if strings.HasPrefix(tag, "00") {
		var data string
		if err := json.Unmarshal(value, &data); err != nil {
			return nil, fmt.Errorf("control field %s: data must be a string: %w", tag, err)
		}
		return &ControlField{Tag: tag, Data: data}, nil
	}

	var body dataFieldBody
	if err := json.Unmarshal(value, &body); err != nil {
		return nil, fmt.Errorf("data field %s: %w", tag, err)
	}
	f := &DataField{
		Tag:        tag,
		Indicators: Indicators{First: body.Ind1, Second: body.Ind2},
	}
	for i, rawSub := range body.Subfields {
		var sub map[string]string
		if err := json.Unmarshal(rawSub, &sub); err != nil {
			return nil, fmt.Errorf("data field %s: subfield %d: %w", tag, i, err)
		}
		if len(sub) != 1 {
			return nil, fmt.Errorf("data field %s: subfield %d must have exactly one code key", tag, i)
		}
		for code, val := range sub {
			f.Subfields = append(f.Subfields, Subfield{Code: code, Value: val})
		}
	}
	return f, nil
}
