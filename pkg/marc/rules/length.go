package rules

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Length is a control-field length constraint: either a fixed byte count
// or an inclusive [min, max] range. The zero value matches nothing and is
// never used directly; rules without a length constraint carry a nil
// *Length.
type Length struct {
	fixed  int
	min    int
	max    int
	ranged bool
}

// FixedLength returns a constraint matching exactly n bytes.
func FixedLength(n int) *Length {
	return &Length{fixed: n}
}

// RangeLength returns a constraint matching any count in [min, max].
func RangeLength(min, max int) *Length {
	return &Length{min: min, max: max, ranged: true}
}

// Matches reports whether a data length satisfies the constraint.
func (l *Length) Matches(n int) bool {
	if l.ranged {
		return n >= l.min && n <= l.max
	}
	return n == l.fixed
}

// Expected returns the value used in violation messages: the fixed length
// as an int, or the range formatted as "[min, max]".
func (l *Length) Expected() any {
	if l.ranged {
		return fmt.Sprintf("[%d, %d]", l.min, l.max)
	}
	return l.fixed
}

// UnmarshalYAML accepts either a scalar int or a two-element [min, max]
// sequence.
func (l *Length) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var n int
		if err := node.Decode(&n); err != nil {
			return fmt.Errorf("length must be an integer: %w", err)
		}
		*l = Length{fixed: n}
		return nil
	case yaml.SequenceNode:
		var bounds []int
		if err := node.Decode(&bounds); err != nil {
			return fmt.Errorf("length range must be a sequence of integers: %w", err)
		}
		if len(bounds) != 2 {
			return fmt.Errorf("length range must have exactly two bounds, got %d", len(bounds))
		}
		*l = Length{min: bounds[0], max: bounds[1], ranged: true}
		return nil
	}
	return fmt.Errorf("length must be an integer or a [min, max] sequence")
}

// UnmarshalJSON accepts either a scalar int or a two-element [min, max]
// array, mirroring the YAML form for the override wire contract.
func (l *Length) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*l = Length{fixed: n}
		return nil
	}
	var bounds []int
	if err := json.Unmarshal(data, &bounds); err != nil {
		return fmt.Errorf("length must be an integer or a [min, max] array")
	}
	if len(bounds) != 2 {
		return fmt.Errorf("length range must have exactly two bounds, got %d", len(bounds))
	}
	*l = Length{min: bounds[0], max: bounds[1], ranged: true}
	return nil
}

// MarshalJSON emits the fixed length as an int or the range as an array.
func (l *Length) MarshalJSON() ([]byte, error) {
	if l.ranged {
		return json.Marshal([]int{l.min, l.max})
	}
	return json.Marshal(l.fixed)
}
