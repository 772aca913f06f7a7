package validator

import (
	"sort"
	"strconv"
	"strings"

	"catalog-hq/marcval/pkg/marc"
	marcerrors "catalog-hq/marcval/pkg/marc/errors"
	"catalog-hq/marcval/pkg/marc/rules"
)

// Hints shown in place of a value list for the 008 positions checked
// against the packaged code tables.
const (
	countryCodeHint  = "a code from the MARC Code List for Countries"
	languageCodeHint = "a code from the MARC Code List for Languages"
)

// position is a parsed control-field value key: a byte offset plus an
// exclusive end offset.
type position struct {
	key   string
	start int
	end   int
}

// parsePosition parses a zero-padded position key ("06") or inclusive
// range key ("15-17").
func parsePosition(key string) (position, bool) {
	lo, hi, found := strings.Cut(key, "-")
	start, err := strconv.Atoi(lo)
	if err != nil || start < 0 {
		return position{}, false
	}
	end := start + 1
	if found {
		last, err := strconv.Atoi(hi)
		if err != nil || last < start {
			return position{}, false
		}
		end = last + 1
	}
	return position{key: key, start: start, end: end}, true
}

// sortedPositions parses and orders a rule's value keys by byte offset.
// Malformed keys are skipped; the loader rejects them for packaged data,
// so this only guards caller-supplied overrides.
func sortedPositions(values map[string][]string) []position {
	out := make([]position, 0, len(values))
	for key := range values {
		if p, ok := parsePosition(key); ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].start != out[j].start {
			return out[i].start < out[j].start
		}
		return out[i].end < out[j].end
	})
	return out
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// CheckControlField validates one control field against its rule. For 007
// the rule is first narrowed by the field's first data byte; unknown
// subtypes carry no constraints and pass. When the data length is wrong
// the byte checks are skipped, since every slice offset would be
// meaningless.
func CheckControlField(rule *rules.Rule, f *marc.ControlField) []*marcerrors.Violation {
	if rule == nil {
		return nil
	}
	if f.Tag == "007" {
		if len(f.Data) == 0 {
			return nil
		}
		rule = rule.ForSubtype(string(f.Data[0]))
		if rule == nil {
			return nil
		}
	}

	if rule.Length != nil && !rule.Length.Matches(len(f.Data)) {
		return []*marcerrors.Violation{
			marcerrors.NewControlFieldLength(f.Tag, f.Data, rule.Length.Expected()),
		}
	}
	return checkControlValues(rule, f.Tag, f.Data)
}

// checkControlValues validates every constrained byte slice of a control
// field. Slices falling past the end of the data are skipped. For 008 the
// country (15-17) and language (35-37) slices are additionally checked
// against the packaged code tables.
func checkControlValues(rule *rules.Rule, tag, data string) []*marcerrors.Violation {
	var out []*marcerrors.Violation
	for _, p := range sortedPositions(rule.Values) {
		if p.end > len(data) {
			continue
		}
		slice := data[p.start:p.end]
		if !contains(rule.Values[p.key], slice) {
			out = append(out, marcerrors.NewInvalidFixedField(tag, p.key, slice, rule.Values[p.key]))
		}
	}

	if tag == "008" {
		if len(data) >= 18 {
			if country := data[15:18]; !rules.ValidCountryCode(country) {
				out = append(out, marcerrors.NewInvalidFixedField(tag, "15-17", country, countryCodeHint))
			}
		}
		if len(data) >= 38 {
			if language := data[35:38]; !rules.ValidLanguageCode(language) {
				out = append(out, marcerrors.NewInvalidFixedField(tag, "35-37", language, languageCodeHint))
			}
		}
	}
	return out
}

// CheckDataField validates one data field's indicators and subfields
// against its rule.
func CheckDataField(rule *rules.Rule, f *marc.DataField) []*marcerrors.Violation {
	if rule == nil {
		return nil
	}
	var out []*marcerrors.Violation

	for n := 1; n <= 2; n++ {
		valid := rule.IndicatorValues(n)
		if len(valid) == 0 {
			continue
		}
		if ind := f.Indicators.At(n - 1); !contains(valid, ind) {
			out = append(out, marcerrors.NewInvalidIndicator(f.Tag, n, ind, valid))
		}
	}

	if rule.Subfields == nil {
		return out
	}

	// Group subfield instances by code, preserving first-appearance order
	// so repeated validation of the same record yields identical output.
	var order []string
	byCode := make(map[string][]marc.Subfield)
	for _, sub := range f.Subfields {
		if _, seen := byCode[sub.Code]; !seen {
			order = append(order, sub.Code)
		}
		byCode[sub.Code] = append(byCode[sub.Code], sub)
	}

	for _, code := range order {
		instances := byCode[code]
		// A repeated non-repeatable code reports repetition, even when the
		// code is also outside the valid set.
		if len(instances) > 1 && rule.Subfields.IsNonRepeatable(code) {
			out = append(out, marcerrors.NewNonRepeatableSubfield(f.Tag, code, instances))
			continue
		}
		if !rule.Subfields.IsValid(code) {
			out = append(out, marcerrors.NewInvalidSubfield(f.Tag, code, instances))
		}
	}
	return out
}
