package validator

import (
	"encoding/json"
	"reflect"
	"testing"

	"catalog-hq/marcval/pkg/marc"
	marcerrors "catalog-hq/marcval/pkg/marc/errors"
	"catalog-hq/marcval/pkg/marc/rules"
)

func boolPtr(b bool) *bool { return &b }

// stubRecord builds a well-formed book record that passes every default
// rule. Tests mutate copies of it to trigger specific violations.
func stubRecord() *marc.Record {
	return &marc.Record{
		Leader: "00000cam a2200000 i 4500",
		Fields: []marc.Field{
			&marc.ControlField{Tag: "001", Data: "ocn123456789"},
			&marc.ControlField{Tag: "003", Data: "OCoLC"},
			&marc.ControlField{Tag: "005", Data: "20190306120000.0"},
			&marc.ControlField{Tag: "008", Data: "190306s2017    ht a   j      000 1 hat d"},
			&marc.DataField{
				Tag:        "040",
				Indicators: marc.Indicators{First: " ", Second: " "},
				Subfields: []marc.Subfield{
					{Code: "a", Value: "DLC"},
					{Code: "b", Value: "eng"},
					{Code: "c", Value: "DLC"},
				},
			},
			&marc.DataField{
				Tag:        "050",
				Indicators: marc.Indicators{First: " ", Second: "4"},
				Subfields: []marc.Subfield{
					{Code: "a", Value: "PZ73"},
					{Code: "b", Value: ".S67 2017"},
				},
			},
			&marc.DataField{
				Tag:        "100",
				Indicators: marc.Indicators{First: "1", Second: " "},
				Subfields: []marc.Subfield{
					{Code: "a", Value: "Smith, Jane,"},
					{Code: "e", Value: "author."},
				},
			},
			&marc.DataField{
				Tag:        "245",
				Indicators: marc.Indicators{First: "1", Second: "0"},
				Subfields: []marc.Subfield{
					{Code: "a", Value: "A title in Haitian Creole /"},
					{Code: "c", Value: "Jane Smith."},
				},
			},
			&marc.DataField{
				Tag:        "264",
				Indicators: marc.Indicators{First: " ", Second: "1"},
				Subfields: []marc.Subfield{
					{Code: "a", Value: "Port-au-Prince :"},
					{Code: "b", Value: "Editions Press,"},
					{Code: "c", Value: "2017."},
				},
			},
			&marc.DataField{
				Tag:        "300",
				Indicators: marc.Indicators{First: " ", Second: " "},
				Subfields:  []marc.Subfield{{Code: "a", Value: "24 pages ;"}},
			},
			&marc.DataField{
				Tag:        "336",
				Indicators: marc.Indicators{First: " ", Second: " "},
				Subfields: []marc.Subfield{
					{Code: "a", Value: "text"},
					{Code: "b", Value: "txt"},
					{Code: "2", Value: "rdacontent"},
				},
			},
			&marc.DataField{
				Tag:        "650",
				Indicators: marc.Indicators{First: " ", Second: "0"},
				Subfields:  []marc.Subfield{{Code: "a", Value: "Haitian Creole language."}},
			},
		},
	}
}

// removeTag drops every field with the given tag.
func removeTag(rec *marc.Record, tag string) {
	var kept []marc.Field
	for _, f := range rec.Fields {
		if f.FieldTag() != tag {
			kept = append(kept, f)
		}
	}
	rec.Fields = kept
}

func TestValidateCleanRecord(t *testing.T) {
	list := Validate(stubRecord())
	if list == nil {
		t.Fatal("Validate() = nil")
	}
	if list.HasErrors() {
		t.Fatalf("valid record produced violations:\n%s", list.Error())
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	rec := stubRecord()
	rec.Fields = append(rec.Fields, &marc.ControlField{Tag: "001", Data: "dup"})
	removeTag(rec, "245")

	first, err1 := json.Marshal(Validate(rec).Violations)
	second, err2 := json.Marshal(Validate(rec).Violations)
	if err1 != nil || err2 != nil {
		t.Fatalf("marshal errors: %v %v", err1, err2)
	}
	if string(first) != string(second) {
		t.Errorf("two passes disagree:\n%s\n%s", first, second)
	}
}

func TestValidateNonRepeatableField(t *testing.T) {
	rec := stubRecord()
	rec.Fields = append(rec.Fields, &marc.ControlField{Tag: "001", Data: "ocn987654321"})

	list := Validate(rec)
	if list.Count() != 1 {
		t.Fatalf("Count() = %d, want 1:\n%s", list.Count(), list.Error())
	}
	v := list.Violations[0]
	if v.Kind != marcerrors.KindNonRepeatableField {
		t.Errorf("Kind = %s", v.Kind)
	}
	if !reflect.DeepEqual(v.Loc, []string{"fields", "001"}) {
		t.Errorf("Loc = %v", v.Loc)
	}
}

func TestValidateMissingRequiredField(t *testing.T) {
	rec := stubRecord()
	removeTag(rec, "245")

	list := Validate(rec)
	if list.Count() != 1 {
		t.Fatalf("Count() = %d, want 1:\n%s", list.Count(), list.Error())
	}
	v := list.Violations[0]
	if v.Kind != marcerrors.KindMissingRequiredField {
		t.Errorf("Kind = %s", v.Kind)
	}
	if !reflect.DeepEqual(v.Loc, []string{"fields", "245"}) {
		t.Errorf("Loc = %v", v.Loc)
	}
	if got := v.Message(); got != "One 245 field must be present in a MARC21 record." {
		t.Errorf("Message() = %q", got)
	}
}

func TestValidateMultipleMainEntry(t *testing.T) {
	rec := stubRecord()
	rec.Fields = append(rec.Fields, &marc.DataField{
		Tag:        "110",
		Indicators: marc.Indicators{First: "2", Second: " "},
		Subfields:  []marc.Subfield{{Code: "a", Value: "Some Organization."}},
	})

	list := Validate(rec)
	if list.Count() != 1 {
		t.Fatalf("Count() = %d, want 1:\n%s", list.Count(), list.Error())
	}
	v := list.Violations[0]
	if v.Kind != marcerrors.KindMultipleMainEntry {
		t.Errorf("Kind = %s", v.Kind)
	}
	if !reflect.DeepEqual(v.Loc, []string{"fields", "100", "110"}) {
		t.Errorf("Loc = %v", v.Loc)
	}
	if !reflect.DeepEqual(v.Input, []string{"100", "110"}) {
		t.Errorf("Input = %v", v.Input)
	}
}

func TestValidateSubfieldViolations(t *testing.T) {
	rec := stubRecord()
	for _, f := range rec.Fields {
		if df, ok := f.(*marc.DataField); ok && df.Tag == "050" {
			df.Subfields = append(df.Subfields,
				marc.Subfield{Code: "b", Value: "second cutter"},
				marc.Subfield{Code: "t", Value: "not defined here"},
			)
		}
	}

	list := Validate(rec)
	if list.Count() != 2 {
		t.Fatalf("Count() = %d, want 2:\n%s", list.Count(), list.Error())
	}

	repeat := list.Violations[0]
	if repeat.Kind != marcerrors.KindNonRepeatableSubfield {
		t.Errorf("first Kind = %s", repeat.Kind)
	}
	if !reflect.DeepEqual(repeat.Loc, []string{"fields", "050", "b"}) {
		t.Errorf("first Loc = %v", repeat.Loc)
	}
	if got := len(repeat.Input.([]marc.Subfield)); got != 2 {
		t.Errorf("repeated instances = %d, want 2", got)
	}

	invalid := list.Violations[1]
	if invalid.Kind != marcerrors.KindInvalidSubfield {
		t.Errorf("second Kind = %s", invalid.Kind)
	}
	if !reflect.DeepEqual(invalid.Loc, []string{"fields", "050", "t"}) {
		t.Errorf("second Loc = %v", invalid.Loc)
	}
}

func TestCheckDataFieldRepeatedUnknownSubfield(t *testing.T) {
	// An override rule can mark a code non-repeatable without listing it
	// as valid. Repetition is reported for such a code, not validity.
	rule := &rules.Rule{Subfields: &rules.SubfieldRule{
		Valid:         []string{"a"},
		NonRepeatable: []string{"b"},
	}}
	f := &marc.DataField{
		Tag:        "900",
		Indicators: marc.Indicators{First: " ", Second: " "},
		Subfields: []marc.Subfield{
			{Code: "b", Value: "first"},
			{Code: "b", Value: "second"},
		},
	}

	out := CheckDataField(rule, f)
	if len(out) != 1 {
		t.Fatalf("got %d violations, want 1", len(out))
	}
	if out[0].Kind != marcerrors.KindNonRepeatableSubfield {
		t.Errorf("Kind = %s, want %s", out[0].Kind, marcerrors.KindNonRepeatableSubfield)
	}
	if !reflect.DeepEqual(out[0].Loc, []string{"fields", "900", "b"}) {
		t.Errorf("Loc = %v", out[0].Loc)
	}
}

func TestValidateLeaderBytes(t *testing.T) {
	rec := stubRecord()
	rec.Leader = "00000cam a2200000 i     "

	list := Validate(rec)
	if list.Count() != 4 {
		t.Fatalf("Count() = %d, want 4:\n%s", list.Count(), list.Error())
	}
	wantPositions := []string{"20", "21", "22", "23"}
	for i, v := range list.Violations {
		if v.Kind != marcerrors.KindInvalidLeader {
			t.Errorf("Violations[%d].Kind = %s", i, v.Kind)
		}
		if !reflect.DeepEqual(v.Loc, []string{"leader", wantPositions[i]}) {
			t.Errorf("Violations[%d].Loc = %v", i, v.Loc)
		}
	}
}

func TestValidateShortLeader(t *testing.T) {
	rec := stubRecord()
	rec.Leader = "00000cam"

	list := Validate(rec)

	// One length violation; the eight bytes present are all legal, and the
	// record body is still validated against the BK overlays.
	if list.Count() != 1 {
		t.Fatalf("Count() = %d, want 1:\n%s", list.Count(), list.Error())
	}
	if list.Violations[0].Kind != marcerrors.KindLeaderLength {
		t.Errorf("Kind = %s", list.Violations[0].Kind)
	}
}

func TestValidateIndicatorViolation(t *testing.T) {
	rec := stubRecord()
	for _, f := range rec.Fields {
		if df, ok := f.(*marc.DataField); ok && df.Tag == "245" {
			df.Indicators = marc.Indicators{First: "9", Second: "0"}
		}
	}

	list := Validate(rec)
	if list.Count() != 1 {
		t.Fatalf("Count() = %d, want 1:\n%s", list.Count(), list.Error())
	}
	v := list.Violations[0]
	if v.Kind != marcerrors.KindInvalidIndicator {
		t.Errorf("Kind = %s", v.Kind)
	}
	if !reflect.DeepEqual(v.Loc, []string{"fields", "245", "ind1"}) {
		t.Errorf("Loc = %v", v.Loc)
	}
	if got := v.Message(); got != "245 ind1: Invalid data (9). Indicator should be ['0', '1']." {
		t.Errorf("Message() = %q", got)
	}
}

func TestValidateControlFieldLength(t *testing.T) {
	rec := stubRecord()
	for _, f := range rec.Fields {
		if cf, ok := f.(*marc.ControlField); ok && cf.Tag == "008" {
			cf.Data = "190306s2017"
		}
	}

	list := Validate(rec)
	if list.Count() != 1 {
		t.Fatalf("Count() = %d, want 1:\n%s", list.Count(), list.Error())
	}
	v := list.Violations[0]
	if v.Kind != marcerrors.KindControlFieldLength {
		t.Errorf("Kind = %s", v.Kind)
	}
	// Byte checks are skipped when the length is wrong.
	if list.HasKind(marcerrors.KindInvalidFixedField) {
		t.Error("byte violations reported for a truncated 008")
	}
}

func TestValidate008CodeTables(t *testing.T) {
	rec := stubRecord()
	for _, f := range rec.Fields {
		if cf, ok := f.(*marc.ControlField); ok && cf.Tag == "008" {
			cf.Data = "190306s2017    zz a   j      000 1 zzz d"
		}
	}

	list := Validate(rec)
	if list.Count() != 2 {
		t.Fatalf("Count() = %d, want 2:\n%s", list.Count(), list.Error())
	}
	country := list.Violations[0]
	if country.Kind != marcerrors.KindInvalidFixedField ||
		!reflect.DeepEqual(country.Loc, []string{"fields", "008", "15-17"}) {
		t.Errorf("country violation = %+v", country)
	}
	if country.Input != "zz " {
		t.Errorf("country Input = %q", country.Input)
	}
	language := list.Violations[1]
	if !reflect.DeepEqual(language.Loc, []string{"fields", "008", "35-37"}) {
		t.Errorf("language violation = %+v", language)
	}
}

func TestValidate007Subtypes(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantKinds []marcerrors.Kind
	}{
		{"valid map subtype", "ad canzn", nil},
		{"unknown subtype skipped", "x", nil},
		{"empty data skipped", "", nil},
		{"wrong length", "ad ca", []marcerrors.Kind{marcerrors.KindControlFieldLength}},
		{"bad byte", "ad cafaz", []marcerrors.Kind{marcerrors.KindInvalidFixedField}},
		{"electronic resource short form", "cr nau", nil},
		{"electronic resource below range", "cr na", []marcerrors.Kind{marcerrors.KindControlFieldLength}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := stubRecord()
			rec.Fields = append(rec.Fields, &marc.ControlField{Tag: "007", Data: tt.data})

			list := Validate(rec)
			if list.Count() != len(tt.wantKinds) {
				t.Fatalf("Count() = %d, want %d:\n%s", list.Count(), len(tt.wantKinds), list.Error())
			}
			for i, kind := range tt.wantKinds {
				if list.Violations[i].Kind != kind {
					t.Errorf("Violations[%d].Kind = %s, want %s", i, list.Violations[i].Kind, kind)
				}
			}
		})
	}
}

func TestValidate007BadByteMessage(t *testing.T) {
	rec := stubRecord()
	rec.Fields = append(rec.Fields, &marc.ControlField{Tag: "007", Data: "ad cafaz"})

	list := Validate(rec)
	if list.Count() != 1 {
		t.Fatalf("Count() = %d, want 1:\n%s", list.Count(), list.Error())
	}
	want := "007: Invalid character(s) 'z' at position '007/07'. Valid characters are: ['a', 'b', 'm', 'n', '|']."
	if got := list.Violations[0].Message(); got != want {
		t.Errorf("Message() = %q\nwant        %q", got, want)
	}
}

func TestValidateMaterialTypeRouting(t *testing.T) {
	// The book fixture's 008 is legal under a BK leader but trips the CF
	// overlay once the leader declares a computer file.
	rec := stubRecord()
	rec.Leader = "00000cmm a2200000 i 4500"

	list := Validate(rec)
	if !list.HasKind(marcerrors.KindInvalidFixedField) {
		t.Fatalf("CF overlay produced no byte violations:\n%s", list.Error())
	}
	var positions []string
	for _, v := range list.ByKind(marcerrors.KindInvalidFixedField) {
		positions = append(positions, v.Loc[2])
	}
	for _, want := range []string{"18", "26", "29", "33"} {
		if !contains(positions, want) {
			t.Errorf("positions %v missing %s", positions, want)
		}
	}
}

func TestValidateWithRuleContext(t *testing.T) {
	// Overriding 500 to non-repeatable flags the duplicate notes; the
	// default table is untouched for validators without the context.
	rec := stubRecord()
	rec.Fields = append(rec.Fields,
		&marc.DataField{Tag: "500", Indicators: marc.Indicators{First: " ", Second: " "},
			Subfields: []marc.Subfield{{Code: "a", Value: "First note."}}},
		&marc.DataField{Tag: "500", Indicators: marc.Indicators{First: " ", Second: " "},
			Subfields: []marc.Subfield{{Code: "a", Value: "Second note."}}},
	)

	if list := Validate(rec); list.HasErrors() {
		t.Fatalf("default rules flagged repeated 500s:\n%s", list.Error())
	}

	ctx := &rules.RuleContext{
		Rules: map[string]*rules.Rule{
			"500": {Repeatable: boolPtr(false)},
		},
	}
	list := New(WithRuleContext(ctx)).Validate(rec)
	if list.Count() != 1 {
		t.Fatalf("Count() = %d, want 1:\n%s", list.Count(), list.Error())
	}
	if list.Violations[0].Kind != marcerrors.KindNonRepeatableField {
		t.Errorf("Kind = %s", list.Violations[0].Kind)
	}
}

func TestValidateReplaceAll(t *testing.T) {
	// With replace_all only the supplied rules exist: the broken leader,
	// the duplicate 001 and the missing 245 all pass unnoticed.
	rec := stubRecord()
	rec.Leader = "short"
	rec.Fields = append(rec.Fields, &marc.ControlField{Tag: "001", Data: "dup"})
	removeTag(rec, "245")

	ctx := &rules.RuleContext{
		ReplaceAll: true,
		Rules: map[string]*rules.Rule{
			"050": {Ind2: []string{"0", "4"}},
		},
	}
	list := New(WithRuleContext(ctx)).Validate(rec)

	// Leader length is structural, not rule-driven, so it is still
	// reported even without an LDR rule.
	if list.Count() != 1 {
		t.Fatalf("Count() = %d, want 1:\n%s", list.Count(), list.Error())
	}
	if list.Violations[0].Kind != marcerrors.KindLeaderLength {
		t.Errorf("Kind = %s", list.Violations[0].Kind)
	}
}

func TestValidateFromJSON(t *testing.T) {
	input := `{
		"leader": "00000cam a2200000 i 4500",
		"fields": [
			{"001": "ocn123456789"},
			{"008": "190306s2017    ht a   j      000 1 hat d"},
			{"100": {"ind1": "1", "ind2": " ", "subfields": [{"a": "Smith, Jane."}]}},
			{"110": {"ind1": "2", "ind2": " ", "subfields": [{"a": "Some Organization."}]}},
			{"245": {"ind1": "1", "ind2": "0", "subfields": [{"a": "A title."}]}}
		]
	}`
	var rec marc.Record
	if err := json.Unmarshal([]byte(input), &rec); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	list := Validate(&rec)
	if list.Count() != 1 {
		t.Fatalf("Count() = %d, want 1:\n%s", list.Count(), list.Error())
	}
	if list.Violations[0].Kind != marcerrors.KindMultipleMainEntry {
		t.Errorf("Kind = %s", list.Violations[0].Kind)
	}
}
