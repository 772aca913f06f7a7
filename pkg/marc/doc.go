// Package marc defines the in-memory model for MARC21 bibliographic
// records: the 24-byte leader, control fields (tags 001-009), data fields
// (tags 010-999) with indicators and subfields, and the canonical JSON
// serialization used by the CLI and the HTTP API.
//
// The package is purely structural. Rule-driven validation lives in
// catalog-hq/marcval/pkg/marc/validator; the rule model lives in
// catalog-hq/marcval/pkg/marc/rules.
//
// # Basic Usage
//
// Build a record and serialize it:
//
//	rec := &marc.Record{
//	    Leader: "00454cam a22001575i 4500",
//	    Fields: []marc.Field{
//	        &marc.ControlField{Tag: "001", Data: "on1381158740"},
//	        &marc.DataField{
//	            Tag:        "245",
//	            Indicators: marc.Indicators{First: "0", Second: "0"},
//	            Subfields:  []marc.Subfield{{Code: "a", Value: "Title :"}},
//	        },
//	    },
//	}
//	out, _ := json.Marshal(rec)
//
// Field order and subfield order are preserved through both parsing and
// serialization.
package marc
