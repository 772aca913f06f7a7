// Marcval validates MARC21 bibliographic records.
//
// It checks records in the structured JSON contract against the MARC21
// rule tables: leader bytes, control field lengths and byte values,
// indicators, subfield validity and repeatability, and record-level
// rules (repeatable tags, required fields, 1XX main entry).
//
// Usage:
//
//	# Validate a record file
//	marcval validate --file record.json
//
//	# Validate with a custom rule override file
//	marcval validate --file record.json --rules overrides.yaml
//
//	# Inspect the effective rule table
//	marcval rules show 245
//	marcval rules dump
//
//	# Run the validation HTTP API
//	marcval serve --config marcval.yaml
//
//	# Show version information
//	marcval version
package main

func main() {
	Execute()
}
