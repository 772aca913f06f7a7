package rules

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/country_codes.yaml
var countryCodesYAML []byte

//go:embed data/language_codes.yaml
var languageCodesYAML []byte

var (
	codesOnce     sync.Once
	countryCodes  map[string]string
	languageCodes map[string]string
	paddedCountry map[string]struct{}
	codesErr      error
)

func loadCodes() {
	codesOnce.Do(func() {
		if err := yaml.Unmarshal(countryCodesYAML, &countryCodes); err != nil {
			codesErr = fmt.Errorf("failed to parse country code table: %w", err)
			return
		}
		if err := yaml.Unmarshal(languageCodesYAML, &languageCodes); err != nil {
			codesErr = fmt.Errorf("failed to parse language code table: %w", err)
			return
		}
		paddedCountry = make(map[string]struct{}, len(countryCodes))
		for c := range countryCodes {
			for len(c) < 3 {
				c += " "
			}
			paddedCountry[c] = struct{}{}
		}
	})
	if codesErr != nil {
		panic(fmt.Sprintf("packaged code tables are invalid: %v", codesErr))
	}
}

// CountryCodes returns the packaged MARC country code table mapping
// code to place name. Loaded once, read-only.
func CountryCodes() map[string]string {
	loadCodes()
	return countryCodes
}

// LanguageCodes returns the packaged MARC language code table mapping
// code to language name. Loaded once, read-only.
func LanguageCodes() map[string]string {
	loadCodes()
	return languageCodes
}

// ValidCountryCode reports whether a 3-byte slice of an 008 field names
// a known country. Table codes shorter than three characters are
// right-padded with spaces, matching how they appear in the fixed field.
func ValidCountryCode(code string) bool {
	loadCodes()
	_, ok := paddedCountry[code]
	return ok
}

// ValidLanguageCode reports whether a 3-byte slice of an 008 field names
// a known language.
func ValidLanguageCode(code string) bool {
	loadCodes()
	_, ok := languageCodes[code]
	return ok
}
