package models

import "regexp"

// IDFormat classifies a GSIS player identifier
type IDFormat int

const (
	IDInvalid IDFormat = iota
	// IDStandard is the current two-segment form, e.g. 00-0035000
	IDStandard
	// IDLegacy is an older alphanumeric id of at least eight characters
	IDLegacy
)

func (f IDFormat) String() string {
	switch f {
	case IDStandard:
		return "standard"
	case IDLegacy:
		return "legacy"
	}
	return "invalid"
}

var (
	standardIDRegex = regexp.MustCompile(`^\d{2}-\d{7}$`)
	legacyIDRegex   = regexp.MustCompile(`^[A-Za-z0-9]{8,}$`)
)

// ClassifyID reports which identifier format id follows
func ClassifyID(id string) IDFormat {
	switch {
	case standardIDRegex.MatchString(id):
		return IDStandard
	case legacyIDRegex.MatchString(id):
		return IDLegacy
	}
	return IDInvalid
}

// ValidID reports whether id may be written as an executable statement.
// Legacy ids are accepted but callers should flag them.
func ValidID(id string) bool {
	return ClassifyID(id) != IDInvalid
}
