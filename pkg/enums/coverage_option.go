package enums

import "fmt"

// CoverageOption is the final step of the device-skin selection flow.
type CoverageOption string

const (
	CoverageOptionFullBody CoverageOption = "full_body_wrap"
	CoverageOptionBackOnly CoverageOption = "back_only"
)

var validCoverageOptions = []CoverageOption{
	CoverageOptionFullBody,
	CoverageOptionBackOnly,
}

// String implements fmt.Stringer.
func (c CoverageOption) String() string {
	return string(c)
}

// Label returns the customer-facing wording used in composite variants.
func (c CoverageOption) Label() string {
	switch c {
	case CoverageOptionFullBody:
		return "Full Body Wrap"
	case CoverageOptionBackOnly:
		return "Back Only"
	}
	return string(c)
}

// IsValid reports whether the value is a known CoverageOption.
func (c CoverageOption) IsValid() bool {
	for _, candidate := range validCoverageOptions {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCoverageOption converts raw input into a CoverageOption.
func ParseCoverageOption(value string) (CoverageOption, error) {
	for _, candidate := range validCoverageOptions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid coverage option %q", value)
}
