package enums

import "fmt"

// LogoOption is the third step of the device-skin selection flow.
type LogoOption string

const (
	LogoOptionWithCut    LogoOption = "with_logo_cut"
	LogoOptionWithoutCut LogoOption = "without_logo_cut"
)

var validLogoOptions = []LogoOption{
	LogoOptionWithCut,
	LogoOptionWithoutCut,
}

// String implements fmt.Stringer.
func (l LogoOption) String() string {
	return string(l)
}

// Label returns the customer-facing wording used in composite variants.
func (l LogoOption) Label() string {
	switch l {
	case LogoOptionWithCut:
		return "With Logo Cut"
	case LogoOptionWithoutCut:
		return "Without Logo Cut"
	}
	return string(l)
}

// IsValid reports whether the value is a known LogoOption.
func (l LogoOption) IsValid() bool {
	for _, candidate := range validLogoOptions {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLogoOption converts raw input into a LogoOption.
func ParseLogoOption(value string) (LogoOption, error) {
	for _, candidate := range validLogoOptions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid logo option %q", value)
}
