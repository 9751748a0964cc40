package enums

import "fmt"

// ProductKind distinguishes guided device-skin products from flat-variant ones.
type ProductKind string

const (
	ProductKindDeviceSkin ProductKind = "device_skin"
	ProductKindApparel    ProductKind = "apparel"
	ProductKindAccessory  ProductKind = "accessory"
)

var validProductKinds = []ProductKind{
	ProductKindDeviceSkin,
	ProductKindApparel,
	ProductKindAccessory,
}

// String implements fmt.Stringer.
func (p ProductKind) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductKind.
func (p ProductKind) IsValid() bool {
	for _, candidate := range validProductKinds {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductKind converts raw input into a ProductKind.
func ParseProductKind(value string) (ProductKind, error) {
	for _, candidate := range validProductKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product kind %q", value)
}
