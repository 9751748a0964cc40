package variant

import (
	"fmt"

	pkgerrors "github.com/wrapnest/storefront-backend/pkg/errors"
)

// FlatSelector covers apparel and accessory products where the variant is a
// single pick from a fixed option list (sizes, colors, chip configs).
type FlatSelector struct {
	options  []string
	onChange func(string)
	selected string
}

// NewFlatSelector builds a selector over the product's flat option list.
func NewFlatSelector(options []string, onChange func(string)) *FlatSelector {
	return &FlatSelector{
		options:  options,
		onChange: onChange,
	}
}

// Choose picks one option and fires onChange with it.
func (f *FlatSelector) Choose(option string) error {
	if !contains(f.options, option) {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("option %q is not available", option))
	}
	f.selected = option
	if f.onChange != nil {
		f.onChange(option)
	}
	return nil
}

// Selected returns the current choice and whether one has been made.
func (f *FlatSelector) Selected() (string, bool) {
	return f.selected, f.selected != ""
}
