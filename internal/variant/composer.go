package variant

import (
	"fmt"

	"github.com/wrapnest/storefront-backend/pkg/enums"
	pkgerrors "github.com/wrapnest/storefront-backend/pkg/errors"
	"github.com/wrapnest/storefront-backend/pkg/types"
)

// State is the composer's position in the guided selection flow.
type State string

const (
	StateEmpty       State = "empty"
	StateBrandChosen State = "brand_chosen"
	StateModelChosen State = "model_chosen"
	StateLogoChosen  State = "logo_chosen"
	StateComplete    State = "complete"
)

// Composer walks a device-skin buyer through brand, model, logo cut and
// coverage in strict order. Re-choosing an earlier step discards every later
// choice. The onChange callback fires only on entering Complete, with the
// finished composite string.
type Composer struct {
	catalog  types.VariantOptions
	onChange func(string)

	brand    string
	model    string
	logo     enums.LogoOption
	coverage enums.CoverageOption
	state    State
}

// NewComposer builds a composer over the product's device catalog.
func NewComposer(catalog types.VariantOptions, onChange func(string)) *Composer {
	return &Composer{
		catalog:  catalog,
		onChange: onChange,
		state:    StateEmpty,
	}
}

// State returns the current step state.
func (c *Composer) State() State { return c.state }

// IsComplete reports whether all four choices are made.
func (c *Composer) IsComplete() bool { return c.state == StateComplete }

// ChooseBrand selects the device brand and discards model, logo and coverage.
func (c *Composer) ChooseBrand(brand string) error {
	if len(c.catalog.ModelsFor(brand)) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown brand %q", brand))
	}
	c.brand = brand
	c.model = ""
	c.logo = ""
	c.coverage = ""
	c.state = StateBrandChosen
	return nil
}

// ChooseModel selects the device model within the chosen brand and discards
// logo and coverage.
func (c *Composer) ChooseModel(model string) error {
	if c.brand == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "choose a brand before a model")
	}
	if !contains(c.catalog.ModelsFor(c.brand), model) {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("model %q is not available for brand %q", model, c.brand))
	}
	c.model = model
	c.logo = ""
	c.coverage = ""
	c.state = StateModelChosen
	return nil
}

// ChooseLogo selects the logo cut and discards coverage.
func (c *Composer) ChooseLogo(option enums.LogoOption) error {
	if c.model == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "choose a model before a logo option")
	}
	if !option.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid logo option %q", option))
	}
	c.logo = option
	c.coverage = ""
	c.state = StateLogoChosen
	return nil
}

// ChooseCoverage selects the wrap coverage, completing the flow. Entering
// Complete fires onChange exactly once with the composite string.
func (c *Composer) ChooseCoverage(option enums.CoverageOption) error {
	if c.logo == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "choose a logo option before coverage")
	}
	if !option.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid coverage option %q", option))
	}
	c.coverage = option
	c.state = StateComplete
	if c.onChange != nil {
		c.onChange(c.composite())
	}
	return nil
}

// Composite returns the finished variant string. It is only available once
// the composer is Complete.
func (c *Composer) Composite() (string, error) {
	if c.state != StateComplete {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "variant selection is incomplete")
	}
	return c.composite(), nil
}

func (c *Composer) composite() string {
	return fmt.Sprintf("%s - %s - %s", c.model, c.coverage.Label(), c.logo.Label())
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
