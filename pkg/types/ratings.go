package types

// RatingSummary aggregates review scores for a product.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// VariantOptions is the document describing how a product is configured:
// either a guided device catalog or a flat option list.
type VariantOptions struct {
	// DeviceCatalog maps brand display names to their selectable models.
	DeviceCatalog map[string][]string `json:"device_catalog,omitempty"`
	// FlatOptions holds single-pick choices (sizes, colors) for non-device products.
	FlatOptions []string `json:"flat_options,omitempty"`
}

// ModelsFor returns the model domain for a brand, nil when the brand is unknown.
func (v VariantOptions) ModelsFor(brand string) []string {
	if v.DeviceCatalog == nil {
		return nil
	}
	return v.DeviceCatalog[brand]
}
