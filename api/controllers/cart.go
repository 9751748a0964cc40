package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wrapnest/storefront-backend/api/middleware"
	"github.com/wrapnest/storefront-backend/api/responses"
	"github.com/wrapnest/storefront-backend/api/validators"
	"github.com/wrapnest/storefront-backend/internal/cart"
	productsvc "github.com/wrapnest/storefront-backend/internal/products"
	"github.com/wrapnest/storefront-backend/internal/variant"
	"github.com/wrapnest/storefront-backend/pkg/enums"
	pkgerrors "github.com/wrapnest/storefront-backend/pkg/errors"
	"github.com/wrapnest/storefront-backend/pkg/kv"
	"github.com/wrapnest/storefront-backend/pkg/logger"
	"github.com/wrapnest/storefront-backend/pkg/metrics"
)

// CartDeps groups the dependencies shared by the cart handlers. Each request
// rehydrates the guest's store from its snapshot, mutates it and lets the
// store persist the result.
type CartDeps struct {
	Snapshots kv.Snapshots
	Products  productsvc.Service
	Logger    *logger.Logger
	Metrics   *metrics.StoreMetrics
}

type cartView struct {
	Lines      []cart.Line     `json:"lines"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

func (d CartDeps) storeForRequest(ctx context.Context) (*cart.Store, error) {
	token := middleware.GuestTokenFromContext(ctx)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "guest identity missing")
	}
	return cart.NewStore(ctx, cart.StoreParams{
		Snapshots: d.Snapshots,
		Key:       kv.CartKey(token),
		Logger:    d.Logger,
		Metrics:   d.Metrics,
	})
}

func newCartView(store *cart.Store) cartView {
	return cartView{
		Lines:      store.Lines(),
		TotalItems: store.TotalItems(),
		TotalPrice: store.TotalPrice(),
	}
}

// GetCart returns the guest's current cart.
func GetCart(deps CartDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := deps.storeForRequest(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(store))
	}
}

type variantSelection struct {
	Brand    *string `json:"brand,omitempty"`
	Model    *string `json:"model,omitempty"`
	Logo     *string `json:"logo,omitempty"`
	Coverage *string `json:"coverage,omitempty"`
	Option   *string `json:"option,omitempty"`
}

type addCartItemRequest struct {
	ProductID string            `json:"product_id" validate:"required,uuid"`
	Quantity  int               `json:"quantity" validate:"required,min=1"`
	Selection *variantSelection `json:"selection,omitempty"`
}

// AddCartItem adds a product to the cart. The variant is composed server side
// from the submitted selection so an incomplete selection never produces a
// cart line.
func AddCartItem(deps CartDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := deps.Products.GetByID(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}
		if !product.InStock {
			responses.WriteError(r.Context(), deps.Logger, w,
				pkgerrors.New(pkgerrors.CodeValidation, "product is out of stock"))
			return
		}

		variantStr, deviceModel, err := composeVariant(product, payload.Selection)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}

		store, err := deps.storeForRequest(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}

		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		input := cart.ItemInput{
			ProductID:   product.ID.String(),
			Name:        product.Name,
			Price:       decimal.New(int64(product.PriceCents), -2),
			Quantity:    payload.Quantity,
			Image:       image,
			Variant:     variantStr,
			DeviceModel: deviceModel,
		}
		if err := store.AddItem(r.Context(), input); err != nil {
			responses.WriteError(r.Context(), deps.Logger, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart snapshot write failed"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartView(store))
	}
}

// composeVariant runs the product's selection flow over the submitted choices.
// Device skins walk the full guided composer; flat products pick one option;
// products without options take no selection at all.
func composeVariant(product *productsvc.ProductDTO, sel *variantSelection) (string, string, error) {
	switch {
	case product.Kind == enums.ProductKindDeviceSkin:
		if sel == nil || sel.Brand == nil || sel.Model == nil || sel.Logo == nil || sel.Coverage == nil {
			return "", "", pkgerrors.New(pkgerrors.CodeValidation,
				"device skins require brand, model, logo and coverage")
		}
		logo, err := enums.ParseLogoOption(*sel.Logo)
		if err != nil {
			return "", "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid logo option")
		}
		coverage, err := enums.ParseCoverageOption(*sel.Coverage)
		if err != nil {
			return "", "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid coverage option")
		}

		composer := variant.NewComposer(product.VariantOptions, nil)
		if err := composer.ChooseBrand(*sel.Brand); err != nil {
			return "", "", err
		}
		if err := composer.ChooseModel(*sel.Model); err != nil {
			return "", "", err
		}
		if err := composer.ChooseLogo(logo); err != nil {
			return "", "", err
		}
		if err := composer.ChooseCoverage(coverage); err != nil {
			return "", "", err
		}
		composite, err := composer.Composite()
		if err != nil {
			return "", "", err
		}
		return composite, *sel.Model, nil

	case len(product.VariantOptions.FlatOptions) > 0:
		if sel == nil || sel.Option == nil {
			return "", "", pkgerrors.New(pkgerrors.CodeValidation, "an option must be selected")
		}
		selector := variant.NewFlatSelector(product.VariantOptions.FlatOptions, nil)
		if err := selector.Choose(*sel.Option); err != nil {
			return "", "", err
		}
		selected, _ := selector.Selected()
		return selected, "", nil

	default:
		if sel != nil {
			return "", "", pkgerrors.New(pkgerrors.CodeValidation,
				"this product takes no variant selection")
		}
		return "", "", nil
	}
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCartItem sets a line quantity. Zero or below removes the line.
func UpdateCartItem(deps CartDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineID := chi.URLParam(r, "id")
		if _, err := uuid.Parse(lineID); err != nil {
			responses.WriteError(r.Context(), deps.Logger, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line id"))
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}

		store, err := deps.storeForRequest(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}
		if err := store.UpdateQuantity(r.Context(), lineID, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), deps.Logger, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart snapshot write failed"))
			return
		}
		responses.WriteSuccess(w, newCartView(store))
	}
}

// RemoveCartItem removes one line by id.
func RemoveCartItem(deps CartDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineID := chi.URLParam(r, "id")
		if _, err := uuid.Parse(lineID); err != nil {
			responses.WriteError(r.Context(), deps.Logger, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line id"))
			return
		}

		store, err := deps.storeForRequest(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}
		if err := store.RemoveItem(r.Context(), lineID); err != nil {
			responses.WriteError(r.Context(), deps.Logger, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart snapshot write failed"))
			return
		}
		responses.WriteSuccess(w, newCartView(store))
	}
}

// RemoveCartProduct drops every cart line for the product, across variants.
func RemoveCartProduct(deps CartDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		store, err := deps.storeForRequest(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}
		if err := store.RemoveByProductID(r.Context(), productID.String()); err != nil {
			responses.WriteError(r.Context(), deps.Logger, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart snapshot write failed"))
			return
		}
		responses.WriteSuccess(w, newCartView(store))
	}
}

// ClearCart empties the guest's cart.
func ClearCart(deps CartDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := deps.storeForRequest(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}
		if err := store.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), deps.Logger, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart snapshot write failed"))
			return
		}
		responses.WriteSuccess(w, newCartView(store))
	}
}
