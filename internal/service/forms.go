package service

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"furniture/admin/internal/client"
	"furniture/admin/internal/domain"
	"furniture/admin/internal/hierarchy"
	"furniture/admin/internal/pricing"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// ProductForm holds everything the add and edit product screens submit
type ProductForm struct {
	Name                        string               `json:"name" validate:"required"`
	Brand                       string               `json:"brand" validate:"required"`
	OriginalPrice               float64              `json:"originalPrice" validate:"gt=0"`
	DiscountPercentage          float64              `json:"discountPercentage" validate:"gte=0,lte=100"`
	DiscountedPrice             float64              `json:"discountedPrice" validate:"gte=0"`
	StockStatus                 domain.StockStatus   `json:"stockStatus" validate:"required,oneof='In Stock' 'Low Stock' 'Out of Stock'"`
	Status                      domain.ProductStatus `json:"status" validate:"required,oneof=active inactive"`
	Note                        string               `json:"note"`
	Material                    string               `json:"material"`
	Color                       string               `json:"color"`
	SeaterCount                 string               `json:"seaterCount"`
	WarrantyPeriod              string               `json:"warrantyPeriod"`
	Delivery                    string               `json:"delivery"`
	Installation                string               `json:"installation"`
	ProductCareInstructions     string               `json:"productCareInstructions"`
	ReturnAndCancellationPolicy string               `json:"returnAndCancellationPolicy"`
	PriceIncludesTax            bool                 `json:"priceIncludesTax"`
	ShippingIncluded            bool                 `json:"shippingIncluded"`
	InstallationIncluded        bool                 `json:"installationIncluded"`
	AssemblyRequired            bool                 `json:"assemblyRequired"`
	WarrantyIncluded            bool                 `json:"warrantyIncluded"`
	CashOnDelivery              bool                 `json:"cashOnDelivery"`
	IsModifiable                bool                 `json:"isModifiable"`

	Categories        hierarchy.Set  `json:"categoryIds" validate:"min=1"`
	Images            []client.Image `json:"-"`
	ExistingImageURLs []string       `json:"existingImageUrls"`
}

// NewProductForm returns an empty form with the add screen's defaults
func NewProductForm() *ProductForm {
	return &ProductForm{
		StockStatus:  domain.StockInStock,
		Status:       domain.ProductStatusActive,
		IsModifiable: true,
		Categories:   hierarchy.NewSet(),
	}
}

// ProductFormFrom pre-populates the edit screen from an existing product
func ProductFormFrom(p domain.Product) *ProductForm {
	status := p.Status
	if status == "" {
		status = domain.ProductStatusActive
	}

	// Older products carry only the two prices
	percent := p.DiscountPercentage.Float()
	if percent == 0 && p.DiscountedPrice > 0 {
		percent = pricing.Percentage(p.OriginalPrice.Float(), p.DiscountedPrice.Float())
	}

	return &ProductForm{
		Name:                        p.Name,
		Brand:                       p.Brand,
		OriginalPrice:               p.OriginalPrice.Float(),
		DiscountPercentage:          percent,
		DiscountedPrice:             p.DiscountedPrice.Float(),
		StockStatus:                 p.StockStatus,
		Status:                      status,
		Note:                        string(p.Note),
		Material:                    string(p.Material),
		Color:                       string(p.Color),
		SeaterCount:                 string(p.SeaterCount),
		WarrantyPeriod:              string(p.WarrantyPeriod),
		Delivery:                    string(p.Delivery),
		Installation:                string(p.Installation),
		ProductCareInstructions:     string(p.ProductCareInstructions),
		ReturnAndCancellationPolicy: string(p.ReturnAndCancellationPolicy),
		PriceIncludesTax:            p.PriceIncludesTax,
		ShippingIncluded:            p.ShippingIncluded,
		InstallationIncluded:        p.InstallationIncluded,
		AssemblyRequired:            p.AssemblyRequired,
		WarrantyIncluded:            p.WarrantyIncluded,
		CashOnDelivery:              p.CashOnDelivery,
		IsModifiable:                p.IsModifiable,
		Categories:                  hierarchy.NewSet(p.CategoryIDs...),
		ExistingImageURLs:           append([]string(nil), p.ImageURLs...),
	}
}

// ToggleCategory adds or removes a category from the selection
func (f *ProductForm) ToggleCategory(id domain.ID) {
	f.Categories = hierarchy.ToggleSelection(f.Categories, id)
}

// RecalculatePrice fills in the discounted price from the original price and
// the discount percentage
func (f *ProductForm) RecalculatePrice() {
	if price, ok := pricing.Discounted(f.OriginalPrice, f.DiscountPercentage); ok {
		f.DiscountedPrice = price
	}
}

// Validate checks the form. isNew selects the add screen's image rule: at
// least one new upload, where editing only needs one image in total.
func (f *ProductForm) Validate(isNew bool) error {
	f.Name = strings.TrimSpace(f.Name)
	f.Brand = strings.TrimSpace(f.Brand)

	if err := validate.Struct(f); err != nil {
		return validationError(err)
	}

	total := len(f.Images)
	if !isNew {
		total += len(f.ExistingImageURLs)
	}
	switch {
	case isNew && len(f.Images) == 0:
		return fmt.Errorf("%w: please upload at least one image", ErrValidation)
	case total == 0:
		return fmt.Errorf("%w: product must have at least one image", ErrValidation)
	case total > client.MaxImages:
		return fmt.Errorf("%w: maximum %d images allowed in total", ErrValidation, client.MaxImages)
	}

	if err := client.ValidateImages(f.Images); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	return nil
}

// Payload turns the form into the multipart request body
func (f *ProductForm) Payload(isNew bool) *client.ProductPayload {
	fields := map[string]string{
		"name":                        f.Name,
		"brand":                       f.Brand,
		"originalPrice":               formatAmount(f.OriginalPrice),
		"discountedPrice":             formatAmount(f.DiscountedPrice),
		"discountPercentage":          formatAmount(f.DiscountPercentage),
		"stockStatus":                 string(f.StockStatus),
		"note":                        f.Note,
		"material":                    f.Material,
		"color":                       f.Color,
		"seaterCount":                 f.SeaterCount,
		"warrantyPeriod":              f.WarrantyPeriod,
		"delivery":                    f.Delivery,
		"installation":                f.Installation,
		"productCareInstructions":     f.ProductCareInstructions,
		"returnAndCancellationPolicy": f.ReturnAndCancellationPolicy,
		"priceIncludesTax":            strconv.FormatBool(f.PriceIncludesTax),
		"shippingIncluded":            strconv.FormatBool(f.ShippingIncluded),
		"installationIncluded":        strconv.FormatBool(f.InstallationIncluded),
		"assemblyRequired":            strconv.FormatBool(f.AssemblyRequired),
		"warrantyIncluded":            strconv.FormatBool(f.WarrantyIncluded),
		"cashOnDelivery":              strconv.FormatBool(f.CashOnDelivery),
		"isModifiable":                strconv.FormatBool(f.IsModifiable),
		"status":                      string(f.Status),
	}

	return &client.ProductPayload{
		Fields:            fields,
		CategoryIDs:       f.Categories.IDs(),
		Images:            f.Images,
		ExistingImageURLs: f.ExistingImageURLs,
		KeepImages:        !isNew,
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func validationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(messages, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		if fe.Field() == "categoryIds" {
			return "please select at least one category"
		}
		return fmt.Sprintf("%s must have at least %s entries", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("%s is out of range", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}
