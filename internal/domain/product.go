package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

func (s ProductStatus) String() string {
	return string(s)
}

// Toggle returns the status a click on the status badge switches to
func (s ProductStatus) Toggle() ProductStatus {
	if s == ProductStatusActive {
		return ProductStatusInactive
	}
	return ProductStatusActive
}

func (s ProductStatus) Label() string {
	if s == ProductStatusActive {
		return "Active"
	}
	return "Inactive"
}

type StockStatus string

const (
	StockInStock    StockStatus = "In Stock"
	StockLowStock   StockStatus = "Low Stock"
	StockOutOfStock StockStatus = "Out of Stock"
)

var StockStatuses = []StockStatus{
	StockInStock,
	StockLowStock,
	StockOutOfStock,
}

func (s StockStatus) String() string {
	if s == "" {
		return "Unknown"
	}
	return string(s)
}

// Price accepts both JSON numbers and numeric strings; decimal columns
// come back from the API as strings.
type Price float64

func (p Price) Float() float64 {
	return float64(p)
}

func (p *Price) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*p = 0
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid price %s: %w", string(data), err)
	}
	*p = Price(v)
	return nil
}

// Text accepts strings, numbers and null
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	*t = Text(data)
	return nil
}

type Product struct {
	ID                          ID            `json:"id"`
	Name                        string        `json:"name"`
	Brand                       string        `json:"brand"`
	OriginalPrice               Price         `json:"originalPrice"`
	DiscountedPrice             Price         `json:"discountedPrice"`
	DiscountPercentage          Price         `json:"discountPercentage"`
	StockStatus                 StockStatus   `json:"stockStatus"`
	Note                        Text          `json:"note"`
	Material                    Text          `json:"material"`
	Color                       Text          `json:"color"`
	SeaterCount                 Text          `json:"seaterCount"`
	WarrantyPeriod              Text          `json:"warrantyPeriod"`
	Delivery                    Text          `json:"delivery"`
	Installation                Text          `json:"installation"`
	ProductCareInstructions     Text          `json:"productCareInstructions"`
	ReturnAndCancellationPolicy Text          `json:"returnAndCancellationPolicy"`
	PriceIncludesTax            bool          `json:"priceIncludesTax"`
	ShippingIncluded            bool          `json:"shippingIncluded"`
	InstallationIncluded        bool          `json:"installationIncluded"`
	AssemblyRequired            bool          `json:"assemblyRequired"`
	WarrantyIncluded            bool          `json:"warrantyIncluded"`
	CashOnDelivery              bool          `json:"cashOnDelivery"`
	IsModifiable                bool          `json:"isModifiable"`
	Status                      ProductStatus `json:"status"`
	CategoryIDs                 []ID          `json:"categoryIds"`
	ImageURLs                   []string      `json:"imageUrls"`
}

// ProductRow is one line of the products screen
type ProductRow struct {
	Product
	Categories ResolvedNames `json:"categories"`
}

// ProductDetail is the product page: the product and the names of every
// category it is filed under
type ProductDetail struct {
	Product
	CategoryNames []string `json:"category_names"`
}

// ProductTab selects which products the list shows
type ProductTab string

const (
	ProductTabAll      ProductTab = "all"
	ProductTabActive   ProductTab = "active"
	ProductTabInactive ProductTab = "inactive"
)

// Includes reports whether a product with the given status belongs to the tab
func (t ProductTab) Includes(status ProductStatus) bool {
	switch t {
	case ProductTabActive:
		return status == ProductStatusActive
	case ProductTabInactive:
		return status == ProductStatusInactive
	default:
		return true
	}
}

// ProductList is the products screen with its tab counters
type ProductList struct {
	Rows     []ProductRow `json:"rows"`
	Total    int          `json:"total"`
	Active   int          `json:"active"`
	Inactive int          `json:"inactive"`
}
