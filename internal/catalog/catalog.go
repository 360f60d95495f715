// Package catalog generates the product records shown in the storefront
// grid. It stands in for a product service.
package catalog

import (
	"fmt"
	"math/rand/v2"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/user/shopfront/internal/types"
)

// All is the pseudo-category that matches every product.
const All = "전체"

// Categories are the filter tabs in display order.
var Categories = []string{
	All,
	"상의",
	"맨투맨",
	"후드 티셔츠",
	"셔츠/블라우스",
	"티셔츠",
}

const DefaultProductCount = 12

var won = message.NewPrinter(language.Korean)

type Product struct {
	ID       int     `json:"id"`
	Brand    string  `json:"brand"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    int     `json:"price"`
	Discount int     `json:"discount"`
	Hearts   int     `json:"hearts"`
	Rating   float64 `json:"rating"`
	Reviews  int     `json:"reviews"`
	Image    string  `json:"image"`
}

// PriceLabel formats the price with thousands separators and the won suffix.
func (p Product) PriceLabel() string {
	return won.Sprintf("%d원", p.Price)
}

func (p Product) DiscountLabel() string {
	return fmt.Sprintf("%d%%", p.Discount)
}

// Catalog is an immutable product list.
type Catalog struct {
	products []Product
}

// Generate builds n products. Hearts and review counts come from rng so a
// fixed seed yields a fixed grid.
func Generate(n int, rng *rand.Rand) *Catalog {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	products := make([]Product, 0, n)
	for i := 0; i < n; i++ {
		id := i + 1
		products = append(products, Product{
			ID:       id,
			Brand:    fmt.Sprintf("브랜드 %d", id),
			Name:     fmt.Sprintf("제품 이름 %d", id),
			Category: Categories[1+i%(len(Categories)-1)],
			Price:    10000 * id,
			Discount: 10 + i*5,
			Hearts:   rng.IntN(100),
			Rating:   4.5,
			Reviews:  rng.IntN(50) + 1,
			Image:    "/product-image.jpg",
		})
	}
	return &Catalog{products: products}
}

// Products returns the products in category, or all of them for All.
func (c *Catalog) Products(category string) ([]Product, error) {
	if category == "" || category == All {
		return append([]Product(nil), c.products...), nil
	}
	if !IsCategory(category) {
		return nil, fmt.Errorf("category %q: %w", category, types.ErrInvalidArgument)
	}
	var out []Product
	for _, p := range c.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *Catalog) Len() int {
	return len(c.products)
}

func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}
