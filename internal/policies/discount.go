package policies

import (
	"github.com/MariaMashkovska/library-project/internal/models"
)

// DiscountPolicy reduces a monetary amount by a rate keyed on reader category.
type DiscountPolicy interface {
	Apply(amount float64, category models.ReaderCategory) float64
}

// CategoryDiscount discounts by a fixed per-category rate table. A category missing
// from the table gets no discount.
type CategoryDiscount struct {
	rates map[models.ReaderCategory]float64
}

// NewCategoryDiscount returns the standard rate table: Regular 0%, Student 15%,
// Senior 20%, VIP 25%.
func NewCategoryDiscount() *CategoryDiscount {
	return &CategoryDiscount{
		rates: map[models.ReaderCategory]float64{
			models.CategoryRegular: 0.0,
			models.CategoryStudent: 0.15,
			models.CategorySenior:  0.20,
			models.CategoryVIP:     0.25,
		},
	}
}

// Apply returns the discounted amount. The result is never negative regardless of
// the rate table contents.
func (d *CategoryDiscount) Apply(amount float64, category models.ReaderCategory) float64 {
	discounted := amount - amount*d.rates[category]
	if discounted < 0 {
		return 0
	}
	return discounted
}
