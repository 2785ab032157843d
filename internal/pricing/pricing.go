package pricing

import (
	"fmt"
	"math"
)

// Plan is the injected pricing configuration for the subscription product.
type Plan struct {
	Name            string
	OriginalPrice   float64
	DiscountedPrice float64
	DaysInPlan      int
	Currency        string
}

// Quote is the price as it should be displayed for a given discount state.
type Quote struct {
	OriginalPrice  float64
	DisplayPrice   float64
	DailyPrice     string
	DiscountActive bool
}

func (p Plan) Quote(discountActive bool) Quote {
	display := p.OriginalPrice
	if discountActive {
		display = p.DiscountedPrice
	}

	days := p.DaysInPlan
	if days <= 0 {
		days = 1
	}

	return Quote{
		OriginalPrice:  p.OriginalPrice,
		DisplayPrice:   display,
		DailyPrice:     fmt.Sprintf("%.2f", display/float64(days)),
		DiscountActive: discountActive,
	}
}

// Cents converts a display price to integer cents for purchase records.
func Cents(price float64) int64 {
	return int64(math.Round(price * 100))
}
