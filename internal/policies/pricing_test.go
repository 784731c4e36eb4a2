package policies

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDailyPricing(t *testing.T) {
	p := DailyPricing{}
	assert.Equal(t, 10.0, p.Cost(10, 1))
	assert.Equal(t, 70.0, p.Cost(5, 14))
}

func TestWeeklyPricing(t *testing.T) {
	p := WeeklyPricing{}
	assert.Equal(t, 10.0, p.Cost(10, 1), "a single day is one started week")
	assert.Equal(t, 10.0, p.Cost(10, 7))
	assert.Equal(t, 20.0, p.Cost(10, 8))
	assert.Equal(t, 20.0, p.Cost(10, 10))
}

func TestTieredPricing(t *testing.T) {
	p := TieredPricing{}
	assert.Equal(t, 70.0, p.Cost(10, 7), "first week at full rate")
	assert.InDelta(t, 110.0, p.Cost(10, 10), 1e-9, "7 full days plus 3 at 80%")
	assert.InDelta(t, 126.0, p.Cost(10, 14), 1e-9)
	// 7*10 + 7*8 + 6*6 = 162
	assert.InDelta(t, 162.0, p.Cost(10, 20), 1e-9)
}

func TestRentalDays_FloorsToOneDay(t *testing.T) {
	issue := date(2025, time.March, 10)

	assert.Equal(t, 1, RentalDays(issue, issue), "zero span charges one day")
	assert.Equal(t, 1, RentalDays(issue, issue.AddDate(0, 0, -3)), "negative span charges one day")
	assert.Equal(t, 5, RentalDays(issue, issue.AddDate(0, 0, 5)))
}

func TestPriceRental(t *testing.T) {
	issue := date(2025, time.March, 10)
	ret := date(2025, time.March, 24)

	assert.Equal(t, 70.0, PriceRental(DailyPricing{}, 5, issue, ret))
}

func TestPricingFor(t *testing.T) {
	for name, want := range map[string]string{
		"daily":  "daily",
		"":       "daily",
		"WEEKLY": "weekly",
		"Tiered": "tiered",
	} {
		s, err := PricingFor(name)
		require.NoError(t, err)
		assert.Equal(t, want, s.Name())
	}

	_, err := PricingFor("hourly")
	assert.ErrorIs(t, err, ErrUnknownPricingStrategy)
}
