package policies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MariaMashkovska/library-project/internal/models"
)

func TestStandardBookFactory(t *testing.T) {
	book := StandardBookFactory{}.NewBook("Dune", "Frank Herbert", models.GenreFantasy, 100, 3)

	assert.Equal(t, 50.0, book.DepositCost)
	assert.Equal(t, 5.0, book.BaseRentalCost)
	assert.Equal(t, 3, book.TotalCopies)
	assert.Equal(t, 3, book.AvailableCopies)
	assert.Zero(t, book.ID, "identity is assigned on insert")
}

func TestPremiumBookFactory(t *testing.T) {
	book := PremiumBookFactory{}.NewBook("Codex", "Anon", models.GenreHistory, 200, 1)

	assert.Equal(t, 140.0, book.DepositCost)
	assert.Equal(t, 16.0, book.BaseRentalCost)
	assert.Equal(t, 1, book.TotalCopies)
	assert.Equal(t, 1, book.AvailableCopies)
}

func TestParseTier(t *testing.T) {
	for token, want := range map[string]BookTier{
		"":         TierStandard,
		"standard": TierStandard,
		"Premium":  TierPremium,
	} {
		tier, err := ParseTier(token)
		require.NoError(t, err)
		assert.Equal(t, want, tier)
	}

	_, err := ParseTier("deluxe")
	assert.ErrorIs(t, err, ErrUnknownTier)
}

func TestFactoryFor(t *testing.T) {
	assert.IsType(t, StandardBookFactory{}, FactoryFor(TierStandard))
	assert.IsType(t, PremiumBookFactory{}, FactoryFor(TierPremium))
}
