package policies

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverdueFine(t *testing.T) {
	calc := StandardFineCalculator{}

	assert.Equal(t, 0.0, calc.OverdueFine(0, 50))
	assert.Equal(t, 6.0, calc.OverdueFine(3, 50))
	// 40 days * 2.0 = 80, capped at 5 * 5.0 = 25.
	assert.Equal(t, 25.0, calc.OverdueFine(40, 5))
}

func TestDamageFine(t *testing.T) {
	calc := StandardFineCalculator{}

	assert.Equal(t, 20.0, calc.DamageFine(200, "minor"))
	assert.Equal(t, 80.0, calc.DamageFine(200, "moderate"))
	assert.Equal(t, 140.0, calc.DamageFine(200, "severe"))
	assert.Equal(t, 200.0, calc.DamageFine(200, "destroyed"))
}

func TestDamageFine_SeverityIsCaseInsensitive(t *testing.T) {
	calc := StandardFineCalculator{}
	assert.Equal(t, 140.0, calc.DamageFine(200, "Severe"))
}

func TestDamageFine_UnknownSeverityChargesNothing(t *testing.T) {
	calc := StandardFineCalculator{}
	assert.Equal(t, 0.0, calc.DamageFine(200, "unknown"))
	assert.Equal(t, 0.0, calc.DamageFine(200, ""))
}
