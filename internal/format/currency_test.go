package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMillions(t *testing.T) {
	assert.Equal(t, "€50.0M", Millions(decimal.NewFromInt(50_000_000), 1))
	assert.Equal(t, "€1.25M", Millions(decimal.NewFromInt(1_250_000), 2))
	assert.Equal(t, "€0.3M", Millions(decimal.NewFromInt(250_000), 1))
	assert.Equal(t, "€0.0M", Millions(decimal.Zero, 1))
}

func TestNullMillions(t *testing.T) {
	assert.Equal(t, Placeholder, NullMillions(decimal.NullDecimal{}, 1))
	assert.Equal(t, "€12.50M", NullMillions(decimal.NewNullDecimal(decimal.NewFromInt(12_500_000)), 2))
}

func TestOrPlaceholder(t *testing.T) {
	assert.Equal(t, Placeholder, OrPlaceholder(""))
	assert.Equal(t, "Jorge Mendes", OrPlaceholder("Jorge Mendes"))
}
