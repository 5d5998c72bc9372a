package brl

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "R$ 1.234,50", Format(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "R$ 0,00", Format(decimal.Zero))
	assert.Equal(t, "15,00", Number(decimal.NewFromInt(15)))
}

func TestParse(t *testing.T) {
	cases := map[string]string{
		"1.234,56":  "1234.56",
		"1234,56":   "1234.56",
		"1234.56":   "1234.56",
		"R$ 500,00": "500",
		" 42.9 ":    "42.9",
	}
	for in, want := range cases {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.True(t, got.Equal(decimal.RequireFromString(want)), "%s -> %s", in, got)
	}

	_, err := Parse("")
	assert.Error(t, err)
	_, err = Parse("abc")
	assert.Error(t, err)
}
