package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", d.String())
	assert.Equal(t, "15/03/2024", d.BR())

	d, err = ParseDate("15/03/2024")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", d.String())

	d, err = ParseDate("  ")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseDate("15-03-2024")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDate_JSON(t *testing.T) {
	var doc struct {
		Data Date `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"data":"2024-01-02"}`), &doc))
	assert.Equal(t, 2024, doc.Data.Year())

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":"2024-01-02"}`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`{"data":null}`), &doc))
	out, err = json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":null}`, string(out))
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2024-05-06"))
	assert.Equal(t, "2024-05-06", d.String())

	require.NoError(t, d.Scan(time.Date(2023, 1, 2, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, "2023-01-02", d.String())

	require.NoError(t, d.Scan([]byte("2022-12-31 00:00:00")))
	assert.Equal(t, "2022-12-31", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	v, err := d.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.Error(t, d.Scan(42))
}
