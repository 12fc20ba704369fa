package metrics

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/pivolan/telecom_charts/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValuePercentFraction(t *testing.T) {
	for _, f := range []float64{0, 0.03, 0.25, 0.5, 0.999, 1} {
		v, err := ParseValue(models.Number(f), true)
		require.NoError(t, err)
		assert.True(t, v.Valid)
		assert.Equal(t, f*100, v.V, "fraction %v", f)
	}
}

func TestParseValuePercentString(t *testing.T) {
	for _, s := range []string{"23.4", "0", "100", "7.25", "-3.5"} {
		v, err := ParseValue(models.Text(s+"%"), true)
		require.NoError(t, err)
		want := 0.0
		fmt.Sscanf(s, "%g", &want)
		assert.Equal(t, want, v.V, "string %s%%", s)
	}

	v, err := ParseValue(models.Text(" 12.5% "), true)
	require.NoError(t, err)
	assert.Equal(t, 12.5, v.V)
}

func TestParseValuePercentNumericString(t *testing.T) {
	v, err := ParseValue(models.Text("0.03"), true)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, v.V, 1e-9)
}

func TestParseValueThousands(t *testing.T) {
	v, err := ParseValue(models.Text("1,234.5"), false)
	require.NoError(t, err)
	assert.Equal(t, 1234.5, v.V)

	v, err = ParseValue(models.Text("12,000,000"), false)
	require.NoError(t, err)
	assert.Equal(t, 12000000.0, v.V)

	v, err = ParseValue(models.Number(42.5), false)
	require.NoError(t, err)
	assert.Equal(t, 42.5, v.V)
}

func TestParseValueMissing(t *testing.T) {
	cases := []models.Cell{
		models.Absent(),
		models.Number(math.NaN()),
		models.Text("   "),
	}
	for _, c := range cases {
		for _, percent := range []bool{true, false} {
			v, err := ParseValue(c, percent)
			assert.NoError(t, err)
			assert.False(t, v.Valid)
		}
	}
}

func TestParseValueMalformed(t *testing.T) {
	_, err := ParseValue(models.Text("n/a"), false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedValue))

	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, "n/a", f.Subject)

	_, err = ParseValue(models.Text("abc%"), true)
	assert.ErrorIs(t, err, ErrMalformedValue)

	_, err = ParseValue(models.Text("1,5"), true)
	assert.ErrorIs(t, err, ErrMalformedValue)
}

func TestParseValueDeterministic(t *testing.T) {
	c := models.Text("4,321.75")
	a, err := ParseValue(c, false)
	require.NoError(t, err)
	b, err := ParseValue(c, false)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Missing column: 'Country/Territory'", UserMessage(MissingColumn("Country/Territory")))
	assert.Equal(t, "'Atlantis' is not available.", UserMessage(NoMatch("Atlantis")))
	assert.Contains(t, UserMessage(errors.New("boom")), "boom")
}
