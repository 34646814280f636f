package parse

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []struct {
			desc  string
			price string
		}
	}{
		{
			name:  "two lines",
			input: "A: 10\nB: 20.50",
			want: []struct {
				desc  string
				price string
			}{{"A", "10"}, {"B", "20.5"}},
		},
		{
			name:  "garbage dropped and euro sign accepted",
			input: "garbage line\nC: 5€",
			want: []struct {
				desc  string
				price string
			}{{"C", "5"}},
		},
		{
			name:  "windows line endings and padding",
			input: "  Ozonbehandlung :  45.00 €  \r\n\r\nKindersitz: 15\r\n",
			want: []struct {
				desc  string
				price string
			}{{"Ozonbehandlung", "45"}, {"Kindersitz", "15"}},
		},
		{
			name:  "description keeps inner colon",
			input: "Zusatz: Wachs: 12.5",
			want: []struct {
				desc  string
				price string
			}{{"Zusatz: Wachs", "12.5"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Parse(tt.input)
			require.Len(t, items, len(tt.want))
			for i, want := range tt.want {
				assert.Equal(t, want.desc, items[i].Description)
				assert.True(t, items[i].NetPrice.Equal(decimal.RequireFromString(want.price)),
					"price %s != %s", items[i].NetPrice, want.price)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n \r\n"} {
		items := Parse(input)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	}
}

func TestParseLineRejects(t *testing.T) {
	for _, line := range []string{
		"no price here",
		"Politur: -5",
		"Politur: 5.123",
		"Politur: abc",
		": 10",
		"Politur: 10 EUR",
	} {
		_, ok := ParseLine(line)
		assert.False(t, ok, line)
	}
}
