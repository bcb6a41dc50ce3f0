package duration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{input: "1h 30min", want: 90},
		{input: "2 hours 15 mins", want: 135},
		{input: "45min", want: 45},
		{input: "", want: DefaultMinutes},
		{input: "   ", want: DefaultMinutes},
		{input: "30 minutes", want: 30},
		{input: "1 hour", want: 60},
		{input: "15M", want: 15},
		{input: "1H30MIN", want: 90},
		{input: "30min 1h", want: 90},
		{input: "about 20 minutes or so", want: 20},
		{input: "quick trim", want: DefaultMinutes},
		{input: "0 min", want: DefaultMinutes},
		{input: "5m 5m 5m", want: 15},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.input))
		})
	}
}

func TestParsePtr(t *testing.T) {
	assert.Equal(t, DefaultMinutes, ParsePtr(nil))

	text := "1h"
	assert.Equal(t, 60, ParsePtr(&text))
}

func TestSum(t *testing.T) {
	assert.Equal(t, 0, Sum())
	assert.Equal(t, 105, Sum("1h 30min", "15 mins"))
	assert.Equal(t, 75, Sum("45min", ""))
}
