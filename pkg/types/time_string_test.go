package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "canonical", input: "09:05", want: "09:05"},
		{name: "without leading zero", input: "9:05", want: "09:05"},
		{name: "end of day", input: "23:59", want: "23:59"},
		{name: "garbage", input: "nine", wantErr: true},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	start := MustTimeString("09:00")

	got, err := start.AddMinutes(35)
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:35"), got)

	got, err = MustTimeString("17:55").AddMinutes(5)
	require.NoError(t, err)
	assert.Equal(t, TimeString("18:00"), got)

	_, err = MustTimeString("23:50").AddMinutes(15)
	assert.ErrorIs(t, err, ErrTimeOverflow)

	_, err = TimeString("bad").AddMinutes(5)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_Compare(t *testing.T) {
	a := MustTimeString("09:30")
	b := MustTimeString("10:00")

	assert.True(t, a.IsBefore(b))
	assert.False(t, b.IsBefore(a))
	assert.True(t, b.IsAfter(a))
	assert.False(t, a.IsAfter(a))
	assert.Equal(t, 30, a.MinutesUntil(b))
	assert.Equal(t, 570, a.Minutes())
	// фиксированная ширина: лексикографический порядок совпадает с хронологическим
	assert.Less(t, string(a), string(b))
}
