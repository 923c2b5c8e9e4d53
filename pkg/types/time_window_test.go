package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHourlyWindow(t *testing.T) {
	assert.Equal(t, TimeWindow("08:00-09:00"), NewHourlyWindow(8))
	assert.Equal(t, TimeWindow("15:00-16:00"), NewHourlyWindow(15))
}

func TestParseTimeWindow(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeWindow
		wantErr bool
	}{
		{name: "hourly window", input: "09:00-10:00", want: "09:00-10:00"},
		{name: "trims spaces", input: " 14:00-15:00 ", want: "14:00-15:00"},
		{name: "half hour", input: "09:30-10:00", want: "09:30-10:00"},
		{name: "missing dash", input: "09:00", wantErr: true},
		{name: "single digit hour", input: "9:00-10:00", wantErr: true},
		{name: "end before start", input: "10:00-09:00", wantErr: true},
		{name: "equal bounds", input: "10:00-10:00", wantErr: true},
		{name: "bad minute", input: "10:60-11:00", wantErr: true},
		{name: "garbage", input: "morning", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeWindow(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeWindow)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeWindow_Accessors(t *testing.T) {
	w := TimeWindow("13:00-14:00")

	assert.Equal(t, "13:00", w.Start())
	assert.Equal(t, "14:00", w.End())
	assert.Equal(t, 13*60, w.StartMinutes())
	assert.Equal(t, -1, TimeWindow("bad").StartMinutes())
}

func TestTimeWindow_Label(t *testing.T) {
	assert.Equal(t, "8:00 AM - 9:00 AM", TimeWindow("08:00-09:00").Label())
	assert.Equal(t, "11:00 AM - 12:00 PM", TimeWindow("11:00-12:00").Label())
	assert.Equal(t, "3:00 PM - 4:00 PM", TimeWindow("15:00-16:00").Label())
	assert.Equal(t, "bad", TimeWindow("bad").Label())
}
