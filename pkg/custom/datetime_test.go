package custom

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDatetime_JSONRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "UTC",
			in:   `"2024-03-01T12:30:45Z"`,
			want: `"2024-03-01T12:30:45Z"`,
		},
		{
			name: "Offset is normalised to UTC",
			in:   `"2024-03-01T13:30:45+01:00"`,
			want: `"2024-03-01T12:30:45Z"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := new(Datetime)
			require.NoError(t, json.Unmarshal([]byte(tt.in), d))

			got, err := json.Marshal(d)
			require.NoError(t, err)
			require.Equal(t, tt.want, string(got))
		})
	}
}

func TestDatetime_UnmarshalJSON_Invalid(t *testing.T) {
	d := new(Datetime)
	require.Error(t, json.Unmarshal([]byte(`"not-a-datetime"`), d))
}

func TestDatetime_ZeroMarshalsNull(t *testing.T) {
	d := new(Datetime)
	got, err := json.Marshal(d)
	require.NoError(t, err)
	require.Equal(t, "null", string(got))
}

func TestDatetime_String(t *testing.T) {
	d := Datetime(time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC))
	require.Equal(t, "2024-03-01T12:30:45Z", d.String())
}
