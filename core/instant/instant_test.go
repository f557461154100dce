package instant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(t time.Time) *time.Time { return &t }

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected time.Time
	}{
		{"slash 24h", "3/14/2024 14:05", time.Date(2024, 3, 14, 14, 5, 0, 0, time.UTC)},
		{"slash 24h padded", "03/04/2024 09:30", time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)},
		{"slash 12h pm", "3/14/2024 2:05:09.123 PM", time.Date(2024, 3, 14, 14, 5, 9, 123_000_000, time.UTC)},
		{"slash 12h am", "12/1/2023 12:00:00.000 AM", time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)},
		{"iso millis z", "2024-01-02T10:00:00.500Z", time.Date(2024, 1, 2, 10, 0, 0, 500_000_000, time.UTC)},
		{"iso millis offset", "2024-01-02T12:00:00.000+02:00", time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)},
		{"rfc3339 no millis", "2024-01-02T10:00:00Z", time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)},
		{"rfc3339 nanos", "2024-01-02T10:00:00.123456Z", time.Date(2024, 1, 2, 10, 0, 0, 123_456_000, time.UTC)},
		{"space separated", "2024-01-02 10:00:00", time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)},
		{"surrounding space", "  2024-01-02T10:00:00.000Z ", time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "expected %v, got %v", tt.expected, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseFailures(t *testing.T) {
	_, err := Parse("")
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Parse("   ")
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Parse("not a date at all")
	assert.ErrorIs(t, err, ErrUnparsableDate)

	assert.Nil(t, ParsePtr("garbage"))
	assert.Nil(t, ParsePtr(""))
	assert.NotNil(t, ParsePtr("2024-01-02T10:00:00.000Z"))
}

func TestElapsedMinutes(t *testing.T) {
	a := ptr(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	b := ptr(time.Date(2024, 1, 1, 11, 30, 59, 0, time.UTC))

	t.Run("truncates", func(t *testing.T) {
		got := ElapsedMinutes(a, b)
		require.NotNil(t, got)
		assert.Equal(t, 90, *got)
	})

	t.Run("symmetric", func(t *testing.T) {
		ab := ElapsedMinutes(a, b)
		ba := ElapsedMinutes(b, a)
		require.NotNil(t, ab)
		require.NotNil(t, ba)
		assert.Equal(t, *ab, *ba)
	})

	t.Run("same instant", func(t *testing.T) {
		got := ElapsedMinutes(a, a)
		require.NotNil(t, got)
		assert.Equal(t, 0, *got)
	})

	t.Run("nil endpoints", func(t *testing.T) {
		assert.Nil(t, ElapsedMinutes(nil, b))
		assert.Nil(t, ElapsedMinutes(a, nil))
		assert.Nil(t, ElapsedMinutes(nil, nil))
	})
}

func TestFormatRoundTrip(t *testing.T) {
	inputs := []time.Time{
		time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 23, 59, 59, 999_000_000, time.UTC),
		time.Date(2023, 6, 1, 8, 15, 30, 7_000_000, time.FixedZone("EST", -5*3600)),
	}

	for _, in := range inputs {
		text := Format(&in)
		got, err := Parse(text)
		require.NoError(t, err)
		assert.True(t, in.Truncate(time.Millisecond).Equal(got), "round trip of %s", text)
	}

	assert.Equal(t, "", Format(nil))
	assert.Equal(t, "2024-01-02T15:00:00.000Z", Format(ptr(time.Date(2024, 1, 2, 10, 0, 0, 0, time.FixedZone("EST", -5*3600)))))
}

func TestDate(t *testing.T) {
	assert.Equal(t, "", Date(nil))
	assert.Equal(t, "2024-01-03", Date(ptr(time.Date(2024, 1, 2, 23, 0, 0, 0, time.FixedZone("PST", -8*3600)))))
}

func TestExtractEmbedded(t *testing.T) {
	got := ExtractEmbedded("Task TASK-9 assigned to a@x.com at 2024-05-06T07:08:09.010Z, retry at 2024-05-06T08:00:00.000Z")
	require.NotNil(t, got)
	assert.True(t, time.Date(2024, 5, 6, 7, 8, 9, 10_000_000, time.UTC).Equal(*got))

	assert.Nil(t, ExtractEmbedded("no timestamp here"))
	assert.Nil(t, ExtractEmbedded("2024-05-06T07:08:09Z lacks millis"))
}
