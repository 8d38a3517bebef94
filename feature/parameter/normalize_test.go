package parameter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDuration(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1h30m", 5400, true},
		{"90m", 5400, true},
		{"2h15m30s", 8130, true},
		{"1h30m0s", 5400, true},
		{"300ms", 0.3, true},
		{"5000000000ns", 5, true},
		{"0.0833h", 299.88, true},
		{"1d", 86400, true},
		{"45", 45, true},
		{"1.5s", 1.5, true},
		{"", 0, false},
		{"invalid", 0, false},
		{"5x", 0, false},
		{"1h???", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeDuration(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 0.01)
			}
		})
	}
}

func TestDurationsEqual(t *testing.T) {
	assert.True(t, DurationsEqual("1h30m", "90m"))
	assert.True(t, DurationsEqual("1h30m0s", "5400s"))
	assert.True(t, DurationsEqual("5m", "300s"))
	assert.False(t, DurationsEqual("5m", "400s"))
	// Above a minute the tolerance is 0.1% of the larger value.
	assert.True(t, DurationsEqual("1000s", "1000.5s"))
	assert.False(t, DurationsEqual("1000s", "1002s"))
	// Under a minute the tolerance is a fixed 0.01s.
	assert.True(t, DurationsEqual("1s", "1.005s"))
	assert.False(t, DurationsEqual("1s", "1.02s"))
}

func TestDurationsEqualFallback(t *testing.T) {
	// One side unparsable: values differ.
	assert.False(t, DurationsEqual("5m", "gibberish"))
	// Neither side parsable: exact string equality.
	assert.True(t, DurationsEqual("gibberish", "gibberish"))
	assert.False(t, DurationsEqual("gibberish", "other"))
}

func TestNormalizeByteSize(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1.0 GiB", "1gib", true},
		{"1GiB", "1gib", true},
		{"1.50 GiB", "1.5gib", true},
		{"64MiB", "64mib", true},
		{"512 mb", "512mb", true},
		{"100.000KiB", "100kib", true},
		{"2tb", "2tb", true},
		{"12b", "12b", true},
		{"fast", "", false},
		{"1.5", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeByteSize(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestByteSizesEqual(t *testing.T) {
	assert.True(t, ByteSizesEqual("1.0 GiB", "1GiB"))
	assert.True(t, ByteSizesEqual("64MiB", "64 mib"))
	// No unit conversion: numerically equal sizes in different units
	// stay different.
	assert.False(t, ByteSizesEqual("1GiB", "1024MiB"))
	assert.False(t, ByteSizesEqual("1GiB", "junk"))
	assert.True(t, ByteSizesEqual("junk", "junk"))
}
