package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	assert.Equal(t, "abc", ToString("abc"))
	assert.Equal(t, "abc", ToString([]byte("abc")))
	assert.Equal(t, "42", ToString(int64(42)))
	assert.Equal(t, "true", ToString(true))
	assert.Equal(t, "1.5", ToString(1.5))
	assert.Equal(t, "", ToString(nil))
}

func TestToBool(t *testing.T) {
	for _, v := range []any{true, "true", "t", "YES", "y", "1", "on", []byte("True"), int64(2)} {
		assert.True(t, ToBool(v), "%v", v)
	}
	for _, v := range []any{false, "false", "no", "0", "off", "", nil, int64(0)} {
		assert.False(t, ToBool(v), "%v", v)
	}
}

func TestToInt(t *testing.T) {
	n, ok := ToInt(int64(7))
	assert.True(t, ok)
	assert.Equal(t, int64(7), n)

	n, ok = ToInt("12")
	assert.True(t, ok)
	assert.Equal(t, int64(12), n)

	n, ok = ToInt(true)
	assert.True(t, ok)
	assert.Equal(t, int64(1), n)

	_, ok = ToInt("not a number")
	assert.False(t, ok)
}
