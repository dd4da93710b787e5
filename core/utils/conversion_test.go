package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "gear_front", ToString("gear_front"))
	assert.Equal(t, "1.5", ToString(json.Number("1.5")))
	assert.Equal(t, "true", ToString(true))
	assert.Equal(t, "3", ToString(3))
}

func TestToNumbers(t *testing.T) {
	assert.Equal(t, 2.5, ToFloat(json.Number("2.5")))
	assert.Equal(t, 2.5, ToFloat(" 2.5 "))
	assert.Equal(t, 0.0, ToFloat("n/a"))
	assert.Equal(t, 1.0, ToFloat(true))

	assert.Equal(t, 7, ToInt(json.Number("7")))
	assert.Equal(t, 7, ToInt(json.Number("7.9")))
	assert.Equal(t, 12, ToInt("12"))
	assert.Equal(t, 3, ToInt(3.2))
	assert.Equal(t, 0, ToInt(nil))
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool(true))
	assert.True(t, ToBool("TRUE"))
	assert.True(t, ToBool("1"))
	assert.True(t, ToBool(json.Number("1")))
	assert.False(t, ToBool("no"))
	assert.False(t, ToBool(json.Number("0")))
	assert.False(t, ToBool(nil))
}
