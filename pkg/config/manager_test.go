package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagerGetStringWithDefault(t *testing.T) {
	manager := NewConfigManager()

	t.Setenv("CTXPACK_TEST_STRING", "from-env")
	assert.Equal(t, "from-env", manager.GetStringWithDefault("CTXPACK_TEST_STRING", "fallback"))

	assert.Equal(t, "fallback", manager.GetStringWithDefault("CTXPACK_TEST_STRING_MISSING", "fallback"))
}

func TestManagerGetIntWithDefault(t *testing.T) {
	manager := NewConfigManager()

	t.Setenv("CTXPACK_TEST_INT", "42")
	assert.Equal(t, 42, manager.GetIntWithDefault("CTXPACK_TEST_INT", 7))

	t.Setenv("CTXPACK_TEST_INT_BAD", "not-a-number")
	assert.Equal(t, 7, manager.GetIntWithDefault("CTXPACK_TEST_INT_BAD", 7))

	assert.Equal(t, 7, manager.GetIntWithDefault("CTXPACK_TEST_INT_MISSING", 7))
}

func TestManagerGetBoolWithDefault(t *testing.T) {
	manager := NewConfigManager()

	t.Setenv("CTXPACK_TEST_BOOL", "true")
	assert.True(t, manager.GetBoolWithDefault("CTXPACK_TEST_BOOL", false))

	t.Setenv("CTXPACK_TEST_BOOL_BAD", "maybe")
	assert.True(t, manager.GetBoolWithDefault("CTXPACK_TEST_BOOL_BAD", true))

	assert.False(t, manager.GetBoolWithDefault("CTXPACK_TEST_BOOL_MISSING", false))
}
