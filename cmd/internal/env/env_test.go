package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetDuration(t *testing.T) {
	t.Setenv("SESSION_LIFETIME", "90m")
	assert.Equal(t, 90*time.Minute, getDuration("SESSION_LIFETIME", time.Hour))

	t.Setenv("SESSION_LIFETIME", "forever")
	assert.Equal(t, time.Hour, getDuration("SESSION_LIFETIME", time.Hour))

	t.Setenv("SESSION_LIFETIME", "-5s")
	assert.Equal(t, time.Hour, getDuration("SESSION_LIFETIME", time.Hour))
}

func TestGetEnvFallback(t *testing.T) {
	assert.Equal(t, "fallback", getEnv("BACKOFFICE_TEST_UNSET_KEY", "fallback"))
	t.Setenv("BACKOFFICE_TEST_SET_KEY", "")
	assert.Equal(t, "", getEnv("BACKOFFICE_TEST_SET_KEY", "fallback"))
}
