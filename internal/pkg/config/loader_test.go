package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvString(t *testing.T) {
	t.Setenv("TEST_STRING", "from-env")
	assert.Equal(t, "from-env", LoadEnvString("TEST_STRING", "default"))
	assert.Equal(t, "default", LoadEnvString("TEST_STRING_UNSET", "default"))
}

func TestLoadEnvWithFallback_ValidationFailure(t *testing.T) {
	t.Setenv("TEST_CRON", "not a cron")

	result := LoadEnvWithFallback("TEST_CRON", "30 5 * * *", ValidateCronSchedule)

	assert.True(t, result.FallbackApplied)
	assert.Equal(t, "30 5 * * *", result.Value.(string))
	assert.Len(t, result.Warnings, 1)
}

func TestLoadEnvWithFallback_Unset(t *testing.T) {
	result := LoadEnvWithFallback("TEST_CRON_UNSET", "30 5 * * *", ValidateCronSchedule)

	assert.False(t, result.FallbackApplied)
	assert.Equal(t, "30 5 * * *", result.Value.(string))
	assert.Empty(t, result.Warnings)
}

func TestLoadEnvInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	result := LoadEnvInt("TEST_INT", 7, func(v int) error { return ValidateIntRange(v, 1, 100) })
	assert.False(t, result.FallbackApplied)
	assert.Equal(t, 42, result.Value.(int))

	t.Setenv("TEST_INT", "nope")
	result = LoadEnvInt("TEST_INT", 7, nil)
	assert.True(t, result.FallbackApplied)
	assert.Equal(t, 7, result.Value.(int))

	t.Setenv("TEST_INT", "500")
	result = LoadEnvInt("TEST_INT", 7, func(v int) error { return ValidateIntRange(v, 1, 100) })
	assert.True(t, result.FallbackApplied)
	assert.Equal(t, 7, result.Value.(int))
}

func TestLoadEnvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "90s")
	result := LoadEnvDuration("TEST_DURATION", time.Minute, ValidatePositiveDuration)
	assert.False(t, result.FallbackApplied)
	assert.Equal(t, 90*time.Second, result.Value.(time.Duration))

	t.Setenv("TEST_DURATION", "soon")
	result = LoadEnvDuration("TEST_DURATION", time.Minute, nil)
	assert.True(t, result.FallbackApplied)
	assert.Equal(t, time.Minute, result.Value.(time.Duration))
}

func TestValidators(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("0 7 * * *"))
	assert.Error(t, ValidateCronSchedule(""))
	assert.Error(t, ValidateCronSchedule("every tuesday"))

	assert.NoError(t, ValidateTimezone("Asia/Kolkata"))
	assert.Error(t, ValidateTimezone("Mars/Olympus"))

	assert.NoError(t, ValidateIntRange(5, 1, 10))
	assert.Error(t, ValidateIntRange(0, 1, 10))
	assert.Error(t, ValidateIntRange(11, 1, 10))

	assert.NoError(t, ValidateDuration(time.Minute, time.Second, time.Hour))
	assert.Error(t, ValidateDuration(2*time.Hour, time.Second, time.Hour))

	assert.NoError(t, ValidatePositiveDuration(time.Second))
	assert.Error(t, ValidatePositiveDuration(0))
}
