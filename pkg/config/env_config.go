// pkg/config/env_config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// EnvironmentConfig holds runtime settings read from FLOATSIM_* variables
type EnvironmentConfig struct {
	// Runner settings
	HealthAddr      string
	Headless        bool
	StallTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Simulation overrides
	TickRate      int
	Seed          int
	Gravity       float64
	WaveAmplitude float64
	WaveFrequency float64

	// Surface guard configuration
	GuardMaxConsecutiveFails int
	GuardTimeout             time.Duration
}

// ValidationError reports a single invalid environment setting
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Message)
}

// LoadConfigFromEnv reads the environment, falling back to defaults
func LoadConfigFromEnv() (*EnvironmentConfig, error) {
	config := &EnvironmentConfig{
		HealthAddr:      getEnvOrDefault("FLOATSIM_HEALTH_ADDR", ":8080"),
		Headless:        getEnvAsBoolOrDefault("FLOATSIM_HEADLESS", false),
		StallTimeout:    getEnvAsDurationOrDefault("FLOATSIM_STALL_TIMEOUT", 2*time.Second),
		ShutdownTimeout: getEnvAsDurationOrDefault("FLOATSIM_SHUTDOWN_TIMEOUT", 5*time.Second),

		TickRate:      getEnvAsIntOrDefault("FLOATSIM_TICK_RATE", 50),
		Seed:          getEnvAsIntOrDefault("FLOATSIM_SEED", 1),
		Gravity:       getEnvAsFloatOrDefault("FLOATSIM_GRAVITY", -9.81),
		WaveAmplitude: getEnvAsFloatOrDefault("FLOATSIM_WAVE_AMPLITUDE", 0.05),
		WaveFrequency: getEnvAsFloatOrDefault("FLOATSIM_WAVE_FREQUENCY", 1.5),

		GuardMaxConsecutiveFails: getEnvAsIntOrDefault("FLOATSIM_GUARD_MAX_FAILURES", 5),
		GuardTimeout:             getEnvAsDurationOrDefault("FLOATSIM_GUARD_TIMEOUT", 5*time.Second),
	}

	if err := validateEnvironmentConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateEnvironmentConfig(config *EnvironmentConfig) error {
	if config.HealthAddr == "" {
		return &ValidationError{Field: "HealthAddr", Value: config.HealthAddr, Message: "must not be empty"}
	}
	if config.StallTimeout < 100*time.Millisecond || config.StallTimeout > time.Minute {
		return &ValidationError{Field: "StallTimeout", Value: config.StallTimeout, Message: "must be between 100ms and 1m"}
	}
	if config.ShutdownTimeout < time.Second || config.ShutdownTimeout > 5*time.Minute {
		return &ValidationError{Field: "ShutdownTimeout", Value: config.ShutdownTimeout, Message: "must be between 1s and 5m"}
	}
	if config.TickRate < 1 || config.TickRate > 1000 {
		return &ValidationError{Field: "TickRate", Value: config.TickRate, Message: "must be between 1 and 1000"}
	}
	if config.Gravity > 0 || config.Gravity < -100 {
		return &ValidationError{Field: "Gravity", Value: config.Gravity, Message: "must be between -100 and 0"}
	}
	if config.WaveAmplitude < 0 || config.WaveAmplitude > 10 {
		return &ValidationError{Field: "WaveAmplitude", Value: config.WaveAmplitude, Message: "must be between 0 and 10"}
	}
	if config.WaveFrequency < 0 || config.WaveFrequency > 100 {
		return &ValidationError{Field: "WaveFrequency", Value: config.WaveFrequency, Message: "must be between 0 and 100"}
	}
	if config.GuardMaxConsecutiveFails < 1 || config.GuardMaxConsecutiveFails > 1000 {
		return &ValidationError{Field: "GuardMaxConsecutiveFails", Value: config.GuardMaxConsecutiveFails, Message: "must be between 1 and 1000"}
	}
	if config.GuardTimeout < 10*time.Millisecond || config.GuardTimeout > 10*time.Minute {
		return &ValidationError{Field: "GuardTimeout", Value: config.GuardTimeout, Message: "must be between 10ms and 10m"}
	}
	return nil
}

// ApplyEnvironmentOverrides copies simulation settings that are explicitly
// set in the environment onto config. Unset variables leave the file's
// values alone.
func ApplyEnvironmentOverrides(config *PondConfig) error {
	env, err := LoadConfigFromEnv()
	if err != nil {
		return err
	}

	if isSet("FLOATSIM_TICK_RATE") {
		config.TimeStep = 1 / float64(env.TickRate)
	}
	if isSet("FLOATSIM_SEED") {
		config.Seed = int64(env.Seed)
	}
	if isSet("FLOATSIM_GRAVITY") {
		config.Gravity = env.Gravity
	}
	if isSet("FLOATSIM_WAVE_AMPLITUDE") {
		config.Surface.Amplitude = env.WaveAmplitude
	}
	if isSet("FLOATSIM_WAVE_FREQUENCY") {
		config.Surface.Frequency = env.WaveFrequency
	}
	if isSet("FLOATSIM_GUARD_MAX_FAILURES") {
		config.Guard.Enabled = true
		config.Guard.MaxConsecutiveFailures = uint32(env.GuardMaxConsecutiveFails)
	}
	if isSet("FLOATSIM_GUARD_TIMEOUT") {
		config.Guard.Enabled = true
		config.Guard.TimeoutSeconds = env.GuardTimeout.Seconds()
	}

	return nil
}

func isSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
