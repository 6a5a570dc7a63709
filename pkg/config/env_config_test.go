// pkg/config/env_config_test.go
package config

import (
	"os"
	"testing"
	"time"
)

var floatsimEnvVars = []string{
	"FLOATSIM_HEALTH_ADDR",
	"FLOATSIM_HEADLESS",
	"FLOATSIM_STALL_TIMEOUT",
	"FLOATSIM_SHUTDOWN_TIMEOUT",
	"FLOATSIM_TICK_RATE",
	"FLOATSIM_SEED",
	"FLOATSIM_GRAVITY",
	"FLOATSIM_WAVE_AMPLITUDE",
	"FLOATSIM_WAVE_FREQUENCY",
	"FLOATSIM_GUARD_MAX_FAILURES",
	"FLOATSIM_GUARD_TIMEOUT",
}

// clearEnv unsets every FLOATSIM_ variable and restores them after the test
func clearEnv(t *testing.T) {
	t.Helper()
	originalEnv := make(map[string]string)
	for _, key := range floatsimEnvVars {
		if value, ok := os.LookupEnv(key); ok {
			originalEnv[key] = value
		}
		os.Unsetenv(key)
	}
	t.Cleanup(func() {
		for _, key := range floatsimEnvVars {
			if value, ok := originalEnv[key]; ok {
				os.Setenv(key, value)
			} else {
				os.Unsetenv(key)
			}
		}
	})
}

// createValidConfig creates a valid EnvironmentConfig for testing
func createValidConfig() *EnvironmentConfig {
	return &EnvironmentConfig{
		HealthAddr:               ":8080",
		StallTimeout:             2 * time.Second,
		ShutdownTimeout:          5 * time.Second,
		TickRate:                 50,
		Seed:                     1,
		Gravity:                  -9.81,
		WaveAmplitude:            0.05,
		WaveFrequency:            1.5,
		GuardMaxConsecutiveFails: 5,
		GuardTimeout:             5 * time.Second,
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearEnv(t)

	t.Run("DefaultValues", func(t *testing.T) {
		config, err := LoadConfigFromEnv()
		if err != nil {
			t.Fatalf("LoadConfigFromEnv() failed: %v", err)
		}

		if config.HealthAddr != ":8080" {
			t.Errorf("Expected HealthAddr ':8080', got '%s'", config.HealthAddr)
		}
		if config.Headless {
			t.Error("Expected Headless false")
		}
		if config.TickRate != 50 {
			t.Errorf("Expected TickRate 50, got %d", config.TickRate)
		}
		if config.Gravity != -9.81 {
			t.Errorf("Expected Gravity -9.81, got %f", config.Gravity)
		}
		if config.StallTimeout != 2*time.Second {
			t.Errorf("Expected StallTimeout 2s, got %v", config.StallTimeout)
		}
		if config.GuardMaxConsecutiveFails != 5 {
			t.Errorf("Expected GuardMaxConsecutiveFails 5, got %d", config.GuardMaxConsecutiveFails)
		}
		if config.GuardTimeout != 5*time.Second {
			t.Errorf("Expected GuardTimeout 5s, got %v", config.GuardTimeout)
		}
	})

	t.Run("EnvironmentOverrides", func(t *testing.T) {
		os.Setenv("FLOATSIM_HEALTH_ADDR", "127.0.0.1:9090")
		os.Setenv("FLOATSIM_HEADLESS", "true")
		os.Setenv("FLOATSIM_STALL_TIMEOUT", "750ms")
		os.Setenv("FLOATSIM_TICK_RATE", "120")
		os.Setenv("FLOATSIM_SEED", "77")
		os.Setenv("FLOATSIM_GRAVITY", "-3.7")
		os.Setenv("FLOATSIM_WAVE_AMPLITUDE", "0.4")
		os.Setenv("FLOATSIM_GUARD_MAX_FAILURES", "9")

		config, err := LoadConfigFromEnv()
		if err != nil {
			t.Fatalf("LoadConfigFromEnv() failed: %v", err)
		}

		if config.HealthAddr != "127.0.0.1:9090" {
			t.Errorf("Expected HealthAddr '127.0.0.1:9090', got '%s'", config.HealthAddr)
		}
		if !config.Headless {
			t.Error("Expected Headless true")
		}
		if config.StallTimeout != 750*time.Millisecond {
			t.Errorf("Expected StallTimeout 750ms, got %v", config.StallTimeout)
		}
		if config.TickRate != 120 {
			t.Errorf("Expected TickRate 120, got %d", config.TickRate)
		}
		if config.Seed != 77 {
			t.Errorf("Expected Seed 77, got %d", config.Seed)
		}
		if config.Gravity != -3.7 {
			t.Errorf("Expected Gravity -3.7, got %f", config.Gravity)
		}
		if config.WaveAmplitude != 0.4 {
			t.Errorf("Expected WaveAmplitude 0.4, got %f", config.WaveAmplitude)
		}
		if config.GuardMaxConsecutiveFails != 9 {
			t.Errorf("Expected GuardMaxConsecutiveFails 9, got %d", config.GuardMaxConsecutiveFails)
		}
	})

	t.Run("InvalidValueRejected", func(t *testing.T) {
		os.Setenv("FLOATSIM_TICK_RATE", "5000")
		defer os.Unsetenv("FLOATSIM_TICK_RATE")

		if _, err := LoadConfigFromEnv(); err == nil {
			t.Error("Expected validation error for tick rate 5000")
		}
	})
}

func TestValidateEnvironmentConfig(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*EnvironmentConfig)
		expectError bool
		errorField  string
	}{
		{"ValidConfig", func(*EnvironmentConfig) {}, false, ""},
		{"EmptyHealthAddr", func(c *EnvironmentConfig) { c.HealthAddr = "" }, true, "HealthAddr"},
		{"StallTimeoutTooShort", func(c *EnvironmentConfig) { c.StallTimeout = 10 * time.Millisecond }, true, "StallTimeout"},
		{"StallTimeoutTooLong", func(c *EnvironmentConfig) { c.StallTimeout = 2 * time.Minute }, true, "StallTimeout"},
		{"ShutdownTimeoutTooShort", func(c *EnvironmentConfig) { c.ShutdownTimeout = 0 }, true, "ShutdownTimeout"},
		{"TickRateTooLow", func(c *EnvironmentConfig) { c.TickRate = 0 }, true, "TickRate"},
		{"TickRateTooHigh", func(c *EnvironmentConfig) { c.TickRate = 1001 }, true, "TickRate"},
		{"GravityUpward", func(c *EnvironmentConfig) { c.Gravity = 1 }, true, "Gravity"},
		{"NegativeWaveAmplitude", func(c *EnvironmentConfig) { c.WaveAmplitude = -0.1 }, true, "WaveAmplitude"},
		{"WaveFrequencyTooHigh", func(c *EnvironmentConfig) { c.WaveFrequency = 101 }, true, "WaveFrequency"},
		{"GuardFailuresTooLow", func(c *EnvironmentConfig) { c.GuardMaxConsecutiveFails = 0 }, true, "GuardMaxConsecutiveFails"},
		{"GuardTimeoutTooShort", func(c *EnvironmentConfig) { c.GuardTimeout = time.Millisecond }, true, "GuardTimeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := createValidConfig()
			tt.modify(config)
			err := validateEnvironmentConfig(config)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected validation error, but got none")
				} else if validationErr, ok := err.(*ValidationError); ok {
					if validationErr.Field != tt.errorField {
						t.Errorf("Expected error for field '%s', got error for field '%s'", tt.errorField, validationErr.Field)
					}
				} else {
					t.Errorf("Expected ValidationError, got %T: %v", err, err)
				}
			} else if err != nil {
				t.Errorf("Expected no validation error, but got: %v", err)
			}
		})
	}
}

func TestApplyEnvironmentOverrides(t *testing.T) {
	clearEnv(t)

	t.Run("UnsetVariablesKeepFileValues", func(t *testing.T) {
		pondConfig := DefaultConfig()
		pondConfig.Surface.Amplitude = 0.7
		pondConfig.Gravity = -1

		if err := ApplyEnvironmentOverrides(pondConfig); err != nil {
			t.Fatalf("ApplyEnvironmentOverrides failed: %v", err)
		}
		if pondConfig.Surface.Amplitude != 0.7 || pondConfig.Gravity != -1 {
			t.Errorf("Unset variables changed the config: %+v", pondConfig)
		}
	})

	t.Run("SetVariablesOverride", func(t *testing.T) {
		os.Setenv("FLOATSIM_TICK_RATE", "100")
		os.Setenv("FLOATSIM_SEED", "12")
		os.Setenv("FLOATSIM_GRAVITY", "-1.62")
		os.Setenv("FLOATSIM_WAVE_AMPLITUDE", "0.25")
		os.Setenv("FLOATSIM_WAVE_FREQUENCY", "3")
		os.Setenv("FLOATSIM_GUARD_MAX_FAILURES", "2")
		os.Setenv("FLOATSIM_GUARD_TIMEOUT", "1500ms")

		pondConfig := DefaultConfig()
		pondConfig.Guard.Enabled = false

		if err := ApplyEnvironmentOverrides(pondConfig); err != nil {
			t.Fatalf("ApplyEnvironmentOverrides failed: %v", err)
		}

		if pondConfig.TimeStep != 0.01 {
			t.Errorf("Expected TimeStep 0.01, got %f", pondConfig.TimeStep)
		}
		if pondConfig.Seed != 12 {
			t.Errorf("Expected Seed 12, got %d", pondConfig.Seed)
		}
		if pondConfig.Gravity != -1.62 {
			t.Errorf("Expected Gravity -1.62, got %f", pondConfig.Gravity)
		}
		if pondConfig.Surface.Amplitude != 0.25 || pondConfig.Surface.Frequency != 3 {
			t.Errorf("Unexpected surface: %+v", pondConfig.Surface)
		}
		if !pondConfig.Guard.Enabled || pondConfig.Guard.MaxConsecutiveFailures != 2 {
			t.Errorf("Unexpected guard: %+v", pondConfig.Guard)
		}
		if pondConfig.Guard.TimeoutSeconds != 1.5 {
			t.Errorf("Expected guard timeout 1.5s, got %f", pondConfig.Guard.TimeoutSeconds)
		}
	})
}

func TestGetEnvHelperFunctions(t *testing.T) {
	// Test getEnvOrDefault
	os.Setenv("TEST_STRING", "test_value")
	if result := getEnvOrDefault("TEST_STRING", "default"); result != "test_value" {
		t.Errorf("getEnvOrDefault: expected 'test_value', got '%s'", result)
	}
	if result := getEnvOrDefault("NONEXISTENT", "default"); result != "default" {
		t.Errorf("getEnvOrDefault: expected 'default', got '%s'", result)
	}
	os.Unsetenv("TEST_STRING")

	// Test getEnvAsIntOrDefault
	os.Setenv("TEST_INT", "42")
	if result := getEnvAsIntOrDefault("TEST_INT", 10); result != 42 {
		t.Errorf("getEnvAsIntOrDefault: expected 42, got %d", result)
	}
	if result := getEnvAsIntOrDefault("NONEXISTENT", 10); result != 10 {
		t.Errorf("getEnvAsIntOrDefault: expected 10, got %d", result)
	}
	os.Setenv("TEST_INT", "invalid")
	if result := getEnvAsIntOrDefault("TEST_INT", 10); result != 10 {
		t.Errorf("getEnvAsIntOrDefault with invalid value: expected 10, got %d", result)
	}
	os.Unsetenv("TEST_INT")

	// Test getEnvAsBoolOrDefault
	os.Setenv("TEST_BOOL", "true")
	if result := getEnvAsBoolOrDefault("TEST_BOOL", false); result != true {
		t.Errorf("getEnvAsBoolOrDefault: expected true, got %v", result)
	}
	os.Setenv("TEST_BOOL", "invalid")
	if result := getEnvAsBoolOrDefault("TEST_BOOL", false); result != false {
		t.Errorf("getEnvAsBoolOrDefault with invalid value: expected false, got %v", result)
	}
	os.Unsetenv("TEST_BOOL")

	// Test getEnvAsFloatOrDefault
	os.Setenv("TEST_FLOAT", "3.14")
	if result := getEnvAsFloatOrDefault("TEST_FLOAT", 1.0); result != 3.14 {
		t.Errorf("getEnvAsFloatOrDefault: expected 3.14, got %f", result)
	}
	os.Setenv("TEST_FLOAT", "invalid")
	if result := getEnvAsFloatOrDefault("TEST_FLOAT", 1.0); result != 1.0 {
		t.Errorf("getEnvAsFloatOrDefault with invalid value: expected 1.0, got %f", result)
	}
	os.Unsetenv("TEST_FLOAT")

	// Test getEnvAsDurationOrDefault
	os.Setenv("TEST_DURATION", "5s")
	if result := getEnvAsDurationOrDefault("TEST_DURATION", time.Second); result != 5*time.Second {
		t.Errorf("getEnvAsDurationOrDefault: expected 5s, got %v", result)
	}
	os.Setenv("TEST_DURATION", "invalid")
	if result := getEnvAsDurationOrDefault("TEST_DURATION", time.Second); result != time.Second {
		t.Errorf("getEnvAsDurationOrDefault with invalid value: expected 1s, got %v", result)
	}
	os.Unsetenv("TEST_DURATION")
}
