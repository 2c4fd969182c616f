package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		setEnv       bool
		envValue     string
		expected     string
	}{
		{
			name:         "env variable set",
			key:          "TEST_KEY",
			defaultValue: "default",
			setEnv:       true,
			envValue:     "custom",
			expected:     "custom",
		},
		{
			name:         "env variable not set",
			key:          "TEST_KEY_NOT_SET",
			defaultValue: "default",
			setEnv:       false,
			expected:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			result := getEnv(tt.key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "testuser",
			Password: "testpass",
			Name:     "testdb",
		},
	}

	dsn := cfg.DSN()
	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	assert.Equal(t, expected, dsn)
}

func TestParseAdminIDs(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		expected      []int64
		expectedError bool
	}{
		{
			name:     "empty list",
			raw:      "",
			expected: nil,
		},
		{
			name:     "single id",
			raw:      "123",
			expected: []int64{123},
		},
		{
			name:     "multiple ids with spaces",
			raw:      "123, 456 ,789",
			expected: []int64{123, 456, 789},
		},
		{
			name:          "invalid id",
			raw:           "123,abc",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := parseAdminIDs(tt.raw)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, ids)
			}
		})
	}
}

func TestLoad_MissingRequiredFields(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("DB_PASSWORD", "secret")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("DB_PASSWORD", "")

	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_StudyDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("STUDY_PAGE_SIZE", "")
	t.Setenv("STORAGE_TIMEOUT", "")
	t.Setenv("DEFAULT_LANGUAGE_ID", "")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, 10, cfg.Study.PageSize)
	assert.Equal(t, "5s", cfg.Study.StorageTimeout.String())
	assert.Equal(t, int64(1), cfg.Study.DefaultLanguageID)
}

func TestLoad_InvalidStudySettings(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("STUDY_PAGE_SIZE", "zero")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("STUDY_PAGE_SIZE", "10")
	t.Setenv("STORAGE_TIMEOUT", "soon")

	_, err = Load()
	assert.Error(t, err)
}
