package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetenv(t *testing.T) {
	t.Setenv("NUTRITION_TEST_VAR", "  ")
	assert.Equal(t, "fallback", getenv("NUTRITION_TEST_VAR", "fallback"))

	t.Setenv("NUTRITION_TEST_VAR", "8080")
	assert.Equal(t, "8080", getenv("NUTRITION_TEST_VAR", "fallback"))
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, splitOrigins("*"))
	assert.Equal(t,
		[]string{"https://app.example.com", "http://localhost:5173"},
		splitOrigins(" https://app.example.com , http://localhost:5173,"))
	assert.Nil(t, splitOrigins(""))
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "LOG_LEVEL", "LOG_FORMAT", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}
	t.Setenv("DB_URL", "postgres://localhost/nutrition")

	cfg := loadConfig()
	assert.Equal(t, "postgres://localhost/nutrition", cfg.DBURL)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}
