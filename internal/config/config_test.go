package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 30*time.Second, cfg.ServerReadTimeout)
	assert.Equal(t, "anthropic", cfg.DefaultLLM)
	assert.Equal(t, 1000, cfg.CompletionMaxTokens)
	assert.Equal(t, 60*time.Second, cfg.CompletionTimeout)
	assert.Equal(t, "https://api.green-api.com", cfg.GreenAPIBaseURL)
	assert.Equal(t, 10, cfg.CatalogLimit)
	assert.Equal(t, "uruguayo", cfg.PromptRegisters["Uruguay"])
	assert.Equal(t, "argentino", cfg.PromptRegisters["Argentina"])
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CATALOG_LIMIT", "25")
	t.Setenv("COMPLETION_TIMEOUT", "15s")
	t.Setenv("PROMPT_REGISTERS", "Chile=chileno, Paraguay=paraguayo")
	t.Setenv("TRACING_ENABLED", "true")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 25, cfg.CatalogLimit)
	assert.Equal(t, 15*time.Second, cfg.CompletionTimeout)
	assert.Equal(t, map[string]string{"Chile": "chileno", "Paraguay": "paraguayo"}, cfg.PromptRegisters)
	assert.True(t, cfg.TracingEnabled)
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("CATALOG_LIMIT", "lots")
	t.Setenv("COMPLETION_TIMEOUT", "soon")
	t.Setenv("PROMPT_REGISTERS", ",,,")

	cfg := Load()

	assert.Equal(t, 10, cfg.CatalogLimit)
	assert.Equal(t, 60*time.Second, cfg.CompletionTimeout)
	assert.Equal(t, "uruguayo", cfg.PromptRegisters["Uruguay"])
}
