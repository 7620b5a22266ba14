package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultHasStandardIndentWidth(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultIndentWidth, cfg.IndentWidth)
	assert.Empty(t, cfg.CacheDir)
}

func TestFromInitializeOptionsOverlaysFields(t *testing.T) {
	raw := map[string]interface{}{
		"cacheDir":    "/tmp/ferrotex",
		"indentWidth": 2,
		"buildEngine": "tectonic",
	}
	cfg := FromInitializeOptions("file:///proj", raw)

	assert.Equal(t, "file:///proj", cfg.RootPath)
	assert.Equal(t, "/tmp/ferrotex", cfg.CacheDir)
	assert.Equal(t, 2, cfg.IndentWidth)
	assert.Equal(t, "tectonic", cfg.BuildEngine)
}

func TestFromInitializeOptionsNilKeepsDefaults(t *testing.T) {
	cfg := FromInitializeOptions("file:///proj", nil)
	assert.Equal(t, DefaultIndentWidth, cfg.IndentWidth)
}

func TestFromInitializeOptionsMalformedJSONKeepsDefaults(t *testing.T) {
	cfg := FromInitializeOptions("file:///proj", json.RawMessage(`not json`))
	assert.Equal(t, DefaultIndentWidth, cfg.IndentWidth)
}

func TestFromInitializeOptionsIgnoresZeroIndentWidth(t *testing.T) {
	cfg := FromInitializeOptions("file:///proj", map[string]interface{}{"indentWidth": 0})
	assert.Equal(t, DefaultIndentWidth, cfg.IndentWidth)
}
