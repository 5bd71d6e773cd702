package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "icnspack.yaml")

	configContent := `
product_name: "Notes"
out_dir: "build/bundle"
icons:
  - "icons/32x32.png"
  - "icons/128x128@2x.png"
  - "icons/icon.icon"
workers: 4
defer_resized: true
catalog:
  actool: "/usr/bin/actool"
  exclusive: true
`
	require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0644))

	cfg, err := Load(configFile)
	require.NoError(t, err)

	want := &Config{
		ProductName:  "Notes",
		OutDir:       "build/bundle",
		Icons:        []string{"icons/32x32.png", "icons/128x128@2x.png", "icons/icon.icon"},
		Workers:      4,
		DeferResized: true,
		Catalog: CatalogConfig{
			Actool:     "/usr/bin/actool",
			MinVersion: "26.0",
			Exclusive:  true,
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("ICNSPACK_PRODUCT_NAME", "Editor")
	t.Setenv("ICNSPACK_ICONS", "a.png,b@2x.png")
	t.Setenv("ICNSPACK_CATALOG_MIN_VERSION", "27.0")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Editor", cfg.ProductName)
	assert.Equal(t, []string{"a.png", "b@2x.png"}, cfg.Icons)
	assert.Equal(t, "27.0", cfg.Catalog.MinVersion)
	assert.Equal(t, ".", cfg.OutDir)
}

func TestLoadConfig_Invalid(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "icnspack.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("product_name: \"\"\n"), 0644))

	_, err := Load(configFile)
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
