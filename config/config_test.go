package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, BackendGoogle, c.Backend)
	assert.Equal(t, "MASTER", c.Sheets.Master)
	assert.Equal(t, "Production", c.Sheets.Production)
	assert.Equal(t, "Error Log", c.Sheets.ErrorLog)
	assert.Equal(t, "Order Template for PDF", c.Template.Name)
	assert.Equal(t, 13, c.Template.MaxItems)
	assert.Equal(t, 5, c.Leaderboard.Top)
	assert.Equal(t, 70, c.Detector.Threshold)
	assert.True(t, c.Export.Upload)
	assert.Equal(t, 8080, c.Server.Port)
	assert.NoError(t, c.Validate())
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	// GIVEN: A config file and an environment override
	path := filepath.Join(t.TempDir(), "orders.yaml")
	yaml := `
backend: sqlite
sqlite:
  path: /tmp/orders.db
detector:
  threshold: 80
server:
  refresh_interval: 30s
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("ORDERS_LEADERBOARD_TOP", "3")

	// WHEN: Loading
	c, err := Load(path)

	// THEN: File values and the override win over defaults
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, c.Backend)
	assert.Equal(t, "/tmp/orders.db", c.SQLite.Path)
	assert.Equal(t, 80, c.Detector.Threshold)
	assert.Equal(t, 3, c.Leaderboard.Top)
	assert.Equal(t, 30*time.Second, c.Server.RefreshInterval)
	assert.Equal(t, "MASTER", c.Sheets.Master)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Backend = "postgres" }},
		{"zero max items", func(c *Config) { c.Template.MaxItems = 0 }},
		{"zero top", func(c *Config) { c.Leaderboard.Top = 0 }},
		{"threshold over 100", func(c *Config) { c.Detector.Threshold = 101 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}

	c := Default()
	c.Backend = "postgres"
	assert.ErrorIs(t, c.Validate(), ErrUnknownBackend)
}
