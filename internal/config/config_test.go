package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "course.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeConfig(t, `
data_dir: /srv/lab
cohort: "2024/25"
max_hours: 48
`))
	require.NoError(t, err)
	assert.Equal(t, "/srv/lab", c.DataDir)
	assert.Equal(t, "2024/25", c.Cohort)
	assert.Equal(t, int64(48), c.MaxHours)
}

func TestLoad_MissingFieldsKeepDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, `cohort: "2024/25"`))
	require.NoError(t, err)
	assert.Equal(t, "data", c.DataDir)
	assert.Equal(t, int64(56), c.MaxHours)
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	_, err := Load(writeConfig(t, `data_dirr: oops`))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_NonPositiveMaxHours(t *testing.T) {
	c, err := Load(writeConfig(t, `max_hours: -3`))
	require.NoError(t, err)
	assert.Equal(t, int64(56), c.MaxHours)
}

func TestStorePath(t *testing.T) {
	c := Course{DataDir: "data"}
	assert.Equal(t, filepath.Join("data", "students.db"), c.StorePath("students"))
}
