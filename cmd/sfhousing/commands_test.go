package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/sfhousing/dashboard"
	"github.com/YuminosukeSato/sfhousing/dataset/datasettest"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--env-file", "", "--log-level", "error"}, args...))
	return cmd.Execute()
}

func TestRender(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, execute(t, "render", "--data-dir", datasettest.Dir(t), "--out", out, "--state", "CA", "--html"))

	for _, name := range []string{
		dashboard.PanelSF + ".png",
		dashboard.PanelCounties + ".png",
		dashboard.PanelCorrelation + ".png",
		dashboard.PanelDensity + ".png",
		dashboard.ArtifactName,
		"dashboard.html",
	} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}
}

func TestRender_MissingData(t *testing.T) {
	err := execute(t, "render", "--data-dir", filepath.Join(t.TempDir(), "nowhere"), "--out", t.TempDir())
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, execute(t, "export", "--data-dir", datasettest.Dir(t), "--out", path))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	err := execute(t, "export", "--log-level", "loud")
	assert.Error(t, err)
}
