package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/foomo/docs-versionpanel/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), buf.String())
	return buf.String()
}

func site(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	return []string{"--config", filepath.Join(dir, "versionpanel.yml"), "--root", dir}
}

func TestAddAndList(t *testing.T) {
	flags := site(t)
	add := func(version, folder, pdf string) string {
		return execute(t, append(flags, "add", "--version", version, "--folder", folder, "--pdf-name", pdf, "--from-url", "")...)
	}

	assert.Contains(t, add("2.1.0", "2.1.0", "manual.pdf"), "File updated")
	assert.Contains(t, add("master", "master", ""), "File updated")
	assert.Contains(t, add("2.1.0", "other", ""), "Version already configured. Skipping update!")

	out := execute(t, append(flags, "list")...)
	master := strings.Index(out, "master")
	release := strings.Index(out, "2.1.0")
	require.NotEqual(t, -1, master)
	require.NotEqual(t, -1, release)
	assert.Less(t, master, release)
	assert.Contains(t, out, "manual.pdf")
}

func TestRender(t *testing.T) {
	flags := site(t)
	execute(t, append(flags, "add", "--version", "2.0.0", "--folder", "2.0.0", "--pdf-name", "", "--from-url", "")...)

	out := execute(t, append(flags, "render", "--current", "2.0.0", "--markdown=false")...)
	assert.Equal(t, `<dl><dt>Versions</dt><strong><dd><a href="../2.0.0/index.html">2.0.0</a></dd></strong></dl>`+"\n", out)
}

func TestInject(t *testing.T) {
	flags := site(t)
	execute(t, append(flags, "add", "--version", "master", "--folder", "master", "--pdf-name", "", "--from-url", "")...)

	page := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(page, []byte(`<html><head></head><body><div class="rst-other-versions">old</div></body></html>`), 0o644))

	out := execute(t, append(flags, "inject", "--current", "master", page)...)
	assert.Contains(t, out, "updated 1 panel(s)")

	data, err := os.ReadFile(page)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<strong><dd><a href="../master/index.html">master</a></dd></strong>`)
	assert.NotContains(t, string(data), "old")

	out = execute(t, append(flags, "inject", "--current", "master", page)...)
	assert.Contains(t, out, "up to date")
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "versionpanel.yml")
	flags := []string{"--config", cfgPath, "--root", filepath.Join(dir, "site")}

	out := execute(t, append(flags, "init", "--versions-file", "_static/versions.js", "--force=false")...)
	assert.Contains(t, out, "Config written")

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "site"), cfg.SiteRoot)
	assert.Equal(t, "_static/versions.js", cfg.VersionsFile)
	assert.Equal(t, "rst-other-versions", cfg.ContainerClass)

	rootCmd.SetArgs(append(flags, "init", "--versions-file", "", "--force=false"))
	assert.Error(t, rootCmd.Execute())

	out = execute(t, append(flags, "init", "--versions-file", "", "--force")...)
	assert.Contains(t, out, "Config written")
	cfg, err = config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "versions.js", cfg.VersionsFile)

	// the written config is picked up by other commands
	execute(t, append(flags, "add", "--version", "master", "--folder", "master", "--pdf-name", "", "--from-url", "")...)
	_, err = os.Stat(filepath.Join(dir, "site", "_static", "versions.js"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "site", "versions.js"))
	assert.NoError(t, err)
}
