package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cli runs commands against the testdata catalog and a temporary database.
type cli struct {
	t      *testing.T
	db     string
	config string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("log:\n  level: error\n"), 0o644))
	return &cli{t: t, db: filepath.Join(dir, "data", "drafts.db"), config: cfg}
}

func (c *cli) run(args ...string) (stdout, stderr string, err error) {
	c.t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(&out, &errOut)
	base := []string{"--config", c.config, "--catalog", filepath.Join("testdata", "catalog.yaml"), "--db", c.db}
	root.SetArgs(append(base, args...))
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

var draftIDPattern = regexp.MustCompile(`draft saved: ([0-9a-f-]{36})`)

func TestPlaceholdersCmd(t *testing.T) {
	c := newCLI(t)
	path := filepath.Join(t.TempDir(), "lettera.txt")
	require.NoError(t, os.WriteFile(path, []byte("Hello {{name}} {{name}} - {{date}} {{ company.name }}"), 0o644))

	out, _, err := c.run("placeholders", path)
	require.NoError(t, err)
	assert.Equal(t, "name\ndate\ncompany.name\n", out)

	out, _, err = c.run("placeholders", "--json", path)
	require.NoError(t, err)
	assert.JSONEq(t, `["name","date","company.name"]`, out)

	_, _, err = c.run("placeholders", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestRenderCmd(t *testing.T) {
	t.Run("complete from values file and set", func(t *testing.T) {
		c := newCLI(t)
		out, stderr, err := c.run("render", "lettera-assunzione",
			"--values", filepath.Join("testdata", "values.yaml"),
			"--set", "start_date=01/03/2026",
			"--strict",
		)
		require.NoError(t, err)
		assert.Equal(t, "<p>Spett.le ACME S.r.l.</p>\n\n<p>Gentile Mario Rossi, decorrenza 01/03/2026.</p>\n", out)
		assert.NotContains(t, stderr, "missing")
	})

	t.Run("missing keys reported", func(t *testing.T) {
		c := newCLI(t)
		out, stderr, err := c.run("render", "lettera-assunzione", "--set", "name=Mario")
		require.NoError(t, err)
		assert.Contains(t, out, "{{ company.name }}")
		assert.Contains(t, out, "{{start_date}}")
		assert.Contains(t, stderr, "missing: company.name, start_date")
	})

	t.Run("strict fails", func(t *testing.T) {
		c := newCLI(t)
		_, _, err := c.run("render", "lettera-assunzione", "--strict")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing values for placeholders")
	})

	t.Run("html preview escapes values", func(t *testing.T) {
		c := newCLI(t)
		out, _, err := c.run("render", "lettera-assunzione", "--html",
			"--set", "name=<script>alert(1)</script>",
		)
		require.NoError(t, err)
		assert.NotContains(t, out, "<script")
		assert.Contains(t, out, `<section class="header">`)
		assert.Contains(t, out, `<mark class="missing" data-key="company.name">`)
	})

	t.Run("html and pretty are exclusive", func(t *testing.T) {
		c := newCLI(t)
		_, _, err := c.run("render", "lettera-assunzione", "--html", "--pretty")
		assert.Error(t, err)
	})

	t.Run("pretty", func(t *testing.T) {
		c := newCLI(t)
		out, _, err := c.run("render", "promemoria", "--pretty", "--set", "task=firma", "--set", "deadline=venerdì")
		require.NoError(t, err)
		assert.Contains(t, out, "firma")
	})

	t.Run("unknown template", func(t *testing.T) {
		c := newCLI(t)
		_, _, err := c.run("render", "nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "template not found")
	})

	t.Run("bad set pair", func(t *testing.T) {
		c := newCLI(t)
		_, _, err := c.run("render", "promemoria", "--set", "novalue")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected key=value")
	})

	t.Run("bad values file names the file", func(t *testing.T) {
		c := newCLI(t)
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("- name\n- company\n"), 0o644))

		_, _, err := c.run("render", "promemoria", "--values", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "values file: "+path)
		assert.Contains(t, err.Error(), "must be a mapping")
	})
}

func TestDraftsCmds(t *testing.T) {
	c := newCLI(t)

	_, stderr, err := c.run("render", "lettera-assunzione", "--save", "--set", "name=Mario")
	require.NoError(t, err)
	m := draftIDPattern.FindStringSubmatch(stderr)
	require.Len(t, m, 2, stderr)
	id := m[1]

	out, _, err := c.run("drafts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "TEMPLATE")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "lettera-assunzione")

	out, _, err = c.run("drafts", "list", "--template", "promemoria")
	require.NoError(t, err)
	assert.Contains(t, out, "no drafts")

	out, stderr, err = c.run("drafts", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Gentile Mario,")
	assert.Contains(t, stderr, "missing: company.name, start_date")

	_, _, err = c.run("drafts", "resume", id, "--set", "company.name=ACME", "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 missing values")

	out, stderr, err = c.run("drafts", "resume", id, "--set", "start_date=01/03/2026", "--strict")
	require.NoError(t, err)
	assert.Contains(t, out, "Spett.le ACME")
	assert.Contains(t, out, "decorrenza 01/03/2026")
	assert.Contains(t, stderr, "complete")

	_, _, err = c.run("drafts", "delete", id)
	require.NoError(t, err)
	_, _, err = c.run("drafts", "show", id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "draft not found")
}

func TestCompareCmd(t *testing.T) {
	c := newCLI(t)

	out, _, err := c.run("compare", "COMM-4", "METAL-5")
	require.NoError(t, err)
	assert.Contains(t, out, "VOCE")
	assert.Contains(t, out, "Retribuzione lorda")
	assert.Contains(t, out, "28.000,00")
	assert.Contains(t, out, "27.300,00")
	assert.Contains(t, out, "Totale annuo")
	assert.Contains(t, out, "cheaper by")

	_, _, err = c.run("compare", "COMM-4", "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile not found")

	_, _, err = c.run("compare", "COMM-4")
	assert.Error(t, err)
}

func TestSimulateCmd(t *testing.T) {
	c := newCLI(t)
	out, _, err := c.run("simulate", "COMM-4")
	require.NoError(t, err)
	assert.Contains(t, out, "INPS")
	assert.Contains(t, out, "8.400,00")
	assert.Contains(t, out, "TFR")
}

func TestLintCmd(t *testing.T) {
	c := newCLI(t)
	out, _, err := c.run("lint")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 lint issues")
	assert.Contains(t, out, "promemoria: owner: declared field is not used by any section")
	assert.Contains(t, out, "promemoria: deadline: placeholder has no declared field")
	assert.NotContains(t, out, "lettera-assunzione")
}

func TestMetricsSummary(t *testing.T) {
	c := newCLI(t)
	require.NoError(t, os.WriteFile(c.config, []byte("log:\n  level: error\nobservability:\n  metrics: true\n  tracing: true\n"), 0o644))

	_, stderr, err := c.run("render", "promemoria", "--set", "task=firma")
	require.NoError(t, err)
	assert.Contains(t, stderr, "ccnl.render.count 1")
	assert.True(t, strings.Contains(stderr, "ccnl.render.missing_keys count=1 sum=1"), stderr)

	_, stderr, err = c.run("render", "promemoria", "--save", "--set", "task=firma")
	require.NoError(t, err)
	assert.Contains(t, stderr, "draft saved: ")
	assert.Contains(t, stderr, "ccnl.render.count 1")
	assert.Contains(t, stderr, "ccnl.draft.saves 1")
}

func TestConfigErrors(t *testing.T) {
	c := newCLI(t)
	require.NoError(t, os.WriteFile(c.config, []byte("log:\n  format: xml\n"), 0o644))
	_, _, err := c.run("lint")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid setting")
}
