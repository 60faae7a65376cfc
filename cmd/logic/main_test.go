package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GOKANQUERY_DEPTH_LIMIT", "")
	t.Setenv("GOKANQUERY_JOURNAL", "")
	t.Setenv("GOKANQUERY_LOG_LEVEL", "error")

	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	runCmd.Flags().VisitAll(reset)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRun(t *testing.T) {
	facts := writeFile(t, "facts.lq", `
; parents
(fact (parent abraham barack))
(fact (parent barack clinton))
(fact (ancestor ?a ?b) (parent ?a ?b))
(fact (ancestor ?a ?c) (parent ?a ?b) (ancestor ?b ?c))
`)
	queries := writeFile(t, "queries.lq", `
(query (ancestor ?who clinton))
(query (parent clinton ?x))
`)

	out, err := execute(t, "run", facts, queries)
	require.NoError(t, err)
	assert.Equal(t, "Success!\nwho: barack\nwho: abraham\nFailed.\n", out)

	out, err = execute(t, "run", "--limit", "1", facts, queries)
	require.NoError(t, err)
	assert.Equal(t, "Success!\nwho: barack\nFailed.\n", out)
}

func TestRun_Jobs(t *testing.T) {
	src := writeFile(t, "colors.lq", `
(query (color ?c))
(fact (color red))
(query (color blue))
(fact (color blue))
(query (color ?c) (not (color green)))
`)

	out, err := execute(t, "run", src)
	require.NoError(t, err)
	assert.Equal(t, "Failed.\nFailed.\nSuccess!\nc: red\nc: blue\n", out)

	// Batch mode answers every query against the complete database.
	out, err = execute(t, "run", "--jobs", "4", src)
	require.NoError(t, err)
	assert.Equal(t, "Success!\nc: red\nc: blue\nSuccess!\nSuccess!\nc: red\nc: blue\n", out)
}

func TestRun_Errors(t *testing.T) {
	_, err := execute(t, "run", filepath.Join(t.TempDir(), "missing.lq"))
	assert.ErrorContains(t, err, "read source")

	bad := writeFile(t, "bad.lq", "(fact (a)")
	_, err = execute(t, "run", bad)
	assert.ErrorContains(t, err, "bad.lq")

	_, err = execute(t, "run")
	assert.Error(t, err)
}

func TestRun_Journal(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "journal")
	facts := writeFile(t, "facts.lq", "(fact (color sky blue))")
	query := writeFile(t, "query.lq", "(query (color sky ?c))")

	_, err := execute(t, "run", "--journal", dir, facts)
	require.NoError(t, err)

	out, err := execute(t, "run", "--journal", dir, query)
	require.NoError(t, err)
	assert.Equal(t, "Success!\nc: blue\n", out)
}

func TestRun_DepthFlag(t *testing.T) {
	nat := writeFile(t, "nat.lq", `
(fact (nat z))
(fact (nat (s ?n)) (nat ?n))
(query (nat (s (s (s z)))))
`)
	out, err := execute(t, "run", "--depth", "1", nat)
	require.NoError(t, err)
	assert.Equal(t, "Failed.\n", out)

	out, err = execute(t, "run", "--depth", "-1", nat)
	require.NoError(t, err)
	assert.Equal(t, "Success!\n", out)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "logic "+Version+"\n", out)
}
