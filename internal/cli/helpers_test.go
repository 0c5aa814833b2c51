package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// runSub runs a standalone subcommand.
func runSub(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const itemsScenario = `name: items
description: "Four fruit rows"
schema:
  b: decimal
  c: date
records:
  - { id: 1, a: apple, b: "1.12", c: "20/01/2011" }
  - { id: 2, a: Banana, b: "30.33", c: "21/02/2012" }
  - { id: 3, a: cherry, b: "2.5", c: "22/03/2013" }
  - { id: 4, a: date, b: "10", c: "23/04/2014" }
columns: [a, b]
filters:
  - { column: b, value: ">=2.5" }
expect:
  records: 3
`

const itemsBody = `{"page": 1, "total": 1, "records": 3, "rows": [ {"id": "2", "cell": ["Banana","30.33"]},{"id": "3", "cell": ["cherry","2.5"]},{"id": "4", "cell": ["date","10"]}]}`

const itemsGrid = `package grids

grid: items: {
	table:   "items"
	columns: ["a", "a.upcase", "b", "c"]
	rows:    2
	sort:    "b"
	order:   "desc"
	types: b: "decimal"
}
`
