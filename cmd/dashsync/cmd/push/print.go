package push

import (
	"fmt"
	"io"

	"github.com/agentstation/dashsync/internal/cmd/emoji"
	"github.com/agentstation/dashsync/internal/cmd/output"
	"github.com/agentstation/dashsync/pkg/sync"
)

// printResult writes the per-entity table (or the whole result as JSON or
// YAML) to stdout and a one-line summary to stderr.
func printResult(stdout, stderr io.Writer, format output.Format, result *sync.Result) error {
	if err := output.WriteEntries(stdout, format, result.Entries, result); err != nil {
		return err
	}

	symbol := emoji.Success
	if result.HasErrors() {
		symbol = emoji.Warning
	}
	_, err := fmt.Fprintf(stderr, "%s %s\n", symbol, result.Summary())
	return err
}
