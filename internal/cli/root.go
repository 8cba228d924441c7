// Package cli implements the tdgen command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:          "tdgen",
	Short:        "Thing Description generation workbench",
	Long:         "Runs the workbench API and offers offline helpers for documents and saved selections.",
	SilenceUsage: true,
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
