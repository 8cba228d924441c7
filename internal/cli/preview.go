package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"td-generator-be/pkg/selection"

	"github.com/spf13/cobra"
)

type preview struct {
	Groups  []selection.GroupedSelection `json:"groups"`
	Request selection.Dictionary         `json:"request"`
	Skipped []string                     `json:"skipped,omitempty"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "preview <selections.json>",
		Short: "Group saved selections and print the prepare-files payload",
		Long:  "Loads a JSON array of selections, saves them in order into an empty store and prints the grouped rows and the request dictionary.",
		Args:  cobra.ExactArgs(1),
		RunE:  runPreview,
	}

	cmd.Flags().Bool("request-only", false, "Print only the request dictionary")

	RootCmd.AddCommand(cmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	requestOnly, _ := cmd.Flags().GetBool("request-only")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var selections []selection.Selection
	if err := json.Unmarshal(data, &selections); err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}

	var st selection.Store
	var skipped []string
	for i, s := range selections {
		if _, err := st.Save(s); err != nil {
			skipped = append(skipped, fmt.Sprintf("#%d: %v", i, err))
		}
	}

	if requestOnly {
		return writeJSON(cmd.OutOrStdout(), selection.BuildDictionary(st.List()))
	}
	return writeJSON(cmd.OutOrStdout(), preview{
		Groups:  st.Groups(),
		Request: selection.BuildDictionary(st.List()),
		Skipped: skipped,
	})
}
