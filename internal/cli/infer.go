package cli

import (
	"fmt"
	"os"

	"td-generator-be/pkg/thingtype"

	"github.com/spf13/cobra"
)

type inferResult struct {
	File  string `json:"file,omitempty"`
	ID    string `json:"id,omitempty"`
	Type  string `json:"type,omitempty"`
	Error string `json:"error,omitempty"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "infer [file.json...]",
		Short: "Derive scheme names from Thing Description documents",
		Long:  "Reads each document's id and derives a scheme name from its last ':' segment without trailing digits.",
		RunE:  runInfer,
	}

	cmd.Flags().StringSlice("id", nil, "Infer from an id string instead of a file (repeatable)")

	RootCmd.AddCommand(cmd)
}

func runInfer(cmd *cobra.Command, args []string) error {
	ids, _ := cmd.Flags().GetStringSlice("id")
	if len(args) == 0 && len(ids) == 0 {
		return fmt.Errorf("give at least one file or --id")
	}

	results := make([]inferResult, 0, len(args)+len(ids))
	for _, id := range ids {
		results = append(results, inferResult{ID: id, Type: thingtype.InferFromID(id)})
	}
	for _, path := range args {
		results = append(results, inferFile(path))
	}

	return writeJSON(cmd.OutOrStdout(), results)
}

func inferFile(path string) inferResult {
	res := inferResult{File: path}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	doc, err := thingtype.ParseDocument(string(data))
	if err != nil {
		res.Error = err.Error()
		return res
	}
	name, ok := thingtype.InferType(doc)
	if !ok {
		res.Error = "document has no string id"
		return res
	}
	res.Type = name
	return res
}
