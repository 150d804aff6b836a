package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grainx/grain"
)

var infoCmd = &cobra.Command{
	Use:   "info <dataset|dir>",
	Short: "Print a prepared dataset's info file",
	Long: `Print the dataset_info.json of a prepared dataset. The argument is
either a registered dataset name, resolved under the data directory,
or a path to a prepared dataset directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveInfoDir(args[0])
		if err != nil {
			return err
		}
		info, err := grain.ReadDatasetInfo(dir)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
		return nil
	},
}

// resolveInfoDir treats arg as a dataset directory when it holds an
// info file, and as a registered dataset name otherwise.
func resolveInfoDir(arg string) (string, error) {
	if _, err := os.Stat(filepath.Join(arg, "dataset_info.json")); err == nil {
		return arg, nil
	}
	b, err := grain.New(arg, cfg.builderOptions()...)
	if err != nil {
		return "", err
	}
	return b.Dir(), nil
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
