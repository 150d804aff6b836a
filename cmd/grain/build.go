package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/grainx/grain"
)

var buildCmd = &cobra.Command{
	Use:   "build <dataset>",
	Short: "Prepare a dataset's record shards",
	Long: `Run a registered dataset's generators and write its record shards and
info file under the data directory. Building an already prepared
dataset is a no-op unless --overwrite is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		overwrite, err := cmd.Flags().GetBool("overwrite")
		if err != nil {
			return err
		}

		b, err := grain.New(args[0], cfg.builderOptions()...)
		if err != nil {
			return err
		}
		if overwrite {
			if err := os.RemoveAll(b.Dir()); err != nil {
				return err
			}
		}
		if err := b.Prepare(cmd.Context()); err != nil {
			return err
		}

		info := b.Info()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "prepared %s %s in %s\n", b.Name(), info.Version, b.Dir())

		splits := make([]grain.Split, 0, len(info.Splits))
		for split := range info.Splits {
			splits = append(splits, split)
		}
		sort.Slice(splits, func(i, j int) bool { return splits[i] < splits[j] })
		for _, split := range splits {
			si := info.Splits[split]
			fmt.Fprintf(out, "  %s: %d examples in %d shards\n", split, si.NumExamples, si.NumShards)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().Bool("overwrite", false, "discard previously prepared data first")
}
