package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grainx/grain"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the datasets compiled into this binary",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, name := range grain.List() {
			b, err := grain.New(name, cfg.builderOptions()...)
			if err != nil {
				return err
			}
			if _, err := grain.ReadDatasetInfo(b.Dir()); err == nil {
				fmt.Fprintf(out, "%s (prepared)\n", name)
			} else {
				fmt.Fprintln(out, name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
