package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grainx/grain/internal/scaffold"
	"github.com/grainx/grain/internal/strcase"
)

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Scaffold a dataset generator source file",
	Long: `Write a Go source file declaring a dataset generator that registers
itself under the given name. Features are declared as name:type pairs;
types are the scalar dtypes, text, bytes and class(a,b,...).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := cmd.Flags().GetString("dir")
		if err != nil {
			return err
		}
		pkg, err := cmd.Flags().GetString("package")
		if err != nil {
			return err
		}
		specs, err := cmd.Flags().GetStringArray("feature")
		if err != nil {
			return err
		}
		supervised, err := cmd.Flags().GetString("supervised")
		if err != nil {
			return err
		}

		fields := make([]scaffold.FieldSpec, len(specs))
		for i, s := range specs {
			if fields[i], err = scaffold.ParseField(s); err != nil {
				return err
			}
		}

		opts := scaffold.Options{
			Package: pkg,
			Name:    strcase.ToSnakeCase(args[0]),
			Fields:  fields,
		}
		switch supervised {
		case "none":
		case "":
			opts.Supervised = [2]string{fields[0].Name, fields[0].Name}
		default:
			input, target, ok := strings.Cut(supervised, ",")
			if !ok {
				return fmt.Errorf("--supervised wants input,target or none, got %q", supervised)
			}
			opts.Supervised = [2]string{input, target}
		}

		path, err := scaffold.WriteFile(dir, opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().StringP("dir", "d", ".", "directory for the generated file")
	newCmd.Flags().String("package", "datasets", "package clause of the generated file")
	newCmd.Flags().StringArray("feature", []string{"x:int64"}, "feature as name:type, repeatable")
	newCmd.Flags().String("supervised", "", "supervised keys as input,target, or none")
}
