package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sourcesShowSchemas bool

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List registered data sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		descs, err := env.Sources.ListSources(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, d := range descs {
			fmt.Fprintf(out, "%s\t%s\t%s\n", d.ID, d.Driver, d.DisplayName)
			if d.Description != "" {
				fmt.Fprintf(out, "\t%s\n", d.Description)
			}
			if sourcesShowSchemas && d.SchemaText != "" {
				fmt.Fprintln(out, d.SchemaText)
			}
		}
		return nil
	},
}

func init() {
	sourcesCmd.Flags().BoolVar(&sourcesShowSchemas, "schemas", false, "print schema text for each source")
	rootCmd.AddCommand(sourcesCmd)
}
