package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var annotateWrite bool

var annotateCmd = &cobra.Command{
	Use:   "annotate <source-id>",
	Short: "Generate table descriptions for a source's schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		sourceID := args[0]
		ctx := cmd.Context()

		schema, err := env.Sources.Schema(ctx, sourceID)
		if err != nil {
			return err
		}
		if schema == "" {
			return eris.Errorf("source %q has no schema to annotate", sourceID)
		}

		annotated, err := env.Annotator.Annotate(ctx, schema)
		if err != nil {
			return err
		}
		env.Sources.SetSchema(sourceID, annotated)

		if annotateWrite {
			reg := env.Sources.Registry()
			reg.Find(sourceID).Schema = annotated
			if err := reg.Save(cfg.Sources.File); err != nil {
				return err
			}
			zap.L().Info("annotated schema saved",
				zap.String("source", sourceID),
				zap.String("file", cfg.Sources.File))
		}

		fmt.Fprintln(cmd.OutOrStdout(), annotated)
		return nil
	},
}

func init() {
	annotateCmd.Flags().BoolVar(&annotateWrite, "write", false, "persist the annotated schema to the registry file")
	rootCmd.AddCommand(annotateCmd)
}
