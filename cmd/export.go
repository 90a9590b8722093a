package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/askdb/internal/agent"
	"github.com/sells-group/askdb/internal/source"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <source-id> <query>",
	Short: "Run a read-only query and write the rows to CSV or XLSX",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sourceID, query := args[0], args[1]

		if kws := agent.ForbiddenKeywords(query); len(kws) > 0 {
			return eris.Errorf("query contains forbidden keyword(s): %s", strings.Join(kws, ", "))
		}

		env, err := initEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		rs, err := env.Sources.Rows(cmd.Context(), sourceID, query)
		if err != nil {
			return err
		}

		f, err := os.Create(exportOut)
		if err != nil {
			return eris.Wrapf(err, "create %s", exportOut)
		}
		defer f.Close()

		switch filepath.Ext(exportOut) {
		case ".xlsx":
			err = source.WriteXLSX(f, rs)
		case ".csv":
			err = source.WriteCSV(f, rs)
		default:
			err = eris.Errorf("unsupported output format %q (use .csv or .xlsx)", filepath.Ext(exportOut))
		}
		if err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.String("source", sourceID),
			zap.String("file", exportOut),
			zap.Int("rows", len(rs.Rows)))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "results.csv", "output file (.csv or .xlsx)")
	rootCmd.AddCommand(exportCmd)
}
