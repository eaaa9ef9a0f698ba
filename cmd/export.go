package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportCmd = &cobra.Command{
	Use:   "export <result-id>",
	Short: "Download the PDF report of a result from the server copy",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		d := setup(ctx)

		output, _ := cmd.Flags().GetString("output")
		path, err := exportDocument(ctx, d, args[0], output)
		if err != nil {
			d.fatal("export failed", zap.String("result_id", args[0]), zap.Error(err))
		}

		d.logger.Info("document saved", zap.String("file", path))
		d.close()
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("output", "o", "", "output file (default is doesmyresumematch-<result-id>.pdf)")
}

// exportDocument writes nothing unless the whole export succeeded.
func exportDocument(ctx context.Context, d *deps, resultID, output string) (string, error) {
	doc, err := d.exporter().Export(ctx, resultID)
	if err != nil {
		return "", err
	}

	path := strings.TrimSpace(output)
	if path == "" {
		path = doc.Filename
	}

	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	return path, nil
}
