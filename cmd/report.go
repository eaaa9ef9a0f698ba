package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/doesmyresumematch/internal/report"
	"github.com/spigell/doesmyresumematch/internal/telemetry"
)

const (
	PromptShowRewrites = "Try improved bullets"
	PromptHideRewrites = "Hide improved bullets"
	PromptExport       = "Export PDF"
	PromptQuit         = "Quit"
)

var reportCmd = &cobra.Command{
	Use:   "report <result-id>",
	Short: "Show a locally stored result",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		d := setup(ctx)

		interactive, _ := cmd.Flags().GetBool("interactive")
		showReport(ctx, d, args[0], interactive)
		d.close()
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().BoolP("interactive", "i", true, "show the action menu after the report")
}

func showReport(ctx context.Context, d *deps, resultID string, interactive bool) {
	view, err := report.Open(d.results, resultID)
	if err != nil {
		if errors.Is(err, report.ErrResultAbsent) {
			d.fatal("no local result with this id", zap.String("result_id", resultID),
				zap.String("hint", "run `list` to see stored results or `export` to fetch the server copy"),
			)
		}
		d.fatal("loading result", zap.String("result_id", resultID), zap.Error(err))
	}

	d.telemetry.Emit(telemetry.EventMatchCompleted, telemetry.MatchCompleted{Score: view.Dial.Score})

	term := report.Terminal{Color: !viper.GetBool("json")}
	if err := term.Render(os.Stdout, view); err != nil {
		d.fatal("rendering report", zap.Error(err))
	}

	if !interactive {
		return
	}

	for {
		items := make([]string, 0, 3)
		if view.HasRewrites() {
			if view.RewritesVisible() {
				items = append(items, PromptHideRewrites)
			} else {
				items = append(items, PromptShowRewrites)
			}
		}
		items = append(items, PromptExport, PromptQuit)

		prompt := promptui.Select{Label: "Next?", Items: items}
		_, action, err := prompt.Run()
		if err != nil {
			// ctrl+c or closed stdin
			return
		}

		switch action {
		case PromptShowRewrites, PromptHideRewrites:
			view.ToggleRewrites()
			if err := term.Render(os.Stdout, view); err != nil {
				d.fatal("rendering report", zap.Error(err))
			}
		case PromptExport:
			if path, err := exportDocument(ctx, d, resultID, ""); err != nil {
				d.logger.Error("export failed", zap.String("result_id", resultID), zap.Error(err))
			} else {
				d.logger.Info("document saved", zap.String("file", path))
			}
		case PromptQuit:
			return
		}
	}
}
