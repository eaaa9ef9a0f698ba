package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/doesmyresumematch/internal/input"
	"github.com/spigell/doesmyresumematch/internal/telemetry"
	"github.com/spigell/doesmyresumematch/internal/workflow"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a resume against a job description",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("resume", "r", "", "path to the resume file (pdf, docx or text)")
	analyzeCmd.Flags().String("job", "", "job description text or a URL to the posting")
	analyzeCmd.Flags().String("job-file", "", "file with the job description. Takes precedence over --job")
	analyzeCmd.Flags().Bool("consent", false, "allow the service to keep the result")
	analyzeCmd.Flags().Bool("no-view", false, "print the result id only, do not open the report")

	viper.BindPFlag("consent-save", analyzeCmd.Flags().Lookup("consent"))
}

func analyze(cmd *cobra.Command) {
	ctx := context.Background()
	d := setup(ctx)

	d.telemetry.Emit(telemetry.EventPageView, nil)

	resume, _ := cmd.Flags().GetString("resume")
	job, _ := cmd.Flags().GetString("job")
	jobFile, _ := cmd.Flags().GetString("job-file")

	in, err := input.Load(resume, input.JobSource{Text: job, File: jobFile})
	if err != nil {
		d.fatal("reading analysis input", zap.Error(err),
			zap.String("hint", "pass --resume and either --job or --job-file"),
		)
	}

	orchestrator, err := workflow.New(workflow.Deps{
		API:      d.api,
		Identity: d.identity,
		Results:  d.results,
		Logger:   d.logger,
	}, workflow.WithObserver(func(from, to workflow.State) {
		d.logger.Debug("workflow transition", zap.Stringer("from", from), zap.Stringer("to", to))
	}))
	if err != nil {
		d.fatal("creating workflow", zap.Error(err))
	}

	resultID, err := orchestrator.Run(ctx, in, d.config.ConsentSave)
	if err != nil {
		var stepErr *workflow.StepError
		if errors.As(err, &stepErr) {
			d.fatal("analysis failed, please try again", zap.String("failed_step", stepErr.Step), zap.Error(stepErr.Err))
		}
		d.fatal("analysis failed, please try again", zap.Error(err))
	}

	fmt.Println(resultID)

	if noView, _ := cmd.Flags().GetBool("no-view"); noView {
		d.close()
		return
	}

	showReport(ctx, d, resultID, true)
	d.close()
}
