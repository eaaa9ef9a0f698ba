package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/doesmyresumematch/internal/match"
	"github.com/spigell/doesmyresumematch/internal/report"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List locally stored results",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		d := setup(context.Background())

		n, err := printResults(os.Stdout, d.results)
		if err != nil {
			d.fatal("listing results", zap.Error(err))
		}

		if n == 0 {
			d.logger.Info("no local results")
		}

		d.close()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

type resultLister interface {
	List() ([]string, error)
	Load(resultID string) (*match.Result, error)
}

// printResults writes one line per stored result and returns how many ids were found.
func printResults(w io.Writer, store resultLister) (int, error) {
	ids, err := store.List()
	if err != nil {
		return 0, err
	}

	for _, id := range ids {
		result, err := store.Load(id)
		if err != nil {
			fmt.Fprintf(w, "%s\t(unreadable: %v)\n", id, err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", id, report.FormatScore(result.Score), result.Label)
	}

	return len(ids), nil
}
