package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var forgetCmd = &cobra.Command{
	Use:   "forget [result-id]",
	Short: "Delete a local result and, with --remote, everything the service holds for this client",
	Args: func(cmd *cobra.Command, args []string) error {
		remote, _ := cmd.Flags().GetBool("remote")
		if len(args) > 1 {
			return errors.New("at most one result id is accepted")
		}
		if len(args) == 0 && !remote {
			return errors.New("a result id or --remote is required")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		d := setup(ctx)

		if len(args) == 1 {
			if err := d.results.Delete(args[0]); err != nil {
				d.fatal("deleting local result", zap.String("result_id", args[0]), zap.Error(err))
			}
			d.logger.Info("local result deleted", zap.String("result_id", args[0]))
		}

		if remote, _ := cmd.Flags().GetBool("remote"); remote {
			clientID := d.identity.GetOrCreateClientID()
			if err := d.api.DeleteUserData(ctx, clientID); err != nil {
				d.fatal("deleting remote data", zap.Error(err))
			}
			d.logger.Info("remote data deleted", zap.String("client_id", clientID))
		}

		d.close()
	},
}

func init() {
	rootCmd.AddCommand(forgetCmd)

	forgetCmd.Flags().Bool("remote", false, "also ask the service to delete all data for this client id")
}
