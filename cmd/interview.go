package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jale-assistant/internal/dialogue"
	"github.com/spigell/jale-assistant/internal/store"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "List, cancel or complete booked interviews",
}

var interviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List interviews, optionally of one match",
	Run: func(cmd *cobra.Command, _ []string) {
		listInterviews(cmd)
	},
}

var interviewCancelCmd = &cobra.Command{
	Use:   "cancel <interview-id>",
	Short: "Cancel a scheduled interview and notify the other party",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		by, _ := cmd.Flags().GetString("by")
		reason, _ := cmd.Flags().GetString("reason")
		withBooker(func(ctx context.Context, b *dialogue.StoreBooker) error {
			return b.Cancel(ctx, args[0], by, reason)
		}, "interview cancelled", args[0])
	},
}

var interviewCompleteCmd = &cobra.Command{
	Use:   "complete <interview-id>",
	Short: "Mark a scheduled interview completed",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		withBooker(func(ctx context.Context, b *dialogue.StoreBooker) error {
			return b.Complete(ctx, args[0])
		}, "interview completed", args[0])
	},
}

func init() {
	rootCmd.AddCommand(interviewCmd)
	interviewCmd.AddCommand(interviewListCmd, interviewCancelCmd, interviewCompleteCmd)

	interviewListCmd.Flags().StringP("match", "m", "", "only interviews of this match")
	interviewListCmd.Flags().StringP("status", "s", "", "only interviews with this status (scheduled, cancelled, completed)")

	interviewCancelCmd.Flags().String("by", "", "id of the worker or employer cancelling")
	interviewCancelCmd.Flags().StringP("reason", "r", "", "reason shown to the other party")
	interviewCancelCmd.MarkFlagRequired("by")
	interviewCancelCmd.MarkFlagRequired("reason")
}

func withBooker(op func(context.Context, *dialogue.StoreBooker) error, done, interviewID string) {
	ctx := context.Background()
	env := setup(ctx)
	defer env.close()

	duration := 0
	if env.config.Interview != nil {
		duration = env.config.Interview.Duration
	}
	booker := dialogue.NewStoreBooker(env.store, duration, env.logger)

	if err := op(ctx, booker); err != nil {
		env.logger.Fatal("exiting", zap.Error(err), zap.String("interview_id", interviewID))
	}
	env.logger.Info(done, zap.String("interview_id", interviewID))
}

func listInterviews(cmd *cobra.Command) {
	ctx := context.Background()
	env := setup(ctx)
	defer env.close()

	where := store.Record{}
	if matchID, _ := cmd.Flags().GetString("match"); matchID != "" {
		where["matchId"] = matchID
	}
	if status, _ := cmd.Flags().GetString("status"); status != "" {
		where["status"] = status
	}

	interviews, err := store.Find[store.Interview](ctx, env.store, store.Interviews, where)
	if err != nil {
		env.logger.Fatal("listing interviews", zap.Error(err))
	}

	for _, iv := range interviews {
		fmt.Printf("%s\tmatch %s\t%s\t%s\t%d min\tconfirmed=%t\n",
			iv.ID, iv.MatchID, iv.ScheduledAt.Format(time.RFC3339), iv.Status, iv.Duration, iv.Confirmed)
	}
	env.logger.Info("interviews listed", zap.Int("count", len(interviews)))
}
