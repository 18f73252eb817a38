package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jale-assistant/internal/reminder"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Send reminders for interviews that start soon",
	Run: func(cmd *cobra.Command, _ []string) {
		remind(cmd)
	},
}

func init() {
	rootCmd.AddCommand(remindCmd)

	remindCmd.Flags().Bool("once", false, "send the due reminders and exit instead of running on schedule")
}

func remind(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := setup(ctx)
	defer env.close()
	logger := env.logger

	cfg := reminder.Config{}
	if env.config.Reminder != nil {
		cfg = *env.config.Reminder
	}
	svc := reminder.New(env.store, cfg, logger)

	if once, _ := cmd.Flags().GetBool("once"); once {
		sent, err := svc.RunOnce(ctx)
		if err != nil {
			logger.Error("some reminders failed", zap.Error(err))
		}
		logger.Info("reminders sent", zap.Int("interviews", sent))
		return
	}

	if err := svc.Start(ctx); err != nil {
		logger.Fatal("starting the reminder scheduler", zap.Error(err))
	}
	<-ctx.Done()
	svc.Stop()
}
