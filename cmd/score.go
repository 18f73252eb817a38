package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jale-assistant/internal/locale"
	"github.com/spigell/jale-assistant/internal/outreach"
	"github.com/spigell/jale-assistant/internal/store"
)

var scoreCmd = &cobra.Command{
	Use:   "score <worker-id> <job-id>",
	Short: "Score a worker against a job and show the outreach message",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		score(cmd, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("language", "l", "", "language of the outreach message; defaults to the worker's language")
}

type scoreOutput struct {
	WorkerID string  `json:"worker_id"`
	JobID    string  `json:"job_id"`
	Score    int     `json:"score"`
	Skills   float64 `json:"skills"`
	Location float64 `json:"location"`
	Pay      float64 `json:"pay"`
	Schedule float64 `json:"availability"`
	Weight   float64 `json:"weight"`
	Outreach string  `json:"outreach"`
	Language string  `json:"language"`
}

func score(cmd *cobra.Command, workerID, jobID string) {
	ctx := context.Background()
	env := setup(ctx)
	defer env.close()
	logger := env.logger

	worker, err := store.Load[store.User](ctx, env.store, store.Users, workerID)
	if err != nil {
		logger.Fatal("loading worker", zap.Error(err), zap.String("worker_id", workerID))
	}
	job, err := store.Load[store.Job](ctx, env.store, store.Jobs, jobID)
	if err != nil {
		logger.Fatal("loading job", zap.Error(err), zap.String("job_id", jobID))
	}

	lang := locale.Parse(env.config.Language)
	if worker.Language != "" {
		lang = locale.Parse(worker.Language)
	}
	if flag, _ := cmd.Flags().GetString("language"); flag != "" {
		lang = locale.Parse(flag)
	}

	msg, err := outreach.Compose(worker.Profile(), job.Posting(), lang)
	if err != nil {
		logger.Fatal("scoring", zap.Error(err))
	}

	out, err := json.MarshalIndent(scoreOutput{
		WorkerID: worker.ID,
		JobID:    job.ID,
		Score:    msg.Score,
		Skills:   msg.Breakdown.Skills,
		Location: msg.Breakdown.Location,
		Pay:      msg.Breakdown.Pay,
		Schedule: msg.Breakdown.Availability,
		Weight:   msg.Breakdown.Weight,
		Outreach: msg.Text,
		Language: string(lang),
	}, "", "  ")
	if err != nil {
		logger.Fatal("encoding the result", zap.Error(err))
	}
	fmt.Println(string(out))
}
