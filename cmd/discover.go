package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jale-assistant/internal/discovery"
	"github.com/spigell/jale-assistant/internal/locale"
	"github.com/spigell/jale-assistant/internal/store"
)

const (
	PromptYes              = "Yes"
	PromptNo               = "No"
	PromptBack             = "back"
	PromptReportByEmployer = "Report by employers"
	PromptManualAccept     = "Accept jobs in manual mode"
	PromptCandidatesToFile = "Dump candidates to file"
)

var errExit = errors.New("exit requested")

var discoverPrompt = promptui.Select{
	Label: "Open matches with all candidates?",
	Items: []string{PromptYes, PromptNo, PromptReportByEmployer, PromptManualAccept, PromptCandidatesToFile},
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find open jobs for a worker and open matches with outreach messages",
	Run: func(cmd *cobra.Command, _ []string) {
		discover(cmd)
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().StringP("worker", "w", "", "worker id to discover jobs for")
	discoverCmd.Flags().BoolP("include-matched", "f", false, "keep jobs the worker is already matched with")
	discoverCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation if suitable jobs are found")

	discoverCmd.MarkFlagRequired("worker")
}

func discover(cmd *cobra.Command) {
	ctx := context.Background()
	env := setup(ctx)
	defer env.close()
	logger := env.logger
	config := env.config

	workerID, _ := cmd.Flags().GetString("worker")
	worker, err := store.Load[store.User](ctx, env.store, store.Users, workerID)
	if err != nil {
		logger.Fatal("loading worker", zap.Error(err), zap.String("worker_id", workerID))
	}

	lang := locale.Parse(config.Language)
	if worker.Language != "" {
		lang = locale.Parse(worker.Language)
	}

	steps := discovery.DefaultSteps()
	if include, _ := cmd.Flags().GetBool("include-matched"); include {
		discovery.DisableByName(steps, "already_matched", "disabled by --include-matched")
	}
	for _, st := range discovery.Describe(steps) {
		logger.Debug("discovery step", zap.String("name", st.Name), zap.Bool("enabled", st.Enabled), zap.String("reason", st.Reason))
	}

	candidates, err := discovery.Discover(ctx, config.Discovery, env.store, worker.ID, lang, steps, logger)
	if err != nil {
		logger.Fatal("discovery failed", zap.Error(err))
	}
	if candidates.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs left after discovery"))
		return
	}

	action := PromptYes
	for {
		if auto, _ := cmd.Flags().GetBool("auto-approve"); !auto {
			_, action, err = discoverPrompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		logger.Info("current list of candidates", zap.Int("count", candidates.Len()))

		if err := handleDiscoverAction(ctx, action, env.store, logger, worker, candidates); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
		if candidates.Len() == 0 {
			logger.Info("exiting", zap.String("reason", "every candidate was handled"))
			return
		}
	}
}

func handleDiscoverAction(ctx context.Context, action string, s store.Store, logger *zap.Logger, worker *store.User, candidates *discovery.Candidates) error {
	switch action {
	case PromptYes:
		if err := accept(ctx, s, logger, worker, candidates.Items); err != nil {
			return err
		}
		return errExit
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptManualAccept:
		return manualAccept(ctx, s, logger, worker, candidates)
	case PromptReportByEmployer:
		pretty, _ := json.MarshalIndent(reportByEmployer(candidates), "", "  ")
		logger.Info(string(pretty), zap.Int("candidates count", candidates.Len()))
		return nil
	case PromptCandidatesToFile:
		filename, err := dumpCandidates(candidates)
		if err != nil {
			return fmt.Errorf("dump candidates to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func manualAccept(ctx context.Context, s store.Store, logger *zap.Logger, worker *store.User, candidates *discovery.Candidates) error {
	for candidates.Len() > 0 {
		items := make([]string, 0, candidates.Len()+1)
		for _, c := range candidates.Items {
			items = append(items, fmt.Sprintf("%s %s / %s / %d%%", c.Job.ID, c.Job.Title, c.Job.Location, c.Score))
		}

		jobPrompt := promptui.Select{
			Label: "Choose a job and press ENTER",
			Items: append(items, PromptBack),
		}
		_, selected, err := jobPrompt.Run()
		if err != nil {
			return err
		}
		if selected == PromptBack {
			return nil
		}

		jobID := strings.Split(selected, " ")[0]
		var picked []*discovery.Candidate
		candidates.Exclude(func(c *discovery.Candidate) bool {
			if c.Job.ID == jobID {
				picked = append(picked, c)
				return true
			}
			return false
		})
		if len(picked) == 0 {
			return fmt.Errorf("there is no such job id %s", jobID)
		}

		if err := accept(ctx, s, logger, worker, picked); err != nil {
			return err
		}
	}
	return nil
}

func accept(ctx context.Context, s store.Store, logger *zap.Logger, worker *store.User, picked []*discovery.Candidate) error {
	for _, c := range picked {
		matchID, err := discovery.Accept(ctx, s, worker, c, time.Now())
		if err != nil {
			return err
		}

		logger.Info("match opened",
			zap.String("match_id", matchID),
			zap.String("job_id", c.Job.ID),
			zap.String("job_title", c.Job.Title),
			zap.Int("score", c.Score),
		)
	}

	logger.Info("successfully opened matches", zap.Int("count", len(picked)))
	return nil
}

func reportByEmployer(candidates *discovery.Candidates) map[string]int {
	report := make(map[string]int)
	for _, c := range candidates.Items {
		report[c.Job.EmployerID]++
	}
	return report
}

type dumpedCandidate struct {
	JobID    string `json:"job_id"`
	Title    string `json:"title"`
	Employer string `json:"employer_id"`
	Score    int    `json:"score"`
	Outreach string `json:"outreach,omitempty"`
}

func dumpCandidates(candidates *discovery.Candidates) (string, error) {
	out := make([]dumpedCandidate, 0, candidates.Len())
	for _, c := range candidates.Items {
		d := dumpedCandidate{JobID: c.Job.ID, Title: c.Job.Title, Employer: c.Job.EmployerID, Score: c.Score}
		if c.Outreach != nil {
			d.Outreach = c.Outreach.Text
		}
		out = append(out, d)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp("", "jale-candidates-*.json")
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return "", err
	}
	return f.Name(), nil
}
