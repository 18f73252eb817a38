package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jale-assistant/internal/discovery"
	"github.com/spigell/jale-assistant/internal/locale"
	"github.com/spigell/jale-assistant/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill an empty store with demo employers, workers, jobs and matches",
	Run: func(cmd *cobra.Command, _ []string) {
		seed(cmd)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().Bool("force", false, "seed even if the store already has users")
	seedCmd.Flags().Int("matches", 2, "matches to open per worker from the best candidates")
}

var demoEmployers = []store.User{
	{Email: "ops@northside-plumbing.example", Name: "Maria Lopez", UserType: store.UserTypeEmployer, Company: "Northside Plumbing", Language: "en", Location: "Austin"},
	{Email: "jobs@tallerdelsur.example", Name: "Jorge Ramirez", UserType: store.UserTypeEmployer, Company: "Taller del Sur", Language: "es", Location: "San Antonio"},
}

var demoWorkers = []store.User{
	{Email: "ana@example.com", Name: "Ana", UserType: store.UserTypeWorker, Language: "es", Location: "Austin", Pay: "$25/hr", Availability: "Full-time", SkillsOffered: []string{"plumbing", "pipe fitting"}},
	{Email: "sam@example.com", Name: "Sam", UserType: store.UserTypeWorker, Language: "en", Location: "San Antonio", Pay: "$22/hr", Availability: "Part-time", SkillsOffered: []string{"welding", "painting"}},
}

// demoJobs refer to demoEmployers by index.
var demoJobs = []struct {
	employer int
	job      store.Job
}{
	{0, store.Job{Title: "Plumber", Description: "Residential repairs and new installs.", Location: "Austin", Pay: "$28/hr", Availability: "Full-time", SkillsNeeded: []string{"plumbing"}}},
	{0, store.Job{Title: "Pipe Fitter", Description: "Commercial sites, own tools preferred.", Location: "Austin", Pay: "$24/hr", Availability: "Full-time", SkillsNeeded: []string{"pipe fitting", "welding"}}},
	{1, store.Job{Title: "Soldador", Description: "Estructuras metalicas en taller.", Location: "San Antonio", Pay: "$23/hr", Availability: "Part-time", SkillsNeeded: []string{"welding"}}},
	{1, store.Job{Title: "Pintor", Description: "Pintura interior y exterior.", Location: "San Antonio", Pay: "$20/hr", Availability: "Part-time", SkillsNeeded: []string{"painting"}}},
}

func seed(cmd *cobra.Command) {
	ctx := context.Background()
	env := setup(ctx)
	defer env.close()
	logger := env.logger

	force, _ := cmd.Flags().GetBool("force")
	if !force {
		existing, err := env.store.Query(ctx, store.Users, nil)
		if err != nil {
			logger.Fatal("checking the store", zap.Error(err))
		}
		if len(existing) > 0 {
			logger.Info("exiting", zap.String("reason", "store already has users"), zap.String("hint", "use --force to seed anyway"))
			return
		}
	}

	now := time.Now()
	employerIDs := make([]string, 0, len(demoEmployers))
	for _, u := range demoEmployers {
		id, err := env.store.Create(ctx, store.Users, u.Record())
		if err != nil {
			logger.Fatal("creating employer", zap.Error(err))
		}
		employerIDs = append(employerIDs, id)
	}

	for _, dj := range demoJobs {
		job := dj.job
		job.EmployerID = employerIDs[dj.employer]
		job.Status = store.JobOpen
		job.CreatedAt = now
		if _, err := env.store.Create(ctx, store.Jobs, job.Record()); err != nil {
			logger.Fatal("creating job", zap.Error(err), zap.String("title", job.Title))
		}
	}

	perWorker, _ := cmd.Flags().GetInt("matches")
	opened := 0
	for _, u := range demoWorkers {
		id, err := env.store.Create(ctx, store.Users, u.Record())
		if err != nil {
			logger.Fatal("creating worker", zap.Error(err))
		}

		n, err := openBestMatches(ctx, env, id, perWorker, now)
		if err != nil {
			logger.Fatal("opening matches", zap.Error(err), zap.String("worker_id", id))
		}
		opened += n
	}

	logger.Info("store seeded",
		zap.Int("employers", len(demoEmployers)),
		zap.Int("workers", len(demoWorkers)),
		zap.Int("jobs", len(demoJobs)),
		zap.Int("matches", opened),
	)
}

func openBestMatches(ctx context.Context, env *runtimeEnv, workerID string, limit int, now time.Time) (int, error) {
	worker, err := store.Load[store.User](ctx, env.store, store.Users, workerID)
	if err != nil {
		return 0, err
	}

	candidates, err := discovery.Discover(ctx, env.config.Discovery, env.store, workerID, locale.Parse(worker.Language), discovery.DefaultSteps(), env.logger)
	if err != nil {
		return 0, fmt.Errorf("discovering jobs for %s: %w", worker.Name, err)
	}

	opened := 0
	for _, c := range candidates.Items {
		if opened >= limit {
			break
		}
		if _, err := discovery.Accept(ctx, env.store, worker, c, now); err != nil {
			return opened, err
		}
		opened++
	}
	return opened, nil
}
