package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jale-assistant/internal/assistant"
	"github.com/spigell/jale-assistant/internal/knowledge"
	"github.com/spigell/jale-assistant/internal/locale"
	"github.com/spigell/jale-assistant/internal/matching"
	"github.com/spigell/jale-assistant/internal/store"
)

const PromptNoThread = "no thread (general questions only)"

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the assistant inside a match thread",
	Run: func(cmd *cobra.Command, _ []string) {
		chat(cmd)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringP("match", "m", "", "match id of the thread; asks when unset")
	chatCmd.Flags().StringP("language", "l", "", "conversation language (en, es); defaults to the worker's language")
}

// thread is the context of one chat session.
type thread struct {
	matchID  string
	workerID string
	job      *matching.JobPosting
	language locale.Language
}

func chat(cmd *cobra.Command) {
	ctx := context.Background()
	env := setup(ctx)
	defer env.close()
	logger := env.logger

	a, cleanup, err := env.newAssistant(ctx)
	if err != nil {
		logger.Fatal("building the assistant", zap.Error(err))
	}
	defer cleanup()

	matchID, _ := cmd.Flags().GetString("match")
	if matchID == "" {
		matchID, err = pickThread(ctx, env.store)
		if err != nil {
			logger.Fatal("choosing a thread", zap.Error(err))
		}
	}

	t, err := loadThread(ctx, env.store, matchID, env.config.Language)
	if err != nil {
		logger.Fatal("loading the thread", zap.Error(err), zap.String("match_id", matchID))
	}
	if lang, _ := cmd.Flags().GetString("language"); lang != "" {
		t.language = locale.Parse(lang)
	}

	logger.Info("chat started",
		zap.String("match_id", t.matchID),
		zap.String("language", string(t.language)),
		zap.String("hint", "type 'exit' to leave"),
	)

	var audience knowledge.Audience
	for {
		input := promptui.Prompt{Label: "you"}
		message, err := input.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return
		}
		if err != nil {
			logger.Fatal("reading a message", zap.Error(err))
		}
		if trimmed := strings.ToLower(strings.TrimSpace(message)); trimmed == "exit" || trimmed == "quit" {
			return
		}

		t.record(ctx, env.store, logger, t.workerID, message)

		reply, err := a.Reply(ctx, assistant.Request{
			MatchID:  t.matchID,
			Message:  message,
			Language: t.language,
			Job:      t.job,
			Audience: audience,
		})
		if err != nil {
			logger.Error("answering", zap.Error(err))
			continue
		}
		audience = reply.Audience

		t.record(ctx, env.store, logger, store.AssistantSender, reply.Text)
		fmt.Printf("\n%s\n\n", reply.Text)

		if reply.Booking != nil {
			logger.Info("interview booked",
				zap.String("interview_id", reply.Booking.InterviewID),
				zap.String("room", reply.Booking.RoomToken),
				zap.Time("at", reply.Booking.At),
			)
		}
	}
}

func pickThread(ctx context.Context, s store.Store) (string, error) {
	matches, err := store.Find[store.Match](ctx, s, store.Matches, nil)
	if err != nil {
		return "", err
	}

	items := make([]string, 0, len(matches)+1)
	for _, m := range matches {
		title := "?"
		if job, err := store.Load[store.Job](ctx, s, store.Jobs, m.JobID); err == nil {
			title = job.Title
		}
		worker := "?"
		if user, err := store.Load[store.User](ctx, s, store.Users, m.WorkerID); err == nil {
			worker = user.Name
		}
		items = append(items, fmt.Sprintf("%s %s / %s / %s", m.ID, title, worker, m.Status))
	}
	items = append(items, PromptNoThread)

	threadPrompt := promptui.Select{
		Label: "Choose a thread and press ENTER",
		Items: items,
	}
	_, selected, err := threadPrompt.Run()
	if err != nil {
		return "", err
	}
	if selected == PromptNoThread {
		return "", nil
	}
	return strings.Split(selected, " ")[0], nil
}

// loadThread resolves the job and language of a match. An empty matchID gives a
// thread without job context, where only general questions can be answered.
func loadThread(ctx context.Context, s store.Store, matchID, fallbackLang string) (*thread, error) {
	t := &thread{matchID: matchID, language: locale.Parse(fallbackLang)}
	if matchID == "" {
		return t, nil
	}

	match, err := store.Load[store.Match](ctx, s, store.Matches, matchID)
	if err != nil {
		return nil, err
	}
	job, err := store.Load[store.Job](ctx, s, store.Jobs, match.JobID)
	if err != nil {
		return nil, err
	}
	posting := job.Posting()
	t.job = &posting
	t.workerID = match.WorkerID

	if worker, err := store.Load[store.User](ctx, s, store.Users, match.WorkerID); err == nil && worker.Language != "" {
		t.language = locale.Parse(worker.Language)
	}
	return t, nil
}

// record keeps the conversation in the messages collection. Threadless chats are not
// recorded.
func (t *thread) record(ctx context.Context, s store.Store, logger *zap.Logger, sender, text string) {
	if t.matchID == "" || strings.TrimSpace(text) == "" {
		return
	}

	msg := &store.Message{
		MatchID:     t.matchID,
		SenderID:    sender,
		Message:     text,
		MessageType: store.MessageTypeText,
		Timestamp:   time.Now(),
	}
	if _, err := s.Create(ctx, store.Messages, msg.Record()); err != nil {
		logger.Warn("recording a message", zap.Error(err))
	}
}
