package gemini

import (
	"context"
	_ "embed"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/jale-assistant/internal/ai"
	"github.com/spigell/jale-assistant/internal/logger"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

// Responder answers general questions with Gemini.
type Responder struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewResponder(generator contentGenerator, maxLogLength int, log *zap.Logger) *Responder {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Responder{generator: generator, logger: log, maxLogLen: maxLogLength}
}

func (r *Responder) Respond(ctx context.Context, q ai.Question) (string, error) {
	message := strings.TrimSpace(q.Message)
	if message == "" {
		return "", errors.New("question is required")
	}

	system := buildPrompt(q.Language, q.Audience)
	log := logger.WithFields(r.logger, logger.ThreadFields("", q.Language, q.Audience, "")...)

	log.Debug("gemini request",
		zap.Int("question_length", utf8.RuneCountInString(message)),
		zap.String("question_preview", logger.TruncateForLog(message, r.maxLogLen)),
	)

	answer, err := r.generator.GenerateContent(ctx, system, message)
	if err != nil {
		return "", err
	}

	log.Debug("gemini response",
		zap.Int("response_length", utf8.RuneCountInString(answer)),
		zap.String("response_preview", logger.TruncateForLog(answer, r.maxLogLen)),
	)

	return answer, nil
}

func buildPrompt(language, audience string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Answer the question of a {{AUDIENCE}} in language {{LANGUAGE}}."
	}
	if language == "" {
		language = "en"
	}
	if audience == "" {
		audience = "worker"
	}

	prompt := strings.ReplaceAll(template, "{{AUDIENCE}}", audience)
	return strings.ReplaceAll(prompt, "{{LANGUAGE}}", language)
}
