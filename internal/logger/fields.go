package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldMatchID  = "match_id"
	FieldLanguage = "language"
	FieldAudience = "audience"
	FieldRoute    = "route"

	// FieldProvider and FieldModel describe the generative fallback.
	FieldProvider = "ai_provider"
	FieldModel    = "ai_model"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields, trimming whitespace and
// omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to logger, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// ThreadFields describes the conversation a log entry belongs to. Empty values are
// left out.
func ThreadFields(matchID, language, audience, route string) []zap.Field {
	return StringFields(
		StringField{Key: FieldMatchID, Value: matchID},
		StringField{Key: FieldLanguage, Value: language},
		StringField{Key: FieldAudience, Value: audience},
		StringField{Key: FieldRoute, Value: route},
	)
}

// AIFields returns the provider and model fields of the generative fallback.
func AIFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}
