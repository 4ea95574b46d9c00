package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldSession is the structured log field key for the session identifier.
	FieldSession = "session_id"
	// FieldCareer is the structured log field key for the target career.
	FieldCareer = "career"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields, skipping entries
// whose key or value is blank.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		value := strings.TrimSpace(field.Value)
		if key == "" || value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to logger. A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// SessionFields returns the fields that identify a session and its target career.
func SessionFields(sessionID, career string) []zap.Field {
	return StringFields(
		StringField{Key: FieldSession, Value: sessionID},
		StringField{Key: FieldCareer, Value: career},
	)
}

// WithSessionFields attaches the session fields to logger.
func WithSessionFields(logger *zap.Logger, sessionID, career string) *zap.Logger {
	return WithFields(logger, SessionFields(sessionID, career)...)
}
