package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldClientID is the structured log field key for the client identity.
	FieldClientID = "client_id"
	// FieldResultID is the structured log field key for a result id.
	FieldResultID = "result_id"
	// FieldStep is the structured log field key for the workflow step name.
	FieldStep = "workflow_step"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
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

// WithFields safely attaches the provided fields to the logger.
// A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// WorkflowFields returns the fields that tie a log line to a submission.
// Empty values are skipped.
func WorkflowFields(clientID, resultID, step string) []zap.Field {
	return StringFields(
		StringField{Key: FieldClientID, Value: clientID},
		StringField{Key: FieldResultID, Value: resultID},
		StringField{Key: FieldStep, Value: step},
	)
}
