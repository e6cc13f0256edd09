package llmcall

import (
	"context"
	"log/slog"

	"github.com/wowstore/storefront/internal/providers"
)

// Recorder writes one structured log record per LLM call.
// A nil Recorder is valid and records nothing.
type Recorder struct {
	logger *slog.Logger
}

// NewRecorder creates a new LLM call recorder.
func NewRecorder(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{logger: logger}
}

// Record logs a call built from result. Failed calls log at warn level.
func (r *Recorder) Record(result *providers.ChatResult, opts RecordOptions) {
	if r == nil {
		return
	}
	r.RecordCall(FromChatResult(result, opts))
}

// RecordCall logs an already-constructed Call.
func (r *Recorder) RecordCall(call *Call) {
	if r == nil || call == nil {
		return
	}
	level := slog.LevelInfo
	if !call.Success {
		level = slog.LevelWarn
	}
	r.logger.Log(context.Background(), level, "llm call", "call", call)
}
