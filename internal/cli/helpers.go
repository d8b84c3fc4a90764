package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/fbxtools/internal/config"
	"github.com/aretw0/fbxtools/internal/logging"
	"github.com/aretw0/fbxtools/pkg/domain"
)

// CreateLogger configures the application logger from the settings.
// It writes to w (normally Stderr, to keep Stdout for reports).
func CreateLogger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(w, level, cfg.LogJSON), nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDocumentLoad: func(ctx context.Context, e *domain.DocumentEvent) {
			if e.Err != nil {
				logger.Debug("Document Load (Error)", "path", e.Path, "err", e.Err)
				return
			}
			logger.Debug("Document Load", "path", e.Path, "format", e.Format, "records", e.Records)
		},
		OnDocumentSave: func(ctx context.Context, e *domain.DocumentEvent) {
			if e.Err != nil {
				logger.Debug("Document Save (Error)", "path", e.Path, "err", e.Err)
				return
			}
			logger.Debug("Document Save", "path", e.Path, "format", e.Format, "records", e.Records)
		},
		OnCloneFinish: func(ctx context.Context, e *domain.CloneEvent) {
			logger.Debug("Clone Finish", "op", e.OperationID, "status", e.Result.Status)
		},
	}
}
