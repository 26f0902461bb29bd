package refresh

import (
	"context"

	command "github.com/goliatone/go-command"

	"github.com/benjamin-wilkins/md-generator/compiler"
	"github.com/benjamin-wilkins/md-generator/internal/commands"
	"github.com/benjamin-wilkins/md-generator/internal/logging"
	"github.com/benjamin-wilkins/md-generator/pkg/interfaces"
)

const refreshOperation = "compiler.refresh"

var _ command.Commander[Command] = (*Handler)(nil)

// Handler runs a batch compile via the shared command handler foundation.
// Per-resource failures are reported in the logs and do not fail the
// command; only listing the source namespace can.
type Handler struct {
	inner *commands.Handler[Command]
}

// NewHandler creates a handler bound to the supplied compiler service.
func NewHandler(service *compiler.Service, logger interfaces.Logger, opts ...commands.HandlerOption[Command]) *Handler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg Command) error {
		var (
			result compiler.Result
			err    error
		)
		if msg.DryRun {
			result, err = service.Plan(ctx, msg.Directory)
		} else {
			result, err = service.CompileUnder(ctx, msg.Directory)
		}
		if err != nil {
			return err
		}

		logger := logging.WithFields(baseLogger, map[string]any{
			"compiled_count": len(result.Compiled),
			"skipped_count":  len(result.Skipped),
			"failed_count":   len(result.Failures),
		})
		for _, failure := range result.Failures {
			logger.Warn("compiler.refresh.resource_failed",
				"source", failure.SourceRef, "error", failure.Err)
		}
		logger.Info("compiler.refresh.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[Command]{
		commands.WithLogger[Command](baseLogger),
		commands.WithOperation[Command](refreshOperation),
		commands.WithMessageFields(func(msg Command) map[string]any {
			fields := map[string]any{}
			if msg.Directory != "" {
				fields["directory"] = msg.Directory
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &Handler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[Command].
func (h *Handler) Execute(ctx context.Context, msg Command) error {
	return h.inner.Execute(ctx, msg)
}
