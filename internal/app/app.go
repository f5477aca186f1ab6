package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/nomial/internal/ctxlog"
	"github.com/vk/nomial/internal/export"
	"github.com/vk/nomial/internal/modeldef"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle. Log output goes to errW so that stdout stays parseable.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger.
func NewApp(outW, errW io.Writer, config *Config) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, errW)
	logger.Debug("Logger configured successfully.")
	return &App{outW: outW, logger: logger, config: config}
}

// Run loads the model and reports every expression. When DiffVar is set,
// each expression's derivative with respect to it is reported as well.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	model, err := modeldef.Load(ctx, a.config.ModelPath)
	if err != nil {
		return fmt.Errorf("failed to load model from %s: %w", a.config.ModelPath, err)
	}
	a.logger.Info("Model loaded.",
		"variables", model.Keys().Len(),
		"expressions", len(model.Expressions()))

	for _, k := range model.Vars() {
		a.logger.Debug("Declared variable.",
			"key", k.String(), "units", k.UnitRepr(), "label", k.Label())
	}

	for _, e := range model.Expressions() {
		if err := a.report(e); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) report(e *modeldef.Expression) error {
	if a.config.JSON {
		raw, err := export.Marshal(e.Data)
		if err != nil {
			return fmt.Errorf("failed to export %q: %w", e.Name, err)
		}
		fmt.Fprintf(a.outW, "%s\t%s\n", e.Name, raw)
	} else {
		fmt.Fprintf(a.outW, "%s = %s\n", e.Name, e.Data.Map())
	}

	if a.config.DiffVar == "" {
		return nil
	}
	deriv, err := e.Data.DiffName(a.config.DiffVar)
	if err != nil {
		return fmt.Errorf("failed to differentiate %q: %w", e.Name, err)
	}
	fmt.Fprintf(a.outW, "d(%s)/d(%s) = %s\n", e.Name, a.config.DiffVar, deriv.Map())
	return nil
}
