package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pioneer-academy/nmotrain/internal/app"
	"github.com/pioneer-academy/nmotrain/internal/catalog"
	"github.com/pioneer-academy/nmotrain/internal/evaluate"
	"github.com/pioneer-academy/nmotrain/internal/flow"
	"github.com/pioneer-academy/nmotrain/internal/llm"
	"github.com/pioneer-academy/nmotrain/internal/store"
)

// runApp opens the store, builds dependencies, and launches the TUI.
// A missing evaluation-service credential is fatal here, before any UI
// comes up.
func runApp(cmd *cobra.Command) error {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	catalogs, err := catalog.OpenRegistry(resolveCatalogDir(cmd))
	if err != nil {
		return fmt.Errorf("open catalogs: %w", err)
	}

	cfg := llm.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("answer checking is unavailable: %w", err)
	}

	provider, err := llm.NewProvider(context.Background(), cfg, st)
	if err != nil {
		return fmt.Errorf("configure evaluation provider: %w", err)
	}

	return app.Run(app.Options{
		State:     flow.NewSessionState(),
		Store:     st,
		Catalogs:  catalogs,
		Evaluator: evaluate.NewService(provider, cfg.Timeout),
	})
}
