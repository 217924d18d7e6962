package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pioneer-academy/nmotrain/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the saved training run",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		if err := s.ClearProgress(context.Background()); err != nil {
			return fmt.Errorf("clear progress: %w", err)
		}

		fmt.Println("Saved training run cleared. The next start begins fresh.")
		return nil
	},
}
