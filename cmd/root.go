package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pioneer-academy/nmotrain/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "nmotrain",
	Short: "Self-paced onboarding for new missionary training volunteers",
	Long:  "NMO Training — a terminal questionnaire that routes new volunteers to the right question set and walks them through it with AI-checked answers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	// A local .env supplies API keys during development; absence is fine.
	_ = godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides NMOTRAIN_DB env var)")
	rootCmd.PersistentFlags().String("catalogs", "", "Path to the question catalog directory (overrides NMOTRAIN_CATALOGS env var)")

	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then NMOTRAIN_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveCatalogDir returns the catalog directory using --catalogs, then
// NMOTRAIN_CATALOGS, then ./catalogs.
func resolveCatalogDir(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("catalogs"); p != "" {
		return p
	}
	if p := os.Getenv("NMOTRAIN_CATALOGS"); p != "" {
		return p
	}
	return "catalogs"
}
