package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pioneer-academy/nmotrain/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect logged answer-evaluation requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent evaluation calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		records, err := s.RecentLLMRequests(context.Background(), limit)
		if err != nil {
			return fmt.Errorf("query requests: %w", err)
		}

		if len(records) == 0 {
			fmt.Println("No evaluation calls logged yet.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Model", "In", "Out", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 84))

		for _, r := range records {
			ok := "✓"
			if !r.Success {
				ok = "✗"
			}
			model := r.Model
			if len(model) > 28 {
				model = model[:28]
			}
			fmt.Printf("%-5d  %-19s  %-28s  %-6d  %-6d  %-7d  %s\n",
				r.ID,
				r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				model,
				r.InputTokens,
				r.OutputTokens,
				r.LatencyMs,
				ok,
			)
			if !r.Success && r.ErrorMessage != "" {
				fmt.Printf("       %s\n", r.ErrorMessage)
			}
		}
		return nil
	},
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")

	llmCmd.AddCommand(llmListCmd)
}
