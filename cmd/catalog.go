package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pioneer-academy/nmotrain/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the question catalogs",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered catalogs",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := catalog.OpenRegistry(resolveCatalogDir(cmd))
		if err != nil {
			return fmt.Errorf("open catalogs: %w", err)
		}

		keys := reg.Keys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

		if len(keys) == 0 {
			fmt.Println("No catalogs registered.")
			return nil
		}

		fmt.Printf("%-20s  %-12s  %-10s  %s\n", "Program", "Format", "Questions", "Entry")
		fmt.Println(strings.Repeat("─", 60))
		for _, key := range keys {
			cat, err := reg.Load(key)
			if err != nil {
				fmt.Printf("%-20s  %-12s  %s\n", key.Program, key.Format, err)
				continue
			}
			fmt.Printf("%-20s  %-12s  %-10d  %s\n", key.Program, key.Format, cat.Len(), cat.EntryID)
		}
		return nil
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every catalog for dangling links and missing fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := catalog.OpenRegistry(resolveCatalogDir(cmd))
		if err != nil {
			return fmt.Errorf("open catalogs: %w", err)
		}

		keys := reg.Keys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

		broken := 0
		for _, key := range keys {
			cat, err := reg.Load(key)
			if err != nil {
				fmt.Printf("✗ %s: %v\n", key, err)
				broken++
				continue
			}

			problems := catalog.Validate(cat)
			if len(problems) == 0 {
				fmt.Printf("✓ %s (%d questions)\n", key, cat.Len())
				continue
			}

			broken++
			fmt.Printf("✗ %s (%d questions, %d problems)\n", key, cat.Len(), len(problems))
			for _, p := range problems {
				fmt.Printf("    %s\n", p)
			}
		}

		if broken > 0 {
			return fmt.Errorf("%d catalog(s) have problems", broken)
		}
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
}
