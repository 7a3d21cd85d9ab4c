package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tutiful/papergen/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "papergen",
	Short: "PSLE math practice paper generator",
	Long: "Papergen assembles Primary 6 mathematics practice papers from a curated\n" +
		"question bank, an LLM question generator, and heuristic variations.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PAPERGEN_DB env var)")
	rootCmd.PersistentFlags().String("bank", "", "Path to the question bank JSON file (overrides PAPERGEN_BANK env var)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then PAPERGEN_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
