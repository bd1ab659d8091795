package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/mutabayinat/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "mutabayinat",
	Short: "Inequalities tutor for grades 7-9",
	Long:  "Mutabayinat (متباينات): a bilingual English/Arabic terminal tutor for solving inequalities, stage by stage.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
}

// Execute loads .env when present and runs the root command.
func Execute() error {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MUTABAYINAT_DB env var)")
	rootCmd.PersistentFlags().String("api-url", "", "Backend base URL (overrides MUTABAYINAT_API_URL env var)")
	rootCmd.PersistentFlags().String("lang", "", "Interface language: en or ar (overrides the saved preference)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(langCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tutorCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then MUTABAYINAT_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
