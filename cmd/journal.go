package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mutabayinat/internal/store"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect the local attempt journal",
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent journal entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		after, _ := cmd.Flags().GetInt64("after")
		problemID, _ := cmd.Flags().GetString("problem")
		kind, _ := cmd.Flags().GetString("kind")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		entries, err := s.Journal().List(cmd.Context(), store.QueryOpts{
			Limit:     limit,
			After:     after,
			ProblemID: problemID,
			Kind:      kind,
		})
		if err != nil {
			return fmt.Errorf("query journal: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No journal entries found.")
			return nil
		}

		// Header.
		fmt.Printf("%-5s  %-19s  %-11s  %-10s  %-18s  %-9s  %3s  %3s  %s\n",
			"Seq", "Timestamp", "Kind", "User", "Problem", "Verdict", "Att", "Scr", "Input")
		fmt.Println(strings.Repeat("─", 100))

		for _, e := range entries {
			input := e.Input
			if e.Kind == store.KindTutor || e.Kind == store.KindSaveFailed {
				input = e.Detail
			}
			fmt.Printf("%-5d  %-19s  %-11s  %-10s  %-18s  %-9s  %3d  %3d  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Kind,
				truncate(e.Username, 10),
				truncate(e.ProblemID, 18),
				e.Verdict,
				e.Attempts,
				e.Score,
				input,
			)
		}
		return nil
	},
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func init() {
	journalListCmd.Flags().Int("limit", 50, "Maximum number of entries")
	journalListCmd.Flags().Int64("after", 0, "Only entries with a sequence greater than this")
	journalListCmd.Flags().String("problem", "", "Only entries for this problem id")
	journalListCmd.Flags().String("kind", "", "Only entries of this kind (evaluation, submission, save_failed, tutor)")

	journalCmd.AddCommand(journalListCmd)
}
