package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mutabayinat/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the saved student, language and last position",
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

		prefs := s.Prefs()
		for _, key := range []string{store.KeyCurrentUser, store.KeyLanguage, store.KeyLastSection, store.KeyLastProblem} {
			if err := prefs.Remove(cmd.Context(), key); err != nil {
				return fmt.Errorf("remove %s: %w", key, err)
			}
		}
		fmt.Println("Local preferences cleared. The journal is kept.")
		return nil
	},
}
