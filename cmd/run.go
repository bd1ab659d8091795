package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/mutabayinat/internal/app"
	"github.com/abhisek/mutabayinat/internal/curriculum"
)

// runApp opens the store, builds dependencies, and launches the TUI. When
// problemID is set the section list opens on that problem's section.
func runApp(cmd *cobra.Command, problemID string) error {
	e, err := openTUIEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	section := e.lastSection
	if problemID != "" {
		if sec, ok := curriculum.SectionOf(problemID); ok {
			section = sec
		}
	}

	return app.Run(app.Options{
		Deps:        e.deps(),
		SectionID:   section,
		Username:    e.user,
		OpenProblem: problemID,
	})
}
