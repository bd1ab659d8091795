package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mutabayinat/internal/curriculum"
	"github.com/abhisek/mutabayinat/internal/problem"
	"github.com/abhisek/mutabayinat/internal/screens"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show the logged-in student's progress per section",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()
		if err := e.requireUser(); err != nil {
			return err
		}

		ctx := cmd.Context()
		var envelope *problem.StudentProgress
		prog, err := e.controller.RefreshProgress(ctx)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		// Points and badges only come from a live backend.
		if sp, err := e.client.Progress(ctx, e.user); err == nil {
			envelope = sp
		}

		fmt.Printf("Progress for %s\n", e.user)
		fmt.Println(strings.Repeat("─", 64))
		for _, sec := range curriculum.Sections() {
			sp, _ := prog.Section(sec.ID)
			done := 0
			for _, id := range sec.Stages {
				if sp[id].Completed {
					done++
				}
			}
			fmt.Printf("%-4s  %-40s  %d/%d\n", sec.ID, sec.Title.In(e.lang), done, len(sec.Stages))
			for _, id := range sec.Stages {
				rec, ok := sp[id]
				if !ok {
					continue
				}
				mark := "·"
				if rec.Completed {
					mark = "✓"
				}
				fmt.Printf("      %s %-22s  score %3d  attempts %d\n", mark, screens.StageLabel(id, e.lang), rec.Score, rec.Attempts)
			}
		}

		if envelope != nil {
			fmt.Println(strings.Repeat("─", 64))
			fmt.Printf("Total points: %.0f\n", envelope.TotalPoints)
			if len(envelope.Badges) > 0 {
				fmt.Printf("Badges: %s\n", strings.Join(envelope.Badges, ", "))
			}
		}
		return nil
	},
}
