package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mutabayinat/internal/llm"
	"github.com/abhisek/mutabayinat/internal/stage"
	"github.com/abhisek/mutabayinat/internal/store"
	"github.com/abhisek/mutabayinat/internal/tutor"
)

var tutorCmd = &cobra.Command{
	Use:   "tutor",
	Short: "Try the mistake explainer and inspect its usage",
}

var tutorExplainCmd = &cobra.Command{
	Use:   "explain <problem-id> <wrong-answer>...",
	Short: "Explain a set of wrong answers to a problem",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		ctx := cmd.Context()
		p, err := e.client.Problem(ctx, args[0])
		if err != nil {
			return fmt.Errorf("load problem: %w", err)
		}

		svc := newTutor(ctx, e.store.Journal())
		ex, err := svc.Explain(ctx, tutor.Input{
			Problem:      p,
			Kind:         stage.Classify(p.Type, p.ID),
			Lang:         e.lang,
			WrongAnswers: args[1:],
		})
		if ex == nil {
			return err
		}
		if err != nil {
			fmt.Println("Model unavailable, showing the offline explanation:", err)
		}

		fmt.Printf("Diagnosis: %s (%.0f%%, %s)\n", ex.Diagnosis.Category, ex.Diagnosis.Confidence*100, ex.Source)
		fmt.Println(strings.Repeat("─", 60))
		fmt.Println(ex.Summary)
		for i, s := range ex.Steps {
			fmt.Printf("%d. %s\n", i+1, s)
		}
		if ex.Encouragement != "" {
			fmt.Println()
			fmt.Println(ex.Encouragement)
		}
		return nil
	},
}

var tutorStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show tutor requests and token usage per model",
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

		entries, err := s.Journal().List(cmd.Context(), store.QueryOpts{Kind: store.KindTutor})
		if err != nil {
			return fmt.Errorf("query journal: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No tutor requests recorded yet.")
			if cfg, ok := llm.DiscoverConfig(); ok {
				fmt.Printf("Configured provider: %s\n", cfg.Provider)
			} else {
				fmt.Println("No provider configured; explanations are offline.")
			}
			return nil
		}

		type usage struct {
			calls, failed, in, out int
			latencyMs              int64
		}
		byModel := make(map[string]*usage)
		for _, e := range entries {
			d := parseTutorDetail(e.Detail)
			u := byModel[d.model]
			if u == nil {
				u = &usage{}
				byModel[d.model] = u
			}
			u.calls++
			if e.Verdict != "ok" {
				u.failed++
			}
			u.in += d.in
			u.out += d.out
			u.latencyMs += d.latencyMs
		}

		models := make([]string, 0, len(byModel))
		for m := range byModel {
			models = append(models, m)
		}
		sort.Strings(models)

		fmt.Printf("%-32s  %6s  %6s  %10s  %10s  %8s\n",
			"Model", "Calls", "Failed", "Input", "Output", "Avg Ms")
		fmt.Println(strings.Repeat("─", 80))
		var calls, in, out int
		for _, m := range models {
			u := byModel[m]
			fmt.Printf("%-32s  %6d  %6d  %10d  %10d  %8d\n",
				truncate(m, 32), u.calls, u.failed, u.in, u.out, u.latencyMs/int64(u.calls))
			calls += u.calls
			in += u.in
			out += u.out
		}
		fmt.Println(strings.Repeat("─", 80))
		fmt.Printf("%-32s  %6d  %6s  %10d  %10d\n", "TOTAL", calls, "", in, out)
		return nil
	},
}

type tutorDetail struct {
	model     string
	latencyMs int64
	in, out   int
}

// parseTutorDetail reads the key=value pairs journaled for each tutor
// request.
func parseTutorDetail(detail string) tutorDetail {
	var d tutorDetail
	for _, field := range strings.Fields(detail) {
		k, v, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		switch k {
		case "model":
			d.model = v
		case "latency_ms":
			fmt.Sscan(v, &d.latencyMs)
		case "input_tokens":
			fmt.Sscan(v, &d.in)
		case "output_tokens":
			fmt.Sscan(v, &d.out)
		}
	}
	if d.model == "" {
		d.model = "(unknown)"
	}
	return d
}

func init() {
	tutorCmd.AddCommand(tutorExplainCmd)
	tutorCmd.AddCommand(tutorStatsCmd)
}
