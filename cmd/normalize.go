package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mutabayinat/internal/answer"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <text>...",
	Short: "Show the canonical form of an answer",
	Long: "Normalize folds Arabic digits and the Arabic variable, operator glyphs and\n" +
		"whitespace into the form answers are compared in. With --against it also\n" +
		"checks the text as a final answer for the given canonical answer.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := strings.Join(args, " ")
		against, _ := cmd.Flags().GetString("against")

		if against == "" {
			fmt.Println(answer.Normalize(raw))
			return nil
		}

		fmt.Printf("input:     %s\n", answer.NormalizeAgainst(raw, against))
		fmt.Printf("accepted:  %s\n", strings.Join(answer.FinalAnswerSet(against), "  "))
		if answer.CheckFinal(raw, against) {
			fmt.Println("result:    correct")
		} else {
			fmt.Println("result:    incorrect")
		}
		return nil
	},
}

func init() {
	normalizeCmd.Flags().String("against", "", "Canonical answer to check the text against")
}
