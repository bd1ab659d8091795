package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mutabayinat/internal/problem"
)

var langCmd = &cobra.Command{
	Use:   "lang [en|ar]",
	Short: "Show or set the interface language",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		if len(args) == 0 {
			fmt.Println(e.lang)
			return nil
		}

		switch strings.ToLower(args[0]) {
		case "en", "ar":
		default:
			return fmt.Errorf("unsupported language %q (want en or ar)", args[0])
		}
		lang := problem.ParseLang(args[0])
		e.controller.SetLang(cmd.Context(), lang)
		fmt.Printf("Language set to %s.\n", lang)
		return nil
	},
}
