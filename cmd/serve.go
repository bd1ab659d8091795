package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/mutabayinat/internal/demoserver"
)

const defaultDemoAddr = "localhost:8080"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the demo backend with the built-in problem catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = os.Getenv("MUTABAYINAT_DEMO_ADDR")
		}
		if addr == "" {
			addr = defaultDemoAddr
		}
		quiet, _ := cmd.Flags().GetBool("quiet")

		cat, err := demoserver.DefaultCatalog()
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Demo backend listening on http://%s\n", addr)
		srv := demoserver.New(cat, demoserver.Options{LogRequests: !quiet})
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides MUTABAYINAT_DEMO_ADDR env var)")
	serveCmd.Flags().Bool("quiet", false, "Disable the request log")
}
