package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/pymaster/internal/app"
)

// runApp opens the environment and launches the TUI at route.
func runApp(cmd *cobra.Command, route string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	return app.Run(cmd.Context(), app.Options{
		Catalog: e.catalog,
		Session: e.session,
		Tutor:   e.tutor,
		Logger:  e.logger,
		Route:   route,
	})
}
