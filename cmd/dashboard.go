package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nobatyar/nobat/pkg/dashboard"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the admin TUI",
	Long: `Open the tabbed admin dashboard: categories, doctors and appointment
requests, with add/edit modals. --at seeds the persisted location, e.g.

  nobat dashboard --at "modal-edit-doctor-id=<uuid>"

deep-links straight into that doctor's edit modal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		// Logs go to a file: stderr belongs to the TUI while it runs.
		logPath := filepath.Join(getBaseDir(), ".nobat", "nobat.log")
		if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
			defer f.Close()
			e.Log.SetOutput(f)
			e.Log.SetLevel(logrus.InfoLevel)
		}

		if at, _ := cmd.Flags().GetString("at"); at != "" {
			if err := e.Nav.Seed(at); err != nil {
				return fmt.Errorf("invalid --at query: %w", err)
			}
		}

		model := dashboard.New(dashboard.Options{
			BaseDir: getBaseDir(),
			Client:  e.Client,
			Cache:   e.Cache,
			Nav:     e.Nav,
			TTL:     e.TTL(),
			Log:     e.Log,
		})

		p := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("dashboard: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().String("at", "", "seed the location query string (deep link)")
}
