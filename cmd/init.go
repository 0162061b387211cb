package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nobatyar/nobat/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the .nobat directory with a default config",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := getBaseDir()
		path := filepath.Join(dir, ".nobat", "config.json")

		if _, err := os.Stat(path); err == nil {
			fmt.Printf("ALREADY INITIALIZED %s\n", path)
			return nil
		}

		cfg := &config.Config{
			ServiceURL:      "https://YOUR-PROJECT.supabase.co",
			AnonKey:         "",
			CacheTTLSeconds: config.DefaultCacheTTLSeconds,
		}
		if err := config.Save(dir, cfg); err != nil {
			return fmt.Errorf("write config: %w", err)
		}

		fmt.Printf("INITIALIZED %s\n", path)
		fmt.Println("Fill in service_url and anon_key; add write_key to enable mutations.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
