package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nobatyar/nobat/internal/cache"
	"github.com/nobatyar/nobat/internal/config"
	"github.com/nobatyar/nobat/internal/editor"
	"github.com/nobatyar/nobat/internal/modalstate"
	"github.com/nobatyar/nobat/internal/navstate"
	"github.com/nobatyar/nobat/internal/remote"
)

var (
	version string
	baseDir string
)

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

var rootCmd = &cobra.Command{
	Use:   "nobat",
	Short: "Directory and booking manager for medical specialists",
	Long: `nobat - manage the specialist directory behind the booking site:
categories, doctors and appointment requests, from a TUI dashboard or
scripted subcommands. State lives in the remote data service; this tool
only keeps a local query cache and the navigable location under .nobat/.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initBaseDir)
}

func initBaseDir() {
	var err error
	baseDir, err = os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot determine working directory: %v\n", err)
		os.Exit(1)
	}
}

// getBaseDir returns the base directory for the tool's dot files
func getBaseDir() string {
	return baseDir
}

// env bundles the collaborators every data-touching command needs.
type env struct {
	Cfg    *config.Config
	Client *remote.Client
	Cache  *cache.Cache
	Nav    *navstate.Store
	Log    *logrus.Logger
}

func (e *env) Close() {
	if e.Cache != nil {
		e.Cache.Close()
	}
}

// TTL returns the configured cache freshness window.
func (e *env) TTL() time.Duration {
	return time.Duration(e.Cfg.CacheTTLOrDefault()) * time.Second
}

// openEnv loads config and opens the remote client, cache and location
// store. Run `nobat init` first to create the config.
func openEnv() (*env, error) {
	dir := getBaseDir()

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.ServiceURL == "" || cfg.AnonKey == "" {
		return nil, fmt.Errorf("no service configured; run `nobat init` and fill in %s", ".nobat/config.json")
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)

	client, err := remote.New(remote.Options{
		ServiceURL:   cfg.ServiceURL,
		AnonKey:      cfg.AnonKey,
		WriteKey:     cfg.WriteKey,
		SessionToken: cfg.SessionToken,
		Logger:       log,
	})
	if err != nil {
		return nil, err
	}

	store, err := cache.Open(dir)
	if err != nil {
		return nil, err
	}

	nav, err := navstate.Open(dir)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &env{Cfg: cfg, Client: client, Cache: store, Nav: nav, Log: log}, nil
}

// cliNotifier routes machine toasts to the terminal: successes to
// stdout, errors to the logger.
type cliNotifier struct {
	log *logrus.Logger
}

func (n cliNotifier) Success(msg string) {
	fmt.Println(msg)
}

func (n cliNotifier) Error(msg string) {
	n.log.Error(msg)
}

// newDriver wires an editor machine and its remote store for headless
// use. The CLI runs the same machine the dashboard modals do.
func newDriver(e *env, cfg editor.Config) *editor.Driver {
	machine := editor.New(cfg, editor.Deps{
		Target: navstate.NewParam(e.Nav, cfg.TargetParam, ""),
		Modals: modalstate.New(),
		Notify: cliNotifier{log: e.Log},
		Cache:  e.Cache,
		Log:    e.Log,
	})
	return &editor.Driver{
		Machine: machine,
		Store:   remote.TableStore{Client: e.Client, Table: cfg.Kind},
	}
}

// collectChanged gathers only the flags the user actually set, so an
// update patches over the fetched record instead of blanking fields.
func collectChanged(cmd *cobra.Command, keys map[string]string) map[string]string {
	fields := make(map[string]string)
	for flag, key := range keys {
		if cmd.Flags().Changed(flag) {
			v, _ := cmd.Flags().GetString(flag)
			fields[key] = v
		}
	}
	return fields
}
