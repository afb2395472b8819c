package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/spahuja/portfolio/internal/console"
	"github.com/spahuja/portfolio/internal/logging"
	"github.com/spahuja/portfolio/internal/profile"
)

// Build variables - set by ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := newViper()
	var configPath string

	load := func() (appConfig, error) {
		return loadConfig(v, configPath)
	}

	root := &cobra.Command{
		Use:           "portfolio",
		Short:         "Portfolio site with a boot console intro",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (yaml)")
	root.PersistentFlags().String("log-level", defaultLogLevel, "log level: debug, info, warn, error")
	_ = v.BindPFlag("log-level", root.PersistentFlags().Lookup("log-level"))

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio site",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	serve.Flags().String("port", defaultPort, "port to listen on")
	serve.Flags().String("base-path", "", "path prefix for repository-style GitHub Pages hosting")
	_ = v.BindPFlag("port", serve.Flags().Lookup("port"))
	_ = v.BindPFlag("base-path", serve.Flags().Lookup("base-path"))

	var theme string
	consoleCmd := &cobra.Command{
		Use:   "console",
		Short: "Run the boot console in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return runConsole(cmd, cfg, theme)
		},
	}
	consoleCmd.Flags().StringVar(&theme, "theme", "", "terminal theme: dark or light (default: detect)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "portfolio %s (%s)\n", version, commit)
		},
	}

	root.AddCommand(serve, consoleCmd, versionCmd)
	return root
}

func runConsole(cmd *cobra.Command, cfg appConfig, theme string) error {
	// The terminal owns stderr while the console is up.
	if _, err := logging.Configure(logging.LevelError, cfg.LogFormat); err != nil {
		return err
	}
	p, err := loadProfile(cfg)
	if err != nil {
		return err
	}
	return console.Run(cmd.Context(), p, console.DetectTheme(theme))
}

func loadProfile(cfg appConfig) (*profile.Profile, error) {
	if cfg.ProfilePath != "" {
		return profile.Load(cfg.ProfilePath)
	}
	return profile.Default()
}
