package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/folio"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "A personal site with a persistent light/dark theme",
	Long: `folio serves a personal site: a home page, an about page built from
a site metadata file, and a theme switch that remembers each visitor's choice.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete theme preferences not updated within --older-than",
	RunE:  runPrune,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the folio version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("folio %s\n", version)
	},
}

var (
	serveAddr  string
	serveWatch bool
	olderThan  time.Duration
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides ADDR)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload the site metadata file when it changes")
	pruneCmd.Flags().DurationVar(&olderThan, "older-than", 365*24*time.Hour, "age after which a stored preference is deleted")

	rootCmd.AddCommand(serveCmd, pruneCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := folio.LoadConfig()
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	if serveWatch {
		cfg.WatchContent = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := folio.New(cfg, folio.ViewFuncs{})
	defer app.Close()
	return app.Run(ctx)
}

func runPrune(cmd *cobra.Command, args []string) error {
	cfg := folio.LoadConfig()
	store, err := folio.NewPrefStore(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.DeleteOlderThan(cmd.Context(), time.Now().Add(-olderThan))
	if err != nil {
		return err
	}
	fmt.Printf("deleted %d preference(s)\n", n)
	return nil
}
