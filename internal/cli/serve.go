package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pivanov/relaywarden/internal/config"
	"github.com/pivanov/relaywarden/internal/daemon"
	wardenmcp "github.com/pivanov/relaywarden/internal/mcp"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the warden daemon with MCP operator tools on stdio",
	Long:  "Hosts the authority instance, persists its state, and exposes the\nwarden_* operator tools over MCP (Model Context Protocol) on stdio.\nSupports hot-reload of forwarder, targets, and alerts from the config file.",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	path := cfgPath
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	d, err := daemon.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}
	defer d.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloader, err := daemon.NewReloader(d, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: hot-reload disabled: %v\n", err)
	} else {
		go reloader.Run(ctx)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down warden...")
		cancel()
	}()

	snap := d.Status()
	fmt.Fprintf(os.Stderr, "relaywarden %s serving authority %s (domain %d) on stdio\n",
		version, snap.ID, snap.OriginDomain)

	return wardenmcp.New(d).Run(ctx)
}
