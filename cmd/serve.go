package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mepalumni/mepbudget/internal/logger"
	"github.com/mepalumni/mepbudget/internal/server"

	"github.com/spf13/cobra"
)

var (
	flagServeAddr         string
	flagServeEventsBuffer int
	flagServeLogLevel     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the budget session over a local HTTP/SSE API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query a running dashboard server",
	Args:  cobra.NoArgs,
	RunE:  runServeStatus,
}

func init() {
	serveCmd.PersistentFlags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default: config server.addr)")
	serveCmd.Flags().IntVar(&flagServeEventsBuffer, "events-buffer", 0, "Max in-memory events retained (default: config server.events_buffer)")
	serveCmd.Flags().StringVar(&flagServeLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	serveCmd.AddCommand(serveStatusCmd)
	rootCmd.AddCommand(serveCmd)
}

func serveAddr() string {
	if flagServeAddr != "" {
		return flagServeAddr
	}
	return loadConfig().Server.Addr
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	log := logger.New(os.Stderr, flagServeLogLevel)

	sess, err := newSession()
	if err != nil {
		return err
	}

	scfg := server.Config{
		Addr:         cfg.Server.Addr,
		EventsBuffer: cfg.Server.EventsBuffer,
		UnitLabel:    cfg.General.UnitLabel,
		ExportDir:    cfg.ExportDir(),
	}
	if flagServeAddr != "" {
		scfg.Addr = flagServeAddr
	}
	if flagServeEventsBuffer > 0 {
		scfg.EventsBuffer = flagServeEventsBuffer
	}
	svc := server.New(scfg, sess, log)

	infof("Dashboard API on http://%s/v1/status\n", scfg.Addr)
	infof("Event stream on http://%s/v1/stream\n", scfg.Addr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runServeStatus(_ *cobra.Command, _ []string) error {
	addr := serveAddr()
	fmt.Printf("  Address: http://%s\n", addr)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/v1/status", nil)
	if err != nil {
		return fmt.Errorf("building status request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st server.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	unit := st.UnitLabel
	fmt.Printf("  Started: %s\n", st.StartedAt.Local().Format(time.RFC3339))
	fmt.Printf("  Headings: %d\n", st.Headings)
	fmt.Printf("  Proposals: %d, resource additions: %d\n", st.Totals.Proposals, st.Totals.Resources)
	fmt.Printf("  Spent: %.2f %s, remaining: %.2f %s\n", st.Totals.Spent, unit, st.Totals.Remaining, unit)
	fmt.Printf("  Events: %d retained, %d subscribers\n", st.EventCount, st.SubscriberCount)
	return nil
}
