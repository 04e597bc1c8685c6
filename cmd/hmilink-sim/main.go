// Hmilink-sim runs a software panel for development without hardware.
//
// It serves the framed byte stream over WebSocket at /stream and can
// advertise itself via mDNS so hmilink-host discovers it like a real
// panel. Each connection gets an independent panel instance.
//
// Usage:
//
//	hmilink-sim [flags]
//
// See 'hmilink-sim --help' for available flags.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/openhmi/hmilink/internal/config"
	"github.com/openhmi/hmilink/internal/logging"
	"github.com/openhmi/hmilink/internal/sim"
	"github.com/openhmi/hmilink/internal/version"
)

var (
	flagHost      string
	flagPort      int
	flagModel     string
	flagAdvertise bool
	flagLogLevel  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hmilink-sim",
	Short: "Software panel simulator",
	Long: `Runs a simulated display panel speaking the framed byte-stream
protocol over WebSocket.

The panel's pages and widgets come from a YAML model file; without one
a built-in demo model is used. Point hmilink-host at the printed
address, or let it find the simulator via 'hmilink-host discover'.`,
	Version: version.Full(),
	RunE:    runSim,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.Flags().StringVar(&flagHost, "host", "127.0.0.1", "Address to bind")
	rootCmd.Flags().IntVar(&flagPort, "port", 9000, "Port to listen on (0 picks a free port)")
	rootCmd.Flags().StringVar(&flagModel, "model", "", "Panel model YAML file (default: built-in demo model)")
	rootCmd.Flags().BoolVar(&flagAdvertise, "advertise", true, "Advertise over mDNS")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func runSim(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(flagLogLevel); err != nil {
		return err
	}
	defer logging.Sync()

	model := config.DefaultDeviceModel()
	if flagModel != "" {
		m, err := config.LoadDeviceModel(flagModel)
		if err != nil {
			return fmt.Errorf("failed to load model: %w", err)
		}
		model = m
	}
	if err := model.Validate(); err != nil {
		return fmt.Errorf("invalid model: %w", err)
	}

	server := sim.NewServer(&sim.ServerConfig{
		Host:      flagHost,
		Port:      flagPort,
		Model:     model,
		Advertise: flagAdvertise,
	})
	if err := server.Start(); err != nil {
		return err
	}

	fmt.Printf("Simulating panel %q (serial %s)\n", model.Name, model.Serial)
	fmt.Printf("Byte stream at ws://%s/stream\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\nShutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
