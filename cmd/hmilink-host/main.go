// Hmilink-host drives a panel over a serial or WebSocket byte stream.
//
// It provides link checks, UI commands (pages, text, values, widget
// state), mDNS discovery of networked panels, and a live event monitor.
//
// Usage:
//
//	hmilink-host [command] [flags]
//
// Set HMILINK_LOG_LEVEL=debug for wire-level frame dumps.
// See 'hmilink-host --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openhmi/hmilink/internal/logging"
	"github.com/openhmi/hmilink/internal/version"
)

func main() {
	if err := logging.InitializeFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hmilink-host",
	Short: "Panel control utility",
	Long: `A command-line host for driving display panels over a framed
byte-stream protocol.

Connects over a serial device or a WebSocket endpoint (real panel or
the hmilink-sim simulator), sends UI commands, and monitors the events
the panel sends back.`,
	Version: version.Full(),
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
