package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/openhmi/hmilink/internal/config"
	"github.com/openhmi/hmilink/internal/console"
	"github.com/openhmi/hmilink/internal/discovery"
	"github.com/openhmi/hmilink/internal/host"
	"github.com/openhmi/hmilink/internal/transport"
)

// Connection flags. Zero values fall back to the config file, which
// falls back to built-in defaults.
var (
	flagTransport string
	flagDevice    string
	flagBaud      int
	flagAddress   string
	flagTimeout   int
	scanTimeout   int
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagTransport, "transport", "", "Transport: serial or ws (default from config)")
	pf.StringVar(&flagDevice, "device", "", "Serial device path (e.g. /dev/ttyUSB0)")
	pf.IntVar(&flagBaud, "baud", 0, "Serial baud rate")
	pf.StringVar(&flagAddress, "address", "", "WebSocket address (host:port or ws:// URL)")
	pf.IntVar(&flagTimeout, "timeout", 0, "Reply timeout in milliseconds")

	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(deviceVersionCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(bootloaderCmd)
	rootCmd.AddCommand(showPageCmd)
	rootCmd.AddCommand(setTextCmd)
	rootCmd.AddCommand(setValueCmd)
	rootCmd.AddCommand(setVisibleCmd)
	rootCmd.AddCommand(setEnabledCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(consoleCmd)
}

// hostConfig merges the config file with command-line overrides.
func hostConfig() (*config.HostConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	hc := cfg.Host
	if flagTransport != "" {
		hc.Transport = flagTransport
	}
	if flagDevice != "" {
		hc.Device = flagDevice
		if flagTransport == "" {
			hc.Transport = "serial"
		}
	}
	if flagBaud != 0 {
		hc.Baud = flagBaud
	}
	if flagAddress != "" {
		hc.Address = flagAddress
		if flagTransport == "" && flagDevice == "" {
			hc.Transport = "ws"
		}
	}
	if flagTimeout != 0 {
		hc.ReplyTimeoutMS = flagTimeout
	}
	return &hc, nil
}

// target names the endpoint a config connects to, for messages.
func target(hc *config.HostConfig) string {
	if hc.Transport == "ws" {
		return hc.Address
	}
	return hc.Device
}

// connect opens the transport and wraps it in a client. The caller
// owns Close.
func connect() (*host.Client, *config.HostConfig, error) {
	hc, err := hostConfig()
	if err != nil {
		return nil, nil, err
	}
	port, err := transport.Open(hc)
	if err != nil {
		return nil, nil, err
	}
	client := host.NewClient(port, time.Duration(hc.ReplyTimeoutMS)*time.Millisecond)
	return client, hc, nil
}

// withClient runs fn against a connected client and cleans up.
func withClient(fn func(ctx context.Context, c *host.Client) error) error {
	client, _, err := connect()
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(context.Background(), client)
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the panel is alive",
	Example: `  # Ping over the configured transport
  hmilink-host ping

  # Ping a simulator
  hmilink-host ping --address localhost:9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *host.Client) error {
			start := time.Now()
			if err := c.Ping(ctx); err != nil {
				return err
			}
			fmt.Printf("panel alive (rtt %s)\n", time.Since(start).Round(time.Microsecond))
			return nil
		})
	},
}

var deviceVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Query the panel's firmware version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *host.Client) error {
			v, err := c.GetVersion(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("firmware %d.%d.%d\n", v[0], v[1], v[2])
			return nil
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restart the panel",
	Long: `Ask the panel to restart. The panel acknowledges before going
down, so the command succeeds even though the link drops right after.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *host.Client) error {
			if err := c.Reset(ctx); err != nil {
				return err
			}
			fmt.Println("panel restarting")
			return nil
		})
	},
}

var bootloaderCmd = &cobra.Command{
	Use:   "bootloader",
	Short: "Put the panel into firmware-update mode",
	Long: `Ask the panel to enter its bootloader. Panels without a
bootloader reject the command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *host.Client) error {
			if err := c.EnterBootloader(ctx); err != nil {
				return err
			}
			fmt.Println("panel entering bootloader")
			return nil
		})
	},
}

var showPageCmd = &cobra.Command{
	Use:   "show-page <page>",
	Short: "Switch the panel to a page",
	Args:  cobra.ExactArgs(1),
	Example: `  hmilink-host show-page 1 --address localhost:9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := parseByteArg(args[0], "page")
		if err != nil {
			return err
		}
		return withClient(func(ctx context.Context, c *host.Client) error {
			if err := c.ShowPage(ctx, page); err != nil {
				return err
			}
			fmt.Printf("active page: %d\n", page)
			return nil
		})
	},
}

var setTextCmd = &cobra.Command{
	Use:   "set-text <widget> <text>",
	Short: "Set a label or button caption",
	Args:  cobra.ExactArgs(2),
	Example: `  hmilink-host set-text 0 "Hello, panel"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		widget, err := parseByteArg(args[0], "widget")
		if err != nil {
			return err
		}
		return withClient(func(ctx context.Context, c *host.Client) error {
			if err := c.SetText(ctx, widget, args[1]); err != nil {
				return err
			}
			fmt.Printf("widget %d text set\n", widget)
			return nil
		})
	},
}

var setValueCmd = &cobra.Command{
	Use:   "set-value <widget> <value>",
	Short: "Set a slider or checkbox value",
	Args:  cobra.ExactArgs(2),
	Example: `  # Slider to 75
  hmilink-host set-value 3 75

  # Checkbox on
  hmilink-host set-value 5 1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		widget, err := parseByteArg(args[0], "widget")
		if err != nil {
			return err
		}
		value, err := strconv.ParseInt(args[1], 10, 16)
		if err != nil {
			return fmt.Errorf("invalid value %q: %w", args[1], err)
		}
		return withClient(func(ctx context.Context, c *host.Client) error {
			if err := c.SetValue(ctx, widget, int16(value)); err != nil {
				return err
			}
			fmt.Printf("widget %d value set to %d\n", widget, value)
			return nil
		})
	},
}

var setVisibleCmd = &cobra.Command{
	Use:   "set-visible <widget> <true|false>",
	Short: "Show or hide a widget",
	Args:  cobra.ExactArgs(2),
	RunE:  runWidgetFlag((*host.Client).SetVisible, "visible"),
}

var setEnabledCmd = &cobra.Command{
	Use:   "set-enabled <widget> <true|false>",
	Short: "Enable or disable a widget",
	Args:  cobra.ExactArgs(2),
	RunE:  runWidgetFlag((*host.Client).SetEnabled, "enabled"),
}

// runWidgetFlag builds the RunE for the two boolean widget commands.
func runWidgetFlag(op func(*host.Client, context.Context, byte, bool) error, name string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		widget, err := parseByteArg(args[0], "widget")
		if err != nil {
			return err
		}
		value, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("invalid %s value (use true/false): %w", name, err)
		}
		return withClient(func(ctx context.Context, c *host.Client) error {
			if err := op(c, ctx, widget, value); err != nil {
				return err
			}
			fmt.Printf("widget %d %s = %v\n", widget, name, value)
			return nil
		})
	}
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Scan for networked panels via mDNS",
	Long: `Scan for panels advertising the byte-stream service over
mDNS/DNS-SD and list their addresses and identities. Serial panels do
not advertise and must be addressed with --device.`,
	Example: `  # Default 5-second scan
  hmilink-host discover

  # Longer scan for slow networks
  hmilink-host discover --scan-timeout 15`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().IntVar(&scanTimeout, "scan-timeout", 5, "Scan timeout in seconds")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for panels (timeout: %ds)...\n\n", scanTimeout)

	devices, err := discovery.ScanForDevices(time.Duration(scanTimeout) * time.Second)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(devices) == 0 {
		fmt.Println("No panels found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the panel (or hmilink-sim) is running and on this network")
		fmt.Println("  - Check that mDNS (UDP 5353) is not blocked by a firewall")
		fmt.Println("  - Try increasing --scan-timeout")
		fmt.Println("  - Use --address to connect directly if discovery fails")
		return nil
	}

	fmt.Printf("Found %d panel(s):\n\n", len(devices))
	for i, d := range devices {
		fmt.Printf("%d. %s\n", i+1, d.Instance)
		fmt.Printf("   Serial:   %s\n", d.Serial)
		fmt.Printf("   Firmware: %s\n", d.Version)
		fmt.Printf("   Address:  %s\n", d.Address())
		fmt.Println()
	}

	fmt.Println("Use 'hmilink-host ping --address <addr>' to check a panel")
	return nil
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Live event monitor",
	Long: `Open a full-screen monitor showing the panel's events as they
arrive: button presses, slider changes, page changes, and touches,
with running frame counters.`,
	Example: `  hmilink-host console --address localhost:9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, hc, err := connect()
		if err != nil {
			return err
		}
		defer client.Close()
		return console.Run(client, target(hc))
	},
}

func parseByteArg(s, name string) (byte, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return byte(v), nil
}
