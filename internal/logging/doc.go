// Package logging provides structured logging for the hmilink project.
//
// Logging is built on go.uber.org/zap and is silent by default: unless a
// log level is passed to Initialize or set via the HMILINK_LOG_LEVEL
// environment variable, all output is suppressed. This keeps the CLI
// tools quiet in normal use while making protocol-level debugging a
// single environment variable away.
//
// # Levels
//
// Valid levels, from most to least verbose: "debug", "info", "warn",
// "error". Frame hex dumps and engine diagnostics are logged at debug
// level.
//
// # Usage
//
//	logging.InitializeFromEnv()
//	defer logging.Sync()
//
//	logging.Info("device connected", zap.String("addr", addr))
//	logging.LogFrame("ws0", "rx", frameBytes)
//
// # Engine Bridge
//
// The protocol engine logs through a plain string sink (it knows nothing
// about zap). Sink adapts it:
//
//	plat := sim.NewPlatform(conn, logging.Sink("ws0"))
package logging
