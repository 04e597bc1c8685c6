package protocol

// Platform is the hardware abstraction the engine talks through. The core
// never touches a transport or clock directly; the owning layer (board
// port, simulator, test harness) injects one Platform per interface.
//
// Implementations must be usable from the goroutine that feeds the parser.
type Platform interface {
	// WriteBytes transmits a complete frame to the host in one call.
	WriteBytes(data []byte) error

	// Millis returns a monotonically increasing millisecond counter.
	// The engine does not consume it itself (partial frames never time
	// out); it is exposed for handlers that need a timebase.
	Millis() uint32

	// Log emits a human-readable diagnostic line.
	Log(msg string)
}
