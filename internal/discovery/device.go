package discovery

import (
	"fmt"
	"time"
)

// Device represents a discovered panel on the network.
type Device struct {
	// Instance is the mDNS instance name (e.g., "hmilink-sim-a1b2").
	Instance string

	// Serial is the panel serial number from the TXT record.
	Serial string

	// Hostname is the mDNS hostname.
	Hostname string

	// IP is the address to connect to (IPv4 preferred).
	IP string

	// Port is the WebSocket stream port.
	Port int

	// Version is the firmware version from the TXT record (e.g., "1.0.0").
	Version string

	// Metadata contains the remaining TXT record data.
	Metadata map[string]string

	// DiscoveredAt is when the device was discovered.
	DiscoveredAt time.Time
}

// String returns a human-readable description of the device.
func (d *Device) String() string {
	return fmt.Sprintf("Panel %s (serial %s, fw %s) at %s:%d",
		d.Instance, d.Serial, d.Version, d.IP, d.Port)
}

// Address returns the host:port to hand to the WebSocket transport.
func (d *Device) Address() string {
	return fmt.Sprintf("%s:%d", d.IP, d.Port)
}

// GetMetadata retrieves a TXT record value by key, or returns an empty
// string if not present.
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
