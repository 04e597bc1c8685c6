// Package discovery provides mDNS-based discovery of networked panels.
//
// Panels reachable over the WebSocket transport advertise themselves
// as "_hmilink._tcp" services. TXT records carry the panel's identity:
//
//	serial=<serial number>
//	version=<firmware version>
//	path=/stream
//
// # Discovery Process
//
//  1. Broadcasts mDNS queries on the local network
//  2. Collects service advertisements until the timeout expires
//  3. Parses each entry's address, port, and TXT identity
//
// # Usage Example
//
//	devices, err := discovery.ScanForDevices(5 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range devices {
//	    fmt.Println(d)
//	}
//
// The Advertise side of the same service type is used by the panel
// simulator so hosts can find it like real hardware.
//
// # Network Requirements
//
// Requires multicast support on the network interface and mDNS (UDP
// port 5353) through the firewall. Serial panels do not advertise;
// they are configured by device path instead.
package discovery
