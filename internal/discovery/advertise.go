package discovery

import (
	"fmt"

	"github.com/grandcat/zeroconf"
)

// Advertiser announces a panel's byte-stream endpoint over mDNS until
// shut down.
type Advertiser struct {
	server *zeroconf.Server
}

// Advertise registers the service on all multicast-capable interfaces.
// instance names this panel (e.g., "hmilink-sim"); serial and version
// go into TXT records so scanners can identify it without connecting.
func Advertise(instance, serial, version string, port int) (*Advertiser, error) {
	txt := []string{
		"serial=" + serial,
		"version=" + version,
		"path=/stream",
	}
	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}
	return &Advertiser{server: server}, nil
}

// Shutdown withdraws the advertisement.
func (a *Advertiser) Shutdown() {
	if a.server != nil {
		a.server.Shutdown()
	}
}
