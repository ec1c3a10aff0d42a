package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Device represents a config portal discovered on the network
type Device struct {
	// Name is the mDNS instance name, which is the device's thing name
	Name string

	// Hostname is the mDNS hostname (e.g., "mything.local.")
	Hostname string

	// IP is the preferred address, IPv4 when available
	IP string

	// Port is the HTTP port (typically 80)
	Port int

	// Metadata contains the mDNS TXT record data
	// Common fields: "iotwebconf=1", "path=/config"
	Metadata map[string]string

	// DiscoveredAt is when the device was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	return fmt.Sprintf("IotWebConf device %s (%s) at %s", d.Name, d.Hostname, net.JoinHostPort(d.IP, strconv.Itoa(d.Port)))
}

// BaseURL returns the HTTP base URL for the device
func (d *Device) BaseURL() string {
	return "http://" + net.JoinHostPort(d.IP, strconv.Itoa(d.Port))
}

// ConfigURL returns the URL of the config page, honouring the advertised path.
func (d *Device) ConfigURL() string {
	path := d.GetMetadata(TXTPath)
	if path == "" {
		path = DefaultConfigPath
	}
	return d.BaseURL() + path
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
