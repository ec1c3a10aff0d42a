// Package discovery announces and finds config portals over mDNS.
//
// A running portal registers its thing name as an "_http._tcp" instance with
// the TXT records "iotwebconf=1" and "path=/config". The Scanner browses the
// same service type and keeps only entries carrying the marker record, so
// printers and other HTTP services on the network are ignored.
//
// # Usage Example
//
//	announcer := discovery.NewAnnouncer("cfgver=" + version)
//	if err := announcer.Announce("mything", 80); err != nil {
//	    return err
//	}
//	defer announcer.Shutdown()
//
//	devices, err := discovery.NewScanner().ScanForDevices(ctx)
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Devices must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
