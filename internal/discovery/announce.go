package discovery

import (
	"fmt"
	"sync"

	"github.com/grandcat/zeroconf"
)

// Announcer advertises a config portal over mDNS.
type Announcer struct {
	// Text holds extra TXT records added to the marker and path records.
	Text []string

	mu     sync.Mutex
	server *zeroconf.Server
}

// NewAnnouncer creates an announcer with extra TXT records.
func NewAnnouncer(text ...string) *Announcer {
	return &Announcer{Text: text}
}

// Records returns the TXT records that Announce publishes.
func (a *Announcer) Records() []string {
	records := []string{TXTMarker + "=1", TXTPath + "=" + DefaultConfigPath}
	return append(records, a.Text...)
}

// Announce registers instance as an _http._tcp service on port. A previous
// announcement is withdrawn first.
func (a *Announcer) Announce(instance string, port int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, a.Records(), nil)
	if err != nil {
		return fmt.Errorf("failed to register mDNS service: %w", err)
	}
	a.server = server
	return nil
}

// Shutdown withdraws the announcement.
func (a *Announcer) Shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}
