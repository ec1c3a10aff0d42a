package portal

import (
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/Mingyu-Kim/IotWebConfLite/internal/param"
	"github.com/Mingyu-Kim/IotWebConfLite/internal/persist"
	"github.com/Mingyu-Kim/IotWebConfLite/internal/storage"
)

const (
	// AdminUser is the Basic auth user name of the config page.
	AdminUser = "admin"
	// SaveMarker is the hidden form field that marks a submission.
	SaveMarker = "iotSave"
	// DefaultConfigVersion is used when Options.ConfigVersion is empty.
	DefaultConfigVersion = "init"
	// PageTitle is the title of every portal page.
	PageTitle = "Config ESP"

	// FieldLength is the storage size of the built-in text fields.
	FieldLength = 33
	// MinPasswordLength applies to non-empty password submissions.
	MinPasswordLength = 8
	// MinThingNameLength is the shortest accepted thing name.
	MinThingNameLength = 3
)

// Ids of the built-in system parameters.
const (
	ThingNameID    = "iwcThingName"
	APPasswordID   = "iwcApPassword"
	WifiSSIDID     = "iwcWifiSsid"
	WifiPasswordID = "iwcWifiPassword"
	APTimeoutID    = "iwcApTimeout"
)

// Announcer advertises the device on the local network. discovery.Announcer
// satisfies it.
type Announcer interface {
	Announce(instance string, port int) error
	Shutdown()
}

// Options configures a Portal.
type Options struct {
	// ThingName is the default device name.
	ThingName string
	// InitialAPPassword is restored whenever the stored config is invalid.
	InitialAPPassword string
	// ConfigVersion tags the persisted layout. Change it whenever the
	// parameter tree changes shape.
	ConfigVersion string

	Medium        storage.Medium
	StorageOffset int
	VersionLength int

	// Formatter defaults to DefaultFormatter.
	Formatter Formatter
	// UpdatePath adds a firmware update link to the form when non-empty.
	UpdatePath string

	Announcer Announcer
	// Port is the advertised HTTP port. Defaults to 80.
	Port int
}

// Portal owns the parameter tree and serves the config pages.
type Portal struct {
	mu sync.Mutex

	opts      Options
	formatter Formatter
	engine    *persist.Engine

	root   *param.Group
	system *param.Group
	custom *param.Group
	hidden *param.Group

	thingName    *param.Text
	apPassword   *param.Password
	wifiSSID     *param.Text
	wifiPassword *param.Password
	apTimeout    *param.Number

	configSaving   func(size int)
	configSaved    func()
	formValidator  func(form url.Values) bool
	wifiConnection func()
}

// New builds the parameter tree and the persistence engine. Custom
// parameters are added afterwards, before Init.
func New(opts Options) (*Portal, error) {
	if opts.Medium == nil {
		return nil, fmt.Errorf("portal: storage medium is required")
	}
	if opts.ConfigVersion == "" {
		opts.ConfigVersion = DefaultConfigVersion
	}
	if opts.Port == 0 {
		opts.Port = 80
	}

	p := &Portal{
		opts:      opts,
		formatter: opts.Formatter,
		root:      param.NewGroup("iwcAll", ""),
		system:    param.NewGroup("iwcSys", "System configuration"),
		custom:    param.NewGroup("iwcCustom", ""),
		hidden:    param.NewGroup("hidden", ""),
	}
	if p.formatter == nil {
		p.formatter = DefaultFormatter{}
	}

	p.thingName = param.NewText(ThingNameID, "Thing name", FieldLength, opts.ThingName)
	p.apPassword = param.NewPassword(APPasswordID, "AP password", FieldLength, "")
	p.apPassword.MinLength = MinPasswordLength
	p.wifiSSID = param.NewText(WifiSSIDID, "WiFi SSID", FieldLength, "")
	p.wifiPassword = param.NewPassword(WifiPasswordID, "WiFi password", FieldLength, "")
	p.wifiPassword.MinLength = MinPasswordLength
	p.apTimeout = param.NewNumber(APTimeoutID, "Startup delay (seconds)", 5, "30").Bounds(0, 600)
	p.apTimeout.SetVisible(false)

	p.system.AddItem(p.thingName)
	p.system.AddItem(p.apPassword)
	p.system.AddItem(p.wifiSSID)
	p.system.AddItem(p.wifiPassword)
	p.system.AddItem(p.apTimeout)
	p.hidden.SetVisible(false)

	p.root.AddItem(p.system)
	p.root.AddItem(p.custom)
	p.root.AddItem(p.hidden)

	engine, err := persist.NewEngine(p.root, opts.Medium, persist.Options{
		Offset:        opts.StorageOffset,
		Version:       opts.ConfigVersion,
		VersionLength: opts.VersionLength,
	})
	if err != nil {
		return nil, err
	}
	engine.SetBeforeSave(func(size int) {
		if p.configSaving != nil {
			p.configSaving(size)
		}
	})
	engine.SetAfterSave(func() {
		if p.configSaved != nil {
			p.configSaved()
		}
	})
	p.engine = engine
	return p, nil
}

// AddParameterGroup appends a custom group shown after the system group.
func (p *Portal) AddParameterGroup(group *param.Group) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.custom.AddItem(group)
}

// AddSystemParameter appends an item to the system group.
func (p *Portal) AddSystemParameter(item param.Item) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.system.AddItem(item)
}

// AddHiddenParameter appends an item that is persisted but never shown.
func (p *Portal) AddHiddenParameter(item param.Item) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hidden.AddItem(item)
}

// SetConfigSavingCallback registers a hook called with the tree size before
// every save. A later call replaces the hook. Save hooks run while the portal
// is locked and must not call back into it.
func (p *Portal) SetConfigSavingCallback(fn func(size int)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.configSaving = fn
}

// SetConfigSavedCallback registers a hook called after every save.
func (p *Portal) SetConfigSavedCallback(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.configSaved = fn
}

// SetFormValidator registers a validator run on every submission before the
// built-in checks. It marks errors on the items it owns and returns false to
// reject. Like the save hooks it runs with the portal locked.
func (p *Portal) SetFormValidator(fn func(form url.Values) bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.formValidator = fn
}

// SetWifiConnectionCallback registers the hook run by NotifyWifiConnected.
func (p *Portal) SetWifiConnectionCallback(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.wifiConnection = fn
}

// NotifyWifiConnected is called by the network layer once the station
// connection is up.
func (p *Portal) NotifyWifiConnected() {
	p.mu.Lock()
	fn := p.wifiConnection
	p.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// ThingName returns the current device name.
func (p *Portal) ThingName() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.thingName.Value()
}

// APPassword returns the current access point password.
func (p *Portal) APPassword() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.apPassword.Value()
}

// WifiCredentials returns the configured station SSID and password.
func (p *Portal) WifiCredentials() (ssid, password string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.wifiSSID.Value(), p.wifiPassword.Value()
}

// APTimeout is how long the access point stays up at startup.
func (p *Portal) APTimeout() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	secs := p.apTimeout.Float()
	if secs < 0 {
		secs = 0
	}
	return time.Duration(secs * float64(time.Second))
}

// Parameter finds an item anywhere in the tree. Callers must not use the
// item concurrently with the portal's handlers.
func (p *Portal) Parameter(id string) param.Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	return param.Find(p.root, id)
}

// Root returns the whole tree.
func (p *Portal) Root() *param.Group { return p.root }

// SystemGroup returns the built-in system group.
func (p *Portal) SystemGroup() *param.Group { return p.system }

// Engine returns the persistence engine.
func (p *Portal) Engine() *persist.Engine { return p.engine }

// ConfigVersion returns the persisted layout tag string.
func (p *Portal) ConfigVersion() string { return p.opts.ConfigVersion }
