package portal

import (
	"github.com/Mingyu-Kim/IotWebConfLite/internal/logging"
	"github.com/Mingyu-Kim/IotWebConfLite/internal/param"
	"go.uber.org/zap"
)

// Init checks the tree layout, loads the stored configuration and starts
// the mDNS announcement. It reports whether the stored config was valid.
// On an invalid config the initial AP password is restored.
func (p *Portal) Init() (bool, error) {
	if err := p.engine.Verify(); err != nil {
		return false, err
	}
	valid, err := p.LoadConfig()
	if err != nil {
		return false, err
	}
	if !valid {
		p.mu.Lock()
		p.apPassword.SetValue(p.opts.InitialAPPassword)
		p.mu.Unlock()
	}

	if p.opts.Announcer != nil {
		name := p.ThingName()
		if err := p.opts.Announcer.Announce(name, p.opts.Port); err != nil {
			logging.Warn("mDNS announcement failed", zap.String("thing_name", name), zap.Error(err))
		}
	}
	return valid, nil
}

// LoadConfig reads the tree from storage. It reports false when the stored
// version did not match and defaults were applied.
func (p *Portal) LoadConfig() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	logging.Debug("Loading configuration",
		zap.String("config_version", p.opts.ConfigVersion),
		zap.Int("size", p.engine.TotalSize()),
	)
	valid, err := p.engine.Load()
	if err != nil {
		logging.Error("Failed to load configuration", zap.Error(err))
		return false, err
	}
	if !valid {
		logging.Info("Wrong config version, applying defaults",
			zap.String("config_version", p.opts.ConfigVersion))
	}
	logging.LogParameters("Configuration", p.entries())
	return valid, nil
}

// SaveConfig writes the tree to storage.
func (p *Portal) SaveConfig() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.save()
}

func (p *Portal) save() error {
	logging.LogParameters("Saving configuration", p.entries())
	if err := p.engine.Save(); err != nil {
		logging.Error("Failed to save configuration", zap.Error(err))
		return err
	}
	logging.Info("Configuration saved", zap.Int("size", p.engine.TotalSize()))
	return nil
}

func (p *Portal) entries() []logging.ParameterEntry {
	var out []logging.ParameterEntry
	for _, e := range param.Entries(p.root) {
		out = append(out, logging.ParameterEntry{ID: e.ID, Value: e.Value, Secret: e.Secret})
	}
	return out
}
