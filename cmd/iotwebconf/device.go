package main

import (
	"fmt"
	"io"

	"github.com/Mingyu-Kim/IotWebConfLite/internal/config"
	"github.com/Mingyu-Kim/IotWebConfLite/internal/discovery"
	"github.com/Mingyu-Kim/IotWebConfLite/internal/logging"
	"github.com/Mingyu-Kim/IotWebConfLite/internal/portal"
	"github.com/Mingyu-Kim/IotWebConfLite/internal/storage"
	"go.uber.org/zap"
)

// device is a portal wired to its storage backend.
type device struct {
	portal    *portal.Portal
	announcer *discovery.Announcer
	closer    io.Closer
}

// Close withdraws the announcement and releases the backend.
func (d *device) Close() error {
	if d.announcer != nil {
		d.announcer.Shutdown()
	}
	return d.closer.Close()
}

// openDevice builds the portal described by cfg. The announcer is attached
// only when announce is set and mDNS is enabled.
func openDevice(cfg *config.Config, announce bool) (*device, error) {
	medium, closer, err := storage.Open(cfg.Storage.Options())
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	d := &device{closer: closer}
	opts := portal.Options{
		ThingName:         cfg.ThingName,
		InitialAPPassword: cfg.InitialAPPassword,
		ConfigVersion:     cfg.ConfigVersion,
		Medium:            medium,
		StorageOffset:     cfg.Storage.Offset,
		VersionLength:     cfg.Storage.VersionLength,
		UpdatePath:        cfg.UpdatePath,
		Port:              cfg.Listen.Port,
	}
	if announce && cfg.MDNS.Enabled {
		d.announcer = discovery.NewAnnouncer(discovery.TXTVersion + "=" + cfg.ConfigVersion)
		opts.Announcer = d.announcer
	}

	p, err := portal.New(opts)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	groups, err := cfg.BuildGroups()
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	for _, g := range groups {
		p.AddParameterGroup(g)
	}
	hidden, err := cfg.BuildHidden()
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	for _, item := range hidden {
		p.AddHiddenParameter(item)
	}

	d.portal = p
	return d, nil
}

// loadDevice loads the config file, opens the device and reads the stored
// image. It reports whether the image carried a matching version.
func loadDevice(announce bool) (*config.Config, *device, bool, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, false, err
	}
	d, err := openDevice(cfg, announce)
	if err != nil {
		return nil, nil, false, err
	}
	valid, err := d.portal.Init()
	if err != nil {
		_ = d.Close()
		return nil, nil, false, fmt.Errorf("failed to load configuration: %w", err)
	}
	if !valid {
		logging.Info("Stored configuration missing or outdated, using defaults",
			zap.String("config_version", cfg.ConfigVersion),
		)
	}
	return cfg, d, valid, nil
}
