package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mingyu-Kim/IotWebConfLite/internal/client"
	"github.com/Mingyu-Kim/IotWebConfLite/internal/config"
	"github.com/Mingyu-Kim/IotWebConfLite/internal/discovery"
	"github.com/Mingyu-Kim/IotWebConfLite/internal/logging"
	"github.com/Mingyu-Kim/IotWebConfLite/internal/param"
	"github.com/Mingyu-Kim/IotWebConfLite/internal/server"
	"github.com/Mingyu-Kim/IotWebConfLite/internal/ui"
)

// Command flags
var (
	listenHost  string
	listenPort  int
	showSecrets bool
	assumeYes   bool
	forceInit   bool
	scanTimeout int
	deviceIP    string
	deviceName  string
	devicePort  int
	apPassword  string
)

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(initConfigCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(setCmd)

	serveCmd.Flags().StringVar(&listenHost, "host", "", "Listen host (overrides the config file)")
	serveCmd.Flags().IntVar(&listenPort, "port", 0, "Listen port (overrides the config file)")

	dumpCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Print passwords in clear text")

	resetCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")

	initConfigCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing config file")

	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 10, "Scan timeout in seconds")

	setCmd.Flags().StringVar(&deviceIP, "device", "", "Portal IP address (skips discovery)")
	setCmd.Flags().StringVar(&deviceName, "name", "", "Thing name to discover over mDNS")
	setCmd.Flags().IntVar(&devicePort, "port", discovery.DefaultPort, "Portal HTTP port")
	setCmd.Flags().StringVar(&apPassword, "password", "", "AP password (prompted when empty)")
	setCmd.Flags().IntVar(&scanTimeout, "timeout", 10, "Discovery timeout in seconds")
}

// serveCmd runs the portal
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the config portal",
	Long: `Run the config portal over HTTP.

The stored configuration is loaded first. When it is missing or its version
does not match config_version, the defaults are used and the initial AP
password applies. The thing name is announced over mDNS when enabled.`,
	Example: `  # Serve with the default config file
  iotwebconf serve

  # Serve on port 80 as the captive portal of an access point
  iotwebconf serve --host 192.168.4.1 --port 80`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if listenHost != "" {
		cfg.Listen.Host = listenHost
	}
	if listenPort != 0 {
		cfg.Listen.Port = listenPort
	}

	d, err := openDevice(cfg, true)
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()

	p := d.portal
	p.SetConfigSavingCallback(func(size int) {
		logging.Debug("Saving configuration", zap.Int("bytes", size))
	})
	p.SetConfigSavedCallback(func() {
		logging.Info("Configuration saved", zap.String("thing_name", p.ThingName()))
	})

	valid, err := p.Init()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fmt.Println(ui.NewHeader("Config portal", "iotwebconf serve", map[string]string{
		"Thing name": p.ThingName(),
		"Listen":     cfg.Listen.Addr(),
		"Storage":    cfg.Storage.Path,
		"Version":    cfg.ConfigVersion,
		"Stored":     strconv.FormatBool(valid),
	}).Render())

	srv := server.New(&server.Config{Host: cfg.Listen.Host, Port: cfg.Listen.Port}, p.Handler())
	return srv.Start()
}

// layoutCmd prints the storage layout
var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Show where each parameter is stored",
	Long: `Print the byte offset and size of every parameter in the storage
image, including the version tag.`,
	RunE: runLayout,
}

func runLayout(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	d, err := openDevice(cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()

	engine := d.portal.Engine()
	if err := engine.Verify(); err != nil {
		return err
	}

	tagLength := len(engine.Tag())
	slots := append([]param.Slot{{ID: "(version tag)", Offset: cfg.Storage.Offset, Size: tagLength}}, engine.Layout()...)

	fmt.Println(ui.NewHeader("Parameter layout", "iotwebconf layout", map[string]string{
		"Version":    strconv.Quote(cfg.ConfigVersion),
		"Offset":     strconv.Itoa(cfg.Storage.Offset),
		"Total size": strconv.Itoa(engine.TotalSize()),
	}).Render())
	fmt.Println(ui.RenderLayoutTable(slots, ui.GetTerminalWidth()))
	return nil
}

// dumpCmd prints the stored values
var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the stored parameter values",
	RunE:  runDump,
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, d, valid, err := loadDevice(false)
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()

	if !valid {
		fmt.Println(ui.NewWarningResult("No stored configuration", map[string]string{
			"Version": strconv.Quote(cfg.ConfigVersion),
			"Showing": "defaults",
		}).Render())
	}
	fmt.Println(ui.RenderEntriesTable(param.Entries(d.portal.Root()), showSecrets, ui.GetTerminalWidth()))
	return nil
}

// resetCmd invalidates the stored image
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the stored configuration",
	Long: `Overwrite the version tag of the stored image. The next start uses the
defaults and the initial AP password.`,
	RunE: runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if !assumeYes && !ui.Confirm("RESET CONFIGURATION", []string{
		"All stored parameter values will be discarded",
		"The AP password reverts to the initial password",
	}) {
		return nil
	}

	d, err := openDevice(cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()

	if err := d.portal.Engine().Invalidate(); err != nil {
		fmt.Println(ui.RenderFailure("Reset failed", err, nil))
		return err
	}
	fmt.Println(ui.RenderSuccess("Configuration reset", map[string]string{"Storage": cfg.Storage.Path}))
	return nil
}

// initConfigCmd writes an example config file
var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write an example config file",
	RunE:  runInitConfig,
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		var err error
		if path, err = config.GetConfigPath(); err != nil {
			return err
		}
	}
	if _, err := os.Stat(path); err == nil && !forceInit {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}

	cfg, err := config.CreateDefaultConfig(path)
	if err != nil {
		return err
	}
	fmt.Println(ui.RenderSuccess("Config file written", map[string]string{
		"Path":       path,
		"Thing name": cfg.ThingName,
		"Groups":     strconv.Itoa(len(cfg.Groups)),
	}))
	return nil
}

// scanCmd discovers portals on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for config portals on the network",
	Long: `Scan for config portals using mDNS/DNS-SD discovery.

Only _http._tcp services carrying the iotwebconf TXT record are listed.`,
	Example: `  # Scan for 10 seconds (default)
  iotwebconf scan

  # Quick 3-second scan
  iotwebconf scan --timeout 3`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for config portals (timeout: %ds)...\n\n", scanTimeout)

	scanner := discovery.NewScanner()
	scanner.Timeout = time.Duration(scanTimeout) * time.Second
	devices, err := scanner.ScanForDevices(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(devices) == 0 {
		fmt.Println("No portals found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the device is powered on and mDNS is enabled")
		fmt.Println("  - Verify your computer is on the same network or AP")
		fmt.Println("  - Try increasing --timeout for slower networks")
		return nil
	}

	fmt.Printf("Found %d portal(s):\n\n", len(devices))
	for i, device := range devices {
		fmt.Printf("%d. %s\n", i+1, device.Name)
		fmt.Printf("   Host:    %s\n", device.Hostname)
		fmt.Printf("   URL:     %s\n", device.ConfigURL())
		if v := device.GetMetadata(discovery.TXTVersion); v != "" {
			fmt.Printf("   Version: %s\n", v)
		}
		fmt.Println()
	}
	fmt.Println("Use 'iotwebconf set --device <ip> id=value' to change a parameter")
	return nil
}

// setCmd changes parameters on a running portal
var setCmd = &cobra.Command{
	Use:   "set id=value...",
	Short: "Change parameters on a running portal",
	Long: `Change parameters on a running portal over HTTP.

Every other value is submitted unchanged, so only the named parameters
change. The portal validates the submission like a browser form; rejected
fields are reported with their messages.`,
	Example: `  # Change the MQTT server of the portal at 192.168.4.1
  iotwebconf set --device 192.168.4.1 mqttServer=10.0.0.2

  # Find the portal by thing name and turn off a checkbox
  iotwebconf set --name mything ledEnabled=false`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSet,
}

// parseAssignments splits id=value arguments.
func parseAssignments(args []string) (map[string]string, error) {
	overrides := make(map[string]string, len(args))
	for _, arg := range args {
		id, value, ok := strings.Cut(arg, "=")
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid assignment %q (want id=value)", arg)
		}
		overrides[id] = value
	}
	return overrides, nil
}

func runSet(cmd *cobra.Command, args []string) error {
	overrides, err := parseAssignments(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ip, port := deviceIP, devicePort
	if ip == "" {
		if deviceName == "" {
			return fmt.Errorf("either --device or --name is required")
		}
		scanner := discovery.NewScanner()
		scanner.Timeout = time.Duration(scanTimeout) * time.Second
		found, err := scanner.WaitForDevice(ctx, deviceName)
		if err != nil {
			return err
		}
		ip, port = found.IP, found.Port
	}

	password := apPassword
	if password == "" {
		if password, err = ui.PromptPassword("AP password"); err != nil {
			return err
		}
	}

	c := client.NewClient(ip, port, password)
	form, err := c.Set(ctx, overrides)
	if err != nil {
		fmt.Println(ui.RenderFailure("Update rejected", err, []string{client.GetShortErrorMessage(err)}))
		return err
	}

	fmt.Println(ui.RenderSuccess("Configuration saved", overrideDetails(form, overrides)))
	return nil
}

// overrideDetails lists the applied values with password fields masked.
func overrideDetails(form *client.Form, overrides map[string]string) map[string]string {
	details := make(map[string]string, len(overrides))
	for id, value := range overrides {
		if field := form.Field(id); field != nil && field.Type == "password" {
			value = ui.SecretMask
		}
		details[id] = value
	}
	return details
}
