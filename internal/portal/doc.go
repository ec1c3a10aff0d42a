// Package portal implements the configuration web portal of a device.
//
// A Portal owns the parameter tree:
//
//	iwcAll
//	├── iwcSys     "System configuration": thing name, AP password,
//	│              WiFi SSID and password, AP timeout (hidden)
//	├── iwcCustom  groups added with AddParameterGroup
//	└── hidden     items added with AddHiddenParameter, never rendered
//
// and persists it through a persist.Engine. The config page is protected by
// HTTP Basic auth with user "admin" and the current AP password.
//
// # Request cycle
//
// A GET (or any request without the iotSave field) renders the form. A
// submission clears all error messages, copies the submitted fields into the
// tree once, runs the custom validator and then the built-in checks:
//
//   - the thing name must be submitted and be at least 3 characters
//   - any item flagged during the update rejects the form, including a
//     password shorter than its MinLength (8 for the AP and WiFi passwords)
//
// A rejected submission re-renders the form with the updated values and
// the error annotations. An accepted one is saved and answered with the
// saved page.
//
// # Captive portal
//
// Requests whose Host is neither an IP literal nor starts with the thing
// name are redirected to the device's own address. HandleNotFound and
// HandleRoot run this check first.
//
// # Example
//
//	p, err := portal.New(portal.Options{
//	    ThingName:         "mything",
//	    InitialAPPassword: "smrtTHNG8266",
//	    ConfigVersion:     "mt1",
//	    Medium:            medium,
//	})
//	if err != nil {
//	    return err
//	}
//	p.AddParameterGroup(group)
//	if _, err := p.Init(); err != nil {
//	    return err
//	}
//	http.ListenAndServe(":80", p.Handler())
package portal
