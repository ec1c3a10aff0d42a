// Package config loads the YAML device description the portal is built from.
//
// The file names the device identity, the HTTP listener, the storage backend
// for the persisted parameter image and the custom parameter groups. It is
// stored in platform-appropriate locations by default:
//   - Linux: $XDG_CONFIG_HOME/iotwebconf/config.yaml or $HOME/.config/iotwebconf/config.yaml
//   - macOS: $HOME/.config/iotwebconf/config.yaml
//   - Windows: %LOCALAPPDATA%\iotwebconf\config.yaml
//
// # Example
//
//	version: 1
//	thing_name: mything
//	initial_ap_password: smrtTHNG8266
//	config_version: mqt1
//	listen: {host: 0.0.0.0, port: 8080}
//	storage: {backend: file, path: eeprom.bin}
//	mdns: {enabled: true}
//	groups:
//	  - id: mqtt
//	    label: MQTT
//	    parameters:
//	      - {type: text, id: mqttServer, label: MQTT server, length: 64}
//	      - {type: number, id: mqttPort, label: MQTT port, length: 6, default: "1883", min: 1, max: 65535}
//
// Relative storage paths are resolved against the config file's directory.
// Parameter values are not stored here; they live in the storage image and
// are edited through the portal.
package config
