// Package config provides YAML configuration for the hmilink tools.
//
// Two kinds of configuration live here:
//
//   - The host CLI's user configuration (transport, device path, reply
//     timeout), stored in an OS-appropriate directory (e.g.,
//     $HOME/.config/hmilink/config.yaml on Linux).
//
//   - Device model files for the simulator: a YAML description of the
//     panel's pages and widgets, validated against the same bounds the
//     device firmware enforces (8 pages, 64 widgets, 64-byte texts).
//
// # Device Model Example
//
//	name: demo-panel
//	serial: SIM000001
//	pages:
//	  - name: Home
//	    widgets:
//	      - {name: title, kind: label, text: "hmilink demo"}
//	      - {name: ok, kind: button, text: "OK"}
//	      - {name: brightness, kind: slider, value: 50, min: 0, max: 100}
//
// Widgets are addressed on the wire by their global index, assigned in
// declaration order across all pages.
package config
