// Package config provides configuration management for todoist-bot.
//
// Configuration is read from a single directory. The default directory is
// ~/.config/todoist-bot; commands accept --config-path to use another one.
//
// # Precedence
//
// Values are resolved in this order, later sources winning:
//
//  1. GetDefaultConfig
//  2. config.yaml in the configuration directory
//  3. the TODOIST_API_TOKEN environment variable
//  4. command-line flags, applied by the caller
//
// # File Format
//
//	apiToken: 0123456789abcdef
//	delaySeconds: 5
//	markers:
//	  - scheme: serial
//	    label: next_action
//	    suffix: -n
//	  - scheme: parallel
//	    label: doable
//	    suffix: -p
//	apply:
//	  concurrency: 4
//	  timeout: 30s
//	logging:
//	  level: info
//	  format: text
//	watchConfig: true
//
// Unknown fields are rejected. Validate reports every problem at once as
// ValidationErrors.
//
// # Reloading
//
// With watchConfig enabled, Watcher observes config.yaml through fsnotify and
// publishes the reloaded marker set on a channel. The poll loop adopts it at
// the start of its next cycle.
package config
