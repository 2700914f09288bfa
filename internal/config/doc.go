// Package config defines the YAML settings of speaker-groupd and the bridge
// simulator: bridge address, pass interval, per-call time budgets, metrics
// endpoint and log level. Unset durations fall back to the documented defaults.
package config
