// Package common holds helpers shared by the daemon and the status command.
//
// It finds and dials the speaker bridge (configured address or mDNS) and
// detects the current "user@host" actor reported with every bridge call.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
