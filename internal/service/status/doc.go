// Package status prints a dry-run survey of the household: what the next
// pass would decide for every speaker, without sending any join.
package status
