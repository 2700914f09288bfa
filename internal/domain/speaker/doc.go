// Package speaker contains the core domain types of a grouping pass and the
// pure classifier that decides what each speaker should do.
//
// A Topology is the zone group state as seen from one speaker. Only groups
// with two or more members count as real groups; a singleton group means the
// speaker plays alone. Classify turns one speaker's view of the topology into
// a Disposition without touching the network.
package speaker
