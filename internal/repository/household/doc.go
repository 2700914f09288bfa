// Package household stores the layout of a simulated speaker household.
//
// A Layout lists speakers (name and unique identifier) and the groups they
// start in. The FileRepository reads and writes it as YAML; the bridge
// simulator builds its in-memory household from it.
package household
