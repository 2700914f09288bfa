// Package reconciler runs one grouping pass over the speakers of a household.
//
// RunPass discovers speakers, classifies each one from its own zone topology,
// joins speakers to existing groups on the spot and collects the rest. The
// collected speakers are then grouped around the first of them by GroupAll.
// Survey performs the same classification without issuing any join.
package reconciler
