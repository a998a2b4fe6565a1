// Package engine is the catalog browsing engine shared by every listing view.
//
// A View combines a FacetFilter (committed selection plus hover preview),
// a Paginator (fixed-size pages with wraparound) and a Rotator (timed image
// cycling for the item under the pointer). Project turns their state into the
// list of entries to display. Timers go through the Scheduler interface so
// tests can drive them with a ManualScheduler.
package engine
