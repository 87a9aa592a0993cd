// Package timeouts centralizes the context deadlines handlers apply to
// database work, so a slow query can't pin a request indefinitely.
package timeouts

import "time"

const (
	// Ping is for health checks and connectivity probes.
	Ping = 2 * time.Second
	// Short is for single-document reads and lookups.
	Short = 5 * time.Second
	// Medium is for list queries and simple writes.
	Medium = 10 * time.Second
	// Long is for writes touching multiple collections.
	Long = 30 * time.Second
	// Batch is for bulk operations: database export and import.
	Batch = 60 * time.Second
)
