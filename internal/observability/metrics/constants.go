// Package metrics provides constants used across metric definitions.
package metrics

// Operation labels for note and database operations.
const (
	OpNoteCreate = "note_create"
	OpNoteList   = "note_list"
	OpNoteGet    = "note_get"
	OpNoteUpdate = "note_update"
	OpNotePatch  = "note_patch"
	OpNoteDelete = "note_delete"

	OpDbInsert = "db_insert"
	OpDbQuery  = "db_query"
	OpDbUpdate = "db_update"
	OpDbDelete = "db_delete"
	OpDbPing   = "db_ping"
)

// Status label values.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusNotFound = "not_found"
	StatusInvalid  = "invalid"

	TxCommitted  = "committed"
	TxRolledBack = "rolled_back"
	TxPanicked   = "panicked"
)

// Histogram bucket parameters.
const (
	// BucketStart100us is the starting bucket for 0.1ms histograms (0.1ms to ~400ms range).
	BucketStart100us = 0.0001
	// BucketStart1ms is the starting bucket for 1ms histograms.
	BucketStart1ms = 0.001
	// BucketStart64B is the starting bucket for response size histograms.
	BucketStart64B = 64.0

	BucketFactor2 = 2
	BucketFactor4 = 4

	BucketCount8  = 8
	BucketCount12 = 12
	BucketCount15 = 15
)
