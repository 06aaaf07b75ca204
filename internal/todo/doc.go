// Package todo holds the task board: its Store, the persisted slot, and the
// view filter.
//
// The persisted slot is a single key in a kv.Storage whose value is a JSON
// array of tasks:
//
//	[
//	  {"id": 1714521600000, "text": "Buy milk", "date": "2024-05-01", "completed": false},
//	  {"id": 1714521600001, "text": "Pay bills", "date": "2024-05-02", "completed": true}
//	]
//
// # Store
//
// Store is the only writer of the slot. Every accepted mutation rewrites the
// whole array (last writer wins) and then notifies subscribers, in that order.
// Rejected adds and operations on unknown ids change nothing and write
// nothing.
//
// # Loading
//
// At startup the slot is read once. An absent slot yields an empty board. A
// slot that fails to parse, fails the embedded JSON Schema, or repeats an id
// also yields an empty board; the cause is logged but never surfaced as a
// failure.
//
// # Filter
//
// Visible projects the sequence onto one of three modes:
//
//   - "all": every task
//   - "active": tasks not yet completed
//   - "completed": completed tasks
//
// Relative order is always preserved.
package todo
