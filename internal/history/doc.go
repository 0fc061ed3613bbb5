// Package history persists a record of every conversion in a local SQLite
// database under paths.state_dir.
//
// Each run stores the source name and digest, the action and its outcome,
// sizes before and after, and the number of encoder attempts. The CLI reads
// it back for the history command; nothing in the conversion path depends on
// it, so recording failures are logged and otherwise ignored by callers.
package history
