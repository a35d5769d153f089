package domain

// HookContext carries the typed fields of an operation plus an open
// string-keyed bag so hook chains can attach metadata without a schema.
type HookContext struct {
	Operation string
	SessionID int64
	Operator  string
	Extra     map[string]string
}

// Result is the generic key/value payload an operation hands back to the
// caller; after hooks may reshape it before it crosses the boundary.
type Result map[string]any
