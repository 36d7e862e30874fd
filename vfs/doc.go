// Package vfs defines the read/write filesystem capability contract over
// virtual paths.
//
// A backend is any value implementing ReadFS (and optionally WriteFS)
// against some concrete storage: a directory on the local disk, an
// in-memory tree, an object store. Callers address resources by
// vpath.Path and never see where a backend actually keeps its bytes.
//
// # Qualified paths
//
// Listing a directory yields QPath values: paths bound to the backend
// that produced them, so each entry can itself be opened, type-queried,
// or re-listed without re-specifying the backend. Qualify binds a bare
// path to a backend explicitly. A QPath borrows its backend and must not
// outlive it.
//
// # Errors
//
// Every fallible operation returns an error matching ErrNotFound (the
// target does not resolve to a resource of the requested kind) or ErrIO
// (the underlying storage failed for any other reason), with the
// backend's diagnostic preserved as the cause. The derived predicates
// Exists, IsFile, and IsDir are the only place errors are swallowed:
// they collapse any failure to false.
//
// # Concurrency
//
// Backends are immutable after construction, so independent readers may
// share one instance without locking. No atomicity is guaranteed across
// operations; an existence check is advisory.
package vfs
