// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The ingestion service owns the upload registry: an ordered,
// identity-keyed record store whose entries only ever move forward
// through the upload lifecycle. Presentation layers observe it through
// snapshots and notifications, never by sharing mutable state.
package services
