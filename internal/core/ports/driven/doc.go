// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - UploadClient: Transfers one file into the backend corpus
//   - SnapshotLoader: Fetches the backend's corpus listing
//   - AnswerClient: Question answering and speech-to-text
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - UploadNotifier: Observer for settled uploads and refusals. A nil
//     notifier drops events.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
