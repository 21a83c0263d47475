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
//   - ContentSource: Fetches original and indexed content (HTTP backend,
//     local filesystem, or fixtures)
//   - ResourceStore: Materialises and releases transient byte-backed
//     resources for binary renderers
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - TextExtractor: Extracts display text from binary formats (PDF).
//     Without it, the embedded viewer falls back to the download placeholder.
//   - Watcher: Observes a local file for changes so an open preview can
//     refresh. Only the filesystem source provides one.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
