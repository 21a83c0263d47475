// Package domain defines the core business entities for peek.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ContentCategory: The kind of file being previewed, derived from
//     the file name's extension
//   - PreviewRequest: An immutable description of one preview
//   - Result: The terminal outcome of a single content fetch
//   - Instruction: What the renderer should display, chosen by a pure
//     decision table over category and fetch state
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
