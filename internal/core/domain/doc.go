// Package domain defines the core entities for libdoc.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: The raw JSON export of a library
//   - StructureNode: One entry of the declared project structure
//   - Declaration: A type, function block, interface or global list
//   - CleanRules: The include/exclude/filter/preserve rule set
//   - ParticleInfo: A read-only view of a documentation particle
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
