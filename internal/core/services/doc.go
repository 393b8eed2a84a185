// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The library service builds content models on demand; the clean service
// runs and watches the cleaner on content files.
package services
