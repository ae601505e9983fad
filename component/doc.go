// Package component defines the capability contract of a managed component.
//
// A component is any value. It opts into lifecycle management by implementing
// a subset of the capability interfaces; an absent capability is skipped.
//
// # Interfaces
//
//   - Initializer: init hook, called once in dependency order
//   - Shutdowner: teardown hook, called once in reverse order
//   - Configurable: runtime configuration by feature name
//   - Dependent: declared dependencies on other components by name
//   - HealthChecker, Describable: optional introspection
//
// Base carries a deduplicated dependency list and Hooks adapts plain functions.
package component
