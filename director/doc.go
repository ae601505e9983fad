// Package director runs a componentkit process from configuration.
//
// A director loads a config file (with its include_files), builds every
// listed component through the factory registry, registers it with a fresh
// manager under the built-in types generic, configurable and lifecycle, and
// initializes the dependency graph. After Init it applies log_level to the
// default logger and each component's settings through Config, in sorted key
// order. Stop shuts the components down in reverse order.
//
//	components:
//	  - name: cache
//	    package: componentkit/store
//	    type: configurable
//	    dependencies: [logger]
//	    settings:
//	      ttl: 30s
//
// Handle keeps at most one director running per process; the package-level
// Start and Stop use a shared Handle.
package director
