// Package defaultlogger implements the logger component the manager
// registers under the name "logger" before initialization.
//
// Levels, from quiet to verbose: silent, error, warn, info, verbose, debug,
// silly. The level is changed through the component's Config capability:
//
//	m.Config("logger", "set-level", "info")
//	m.Config("logger", "set-level", 3)
//	lvl, _ := m.Config("logger", "get-level")
//
// Lines look like "source: !!! ERROR: message".
package defaultlogger
