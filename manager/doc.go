// Package manager implements the component manager: a type registry, a
// component registry gated by type validators, dependency-ordered
// initialization, best-effort reverse-order shutdown, and configuration
// dispatch.
//
//	m := manager.New()
//	m.RegisterType("store", func(c any) bool { _, ok := c.(*Store); return ok })
//	m.Register("db", "store", store)
//	m.AddDependency("db", "logger")
//	if err := m.Init(ctx); err != nil { ... }
//	defer m.Shutdown(ctx)
//	m.Config("logger", "set-level", "info")
//
// Init registers the built-in "logger" component unless one is already
// registered, so every component may depend on it.
package manager
