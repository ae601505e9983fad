// Package graph computes initialization order for named components.
//
// Order walks the graph depth first with three colours, using an explicit
// stack so very deep dependency chains do not grow the goroutine stack. A
// back edge to an in-progress node is reported as a CycleError carrying the
// closed path; a dependency naming no node is reported as a
// MissingDependencyError.
//
//	g := graph.New()
//	g.AddNode("server", "store", "logger")
//	g.AddNode("store", "logger")
//	g.AddNode("logger")
//	order, err := g.Order() // [logger store server]
package graph
