// Package factory maps package references to constructors.
//
// Go cannot load code at runtime, so every component a config file may name
// is compiled in and registered here, usually from an init function:
//
//	func init() {
//	    factory.Register("github.com/acme/cache", cache.New)
//	}
//
// Build calls the constructor with whichever of context and Spec it accepts.
package factory
