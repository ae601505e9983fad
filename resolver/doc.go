// Package resolver turns the package field of a component spec into the
// component's registered name.
//
// Registry names, scoped names and git locations are used as they are.
// Tarballs resolve to their base name without extension, and local
// directories resolve to the name declared in their manifest
// (component.yaml, component.yml or package.json).
package resolver
