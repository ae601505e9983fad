// Package version reports the build of the running componentkit binary.
//
// Values are set at compile time via -ldflags and fall back to the module
// build info embedded by the Go toolchain:
//
//	go build -ldflags "-X github.com/kbukum/componentkit/version.Version=1.2.0" ./cmd/componentd
package version
