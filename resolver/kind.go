package resolver

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Kind classifies a package reference.
type Kind string

const (
	KindRegistry  Kind = "registry"
	KindScoped    Kind = "scoped"
	KindGit       Kind = "git"
	KindTarball   Kind = "tarball"
	KindDirectory Kind = "directory"
)

var tarballExts = []string{".tar.gz", ".tgz", ".tar"}

// host:path, as in github.com:org/repo.git
var scpLike = regexp.MustCompile(`^([\w.-]+@)?[\w.-]+\.[\w-]+:[\w.-]+/`)

// Classify reports what kind of reference pkg is. It only looks at the text;
// whether a directory exists is checked by Resolve.
func Classify(pkg string) Kind {
	switch {
	case isTarball(pkg):
		return KindTarball
	case isGit(pkg):
		return KindGit
	case strings.HasPrefix(pkg, "@"):
		return KindScoped
	case isLocalPath(pkg):
		return KindDirectory
	default:
		return KindRegistry
	}
}

func isTarball(pkg string) bool {
	p := strings.ToLower(tarballPath(pkg))
	for _, ext := range tarballExts {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

// tarballPath strips scheme, host and query from URLs.
func tarballPath(pkg string) string {
	if u, err := url.Parse(pkg); err == nil && (u.Scheme == "http" || u.Scheme == "https" || u.Scheme == "file") {
		return u.Path
	}
	return pkg
}

func isGit(pkg string) bool {
	switch {
	case strings.HasPrefix(pkg, "git@"),
		strings.HasPrefix(pkg, "git://"),
		strings.HasPrefix(pkg, "git+"),
		strings.HasPrefix(pkg, "ssh://"),
		strings.HasPrefix(pkg, "http://"),
		strings.HasPrefix(pkg, "https://"):
		return true
	case strings.HasSuffix(pkg, ".git"):
		return true
	}
	return scpLike.MatchString(pkg)
}

func isLocalPath(pkg string) bool {
	return strings.HasPrefix(pkg, ".") ||
		strings.HasPrefix(pkg, "/") ||
		strings.HasPrefix(pkg, "~") ||
		strings.Contains(pkg, "/")
}

// tarballName returns the base name of a tarball without its extension.
func tarballName(pkg string) string {
	base := path.Base(tarballPath(pkg))
	lower := strings.ToLower(base)
	for _, ext := range tarballExts {
		if strings.HasSuffix(lower, ext) {
			return base[:len(base)-len(ext)]
		}
	}
	return base
}
