package config

import (
	"os"

	"github.com/joho/godotenv"
)

// FileSystem is what the loader needs from the disk; tests swap it out.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
	Getwd() (string, error)
}

// OSFileSystem is the FileSystem backed by the os package and godotenv.
type OSFileSystem struct{}

func (OSFileSystem) Exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// LoadEnv sets the variables in a .env file without overriding ones already
// present in the environment.
func (OSFileSystem) LoadEnv(p string) error {
	return godotenv.Load(p)
}

func (OSFileSystem) Getwd() (string, error) {
	return os.Getwd()
}

// Files are the config and .env files a load will read.
type Files struct {
	ConfigFile string
	EnvFile    string
}

// Locator finds a service's files when they are not given explicitly.
type Locator struct {
	FileSystem FileSystem
}

// Locate keeps explicit paths from lc and searches for the rest.
func (l *Locator) Locate(serviceName string, lc LoaderConfig) Files {
	files := Files{ConfigFile: lc.ConfigFile, EnvFile: lc.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = l.first(configCandidates(serviceName))
	}
	if files.EnvFile == "" {
		files.EnvFile = l.first(envCandidates(serviceName))
	}
	return files
}

func (l *Locator) first(candidates []string) string {
	for _, c := range candidates {
		if l.FileSystem.Exists(c) {
			return c
		}
	}
	return ""
}

// configCandidates lists config file locations, most specific first.
func configCandidates(service string) []string {
	return []string{
		"./" + service + ".yml",
		"./" + service + ".yaml",
		"./config/" + service + ".yml",
		"./cmd/" + service + "/config.yml",
		"../cmd/" + service + "/config.yml",
		"./config/config.yml",
		"../config/config.yml",
		"./config.yml",
	}
}

// envCandidates prefers .env.<service> over .env, then the service's cmd
// directory over config/ over the working directory and its parent.
func envCandidates(service string) []string {
	dirs := []string{
		"./cmd/" + service, "../cmd/" + service,
		"./config", "../config",
		".", "..",
	}
	var out []string
	for _, name := range []string{".env." + service, ".env"} {
		for _, dir := range dirs {
			out = append(out, dir+"/"+name)
		}
		out = append(out, name)
	}
	return out
}
