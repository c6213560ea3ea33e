package repositorygen

import (
	"path/filepath"
	"runtime"
)

// Generated file names inside each repository package.
const (
	BaseFile     = "base_gen.go"
	ScaffoldFile = "repository.go"
)

// Config holds configuration for repository generation
type Config struct {
	Module  string // e.g., "github.com/jrazmi/repogen"
	Output  string // Base output directory, relative to the module root
	Dialect string // mysql, postgres or sqlite
	Workers int    // Tables generated in parallel; <= 0 uses GOMAXPROCS
	Force   bool   // Rewrite base_gen.go even when its content is unchanged
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// SourceUnit is one generated Go file.
type SourceUnit struct {
	Table      string
	Package    string // e.g., "characterbindrepo"
	ImportPath string // e.g., "github.com/jrazmi/repogen/core/repositories/characterbindrepo"
	Dir        string // Directory the file belongs in
	Filename   string
	Source     []byte
}

// Path returns the file path of the unit.
func (u SourceUnit) Path() string {
	return filepath.Join(u.Dir, u.Filename)
}

// Result reports what the batch writer did for one table.
type Result struct {
	Table           string
	Package         string
	BaseFile        string // Path to base_gen.go
	ScaffoldFile    string // Path to repository.go
	BaseChanged     bool   // base_gen.go was written
	ScaffoldCreated bool   // repository.go did not exist and was written
	Err             error
}
