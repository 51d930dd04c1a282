// pkg/transport/httpx/projects.go
package httpx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/3liz/qjazz/pkg/server"
)

// ProjectResolver maps a request's MAP parameter (or the configured
// default) to a loaded project reference.
type ProjectResolver interface {
	Resolve(name string) (*server.Project, error)
}

// DirResolver resolves project names against a root directory of .qgs
// project files. Names may not escape the root.
type DirResolver struct {
	Root string
}

func (d DirResolver) Resolve(name string) (*server.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("no project name")
	}
	clean := filepath.Clean(name)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("invalid project name %q", name)
	}
	if filepath.Ext(clean) == "" {
		clean += ".qgs"
	}
	path := filepath.Join(d.Root, clean)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("project %q: %w", name, err)
	}
	return &server.Project{Path: path, Name: name}, nil
}
