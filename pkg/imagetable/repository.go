package imagetable

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/g1kit/pkg/g1"
)

// ObjectRepository looks up the image table of a loaded object by name.
type ObjectRepository interface {
	ObjectImages(name string) (*g1.Container, error)
}

// DataSource reads files that image table entries refer to by path.
type DataSource interface {
	ReadFile(name string) ([]byte, error)
}

// DirRepository serves object image tables stored as <root>/<name>.g1. Names
// match case-insensitively.
type DirRepository struct {
	Root string
}

// ObjectImages opens the image table of the named object.
func (r DirRepository) ObjectImages(name string) (*g1.Container, error) {
	entries, err := os.ReadDir(r.Root)
	if err != nil {
		return nil, err
	}

	want := strings.ToLower(name) + ".g1"
	for _, e := range entries {
		if e.IsDir() || strings.ToLower(e.Name()) != want {
			continue
		}
		return g1.Open(filepath.Join(r.Root, e.Name()))
	}
	return nil, fmt.Errorf("object %q: %w", name, fs.ErrNotExist)
}
