// Package parkobj reads .parkobj object archives: zip files holding an
// object.json manifest next to the images it references.
package parkobj

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/Faultbox/g1kit/pkg/imagetable"
)

// ManifestName is the archive member describing the object.
const ManifestName = "object.json"

var ErrNoManifest = errors.New("archive has no object.json")

// Archive is an opened object archive.
type Archive struct {
	closer io.Closer
	files  map[string]*zip.File
}

// Manifest is the part of object.json this package understands.
type Manifest struct {
	ID         string                 `json:"id"`
	ObjectType string                 `json:"objectType"`
	Images     imagetable.Description `json:"images"`
}

// Open opens the archive at path.
func Open(path string) (*Archive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	a := newArchive(&rc.Reader)
	a.closer = rc
	return a, nil
}

// NewReader reads an archive of size bytes from r.
func NewReader(r io.ReaderAt, size int64) (*Archive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}
	return newArchive(zr), nil
}

func newArchive(zr *zip.Reader) *Archive {
	a := &Archive{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		a.files[normalizePath(f.Name)] = f
	}
	return a
}

// Close closes the archive.
func (a *Archive) Close() error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

// List returns all member paths, sorted.
func (a *Archive) List() []string {
	result := make([]string, 0, len(a.files))
	for p := range a.files {
		result = append(result, p)
	}
	sort.Strings(result)
	return result
}

// Contains checks if a member exists.
func (a *Archive) Contains(name string) bool {
	_, ok := a.files[normalizePath(name)]
	return ok
}

// ReadFile returns the contents of a member.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	f, ok := a.files[normalizePath(name)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return data, nil
}

// Manifest decodes object.json.
func (a *Archive) Manifest() (Manifest, error) {
	if !a.Contains(ManifestName) {
		return Manifest{}, ErrNoManifest
	}
	data, err := a.ReadFile(ManifestName)
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("%s: %w", ManifestName, err)
	}
	return m, nil
}

func normalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	return strings.ToLower(p)
}
