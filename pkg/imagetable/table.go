package imagetable

import (
	bits "github.com/boljen/go-bitmap"
	"github.com/hashicorp/go-multierror"

	"github.com/Faultbox/g1kit/pkg/g1"
)

// Table is a built image table: a container whose first entries line up with
// the description, followed by lower-detail zoom sprites.
type Table struct {
	images       *g1.Container
	primaries    int
	placeholders bits.Bitmap
	count        int
	warnings     *multierror.Error
}

// Images returns the underlying container.
func (t *Table) Images() *g1.Container {
	return t.images
}

// Len returns the total number of elements, zoom sprites included.
func (t *Table) Len() int {
	return t.images.Len()
}

// Primaries returns how many elements correspond to description entries.
func (t *Table) Primaries() int {
	return t.primaries
}

// IsPlaceholder reports whether element i stands in for a source that could
// not be resolved.
func (t *Table) IsPlaceholder(i int) bool {
	if i < 0 || i >= t.placeholders.Len() {
		return false
	}
	return t.placeholders.Get(i)
}

// Placeholders returns the number of failure placeholders.
func (t *Table) Placeholders() int {
	return t.count
}

// Warnings returns every resolution problem met while building, or nil.
func (t *Table) Warnings() error {
	return t.warnings.ErrorOrNil()
}
