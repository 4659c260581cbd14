package imagetable

import "errors"

var (
	ErrUnresolvedSource = errors.New("unresolved image source")
	ErrMalformedRange   = errors.New("malformed image range")
	ErrDescription      = errors.New("invalid image table description")
	ErrZoomDistance     = errors.New("zoom sprite too far from its image")
)
