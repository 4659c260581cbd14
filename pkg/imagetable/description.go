package imagetable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Description lists the images of one table in order. It decodes from either
// {"images": [...]} or a bare array.
type Description struct {
	Entries []Entry
}

// Entry is one element of a description: a source string or an inline image.
type Entry struct {
	// Source is an image path, an empty blank, or a reference such as
	// "$G1[3..5]", "$CSG[0]", "$RCT2:OBJDATA/NAME[1]" or "$LGX:file.dat[0..9]".
	Source string

	// Image is set instead of Source for object entries.
	Image *ImageSpec
}

// ImageSpec imports a rectangle of a shared image file.
type ImageSpec struct {
	Path         string     `json:"path"`
	X            int16      `json:"x"`
	Y            int16      `json:"y"`
	SrcX         int        `json:"srcX"`
	SrcY         int        `json:"srcY"`
	SrcWidth     int        `json:"srcWidth"`
	SrcHeight    int        `json:"srcHeight"`
	Format       string     `json:"format,omitempty"`
	Palette      string     `json:"palette,omitempty"`
	Mode         string     `json:"mode,omitempty"`
	NoDrawOnZoom bool       `json:"noDrawOnZoom,omitempty"`
	Zoom         *ImageSpec `json:"zoom,omitempty"`
}

// ParseDescription decodes a JSON image list.
func ParseDescription(data []byte) (Description, error) {
	var d Description
	if err := json.Unmarshal(data, &d); err != nil {
		return Description{}, fmt.Errorf("%w: %w", ErrDescription, err)
	}
	return d, nil
}

// ReadDescription decodes the JSON image list at path.
func ReadDescription(path string) (Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Description{}, err
	}
	return ParseDescription(data)
}

func (d *Description) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &d.Entries)
	}

	var obj struct {
		Images []Entry `json:"images"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	d.Entries = obj.Images
	return nil
}

func (d Description) MarshalJSON() ([]byte, error) {
	entries := d.Entries
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(struct {
		Images []Entry `json:"images"`
	}{entries})
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &e.Source)
	}

	var spec ImageSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return err
	}
	e.Image = &spec
	return nil
}

func (e Entry) MarshalJSON() ([]byte, error) {
	if e.Image != nil {
		return json.Marshal(e.Image)
	}
	return json.Marshal(e.Source)
}
