// Package imagetable assembles sprite tables from descriptions that mix
// imported images, slices of legacy sprite files and images of other objects.
package imagetable

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"strings"

	bits "github.com/boljen/go-bitmap"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/Faultbox/g1kit/pkg/bitmap"
	"github.com/Faultbox/g1kit/pkg/g1"
	"github.com/Faultbox/g1kit/pkg/importer"
)

// maxZoomDepth bounds how many lower-detail levels are followed per image.
const maxZoomDepth = 8

// Builder resolves descriptions into tables.
type Builder struct {
	log      *zap.Logger
	importer *importer.Importer
	base     *g1.Container
	csg      *g1.Container
	objects  ObjectRepository
	data     DataSource
	cache    *SessionCache
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger for placeholder and cache diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}

// WithBase sets the sprite file that "$G1" entries slice.
func WithBase(c *g1.Container) Option {
	return func(b *Builder) { b.base = c }
}

// WithCSG sets the sprite file that "$CSG" entries slice.
func WithCSG(c *g1.Container) Option {
	return func(b *Builder) { b.csg = c }
}

// WithObjects sets the repository "$RCT2:OBJDATA/" entries look names up in.
func WithObjects(r ObjectRepository) Option {
	return func(b *Builder) { b.objects = r }
}

// WithData sets where image paths and "$LGX:" archives are read from.
func WithData(d DataSource) Option {
	return func(b *Builder) { b.data = d }
}

// WithCache shares a session cache across builds. The caller clears it.
func WithCache(c *SessionCache) Option {
	return func(b *Builder) { b.cache = c }
}

// NewBuilder returns a builder importing images with im, or with a default
// importer when im is nil.
func NewBuilder(im *importer.Importer, opts ...Option) *Builder {
	if im == nil {
		im = importer.New(nil)
	}
	b := &Builder{log: zap.NewNop(), importer: im}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// node is one image waiting to be placed, with an optional link to the node
// holding its next zoom level.
type node struct {
	img         g1.Image
	next        int
	placeholder bool
}

// session is the state of one Build call.
type session struct {
	*Builder
	cache    *SessionCache
	nodes    []node
	bitmaps  map[string]*bitmap.Bitmap
	warnings *multierror.Error
}

// Build resolves desc into a table. Sources that cannot be resolved become
// zero-size placeholders so positions still match the description; they are
// reported through Table.Warnings and the logger, never as an error.
func (b *Builder) Build(desc Description) *Table {
	cache := b.cache
	if cache == nil {
		cache = NewSessionCache()
		defer cache.Clear()
	}
	s := &session{
		Builder: b,
		cache:   cache,
		bitmaps: make(map[string]*bitmap.Bitmap),
	}

	var primaries []int
	for i, e := range desc.Entries {
		primaries = append(primaries, s.resolve(i, e)...)
	}
	t := s.place(primaries)

	if t.count > 0 {
		b.log.Warn("image table has placeholders",
			zap.Int("placeholders", t.count),
			zap.Int("images", t.primaries))
	}
	return t
}

// resolve turns one description entry into nodes and returns their indices.
func (s *session) resolve(i int, e Entry) []int {
	if e.Image != nil {
		n, err := s.importSpec(e.Image, 0)
		if err != nil {
			return []int{s.fail(i, e.Image.Path, err)}
		}
		return []int{n}
	}

	ref, err := parseSource(e.Source)
	if err != nil {
		return []int{s.fail(i, e.Source, err)}
	}

	switch ref.kind {
	case sourceBlank:
		return []int{s.add(g1.Image{}, false)}
	case sourceFile:
		n, err := s.importFile(ref.name)
		if err != nil {
			return []int{s.fail(i, e.Source, err)}
		}
		return []int{n}
	}

	c, err := s.container(ref)
	if err != nil {
		count := max(len(ref.indices), 1)
		out := make([]int, 0, count)
		for k := 0; k < count; k++ {
			out = append(out, s.fail(i, e.Source, err))
		}
		return out
	}

	indices := ref.indices
	if indices == nil {
		indices = make([]int, c.Len())
		for j := range indices {
			indices[j] = j
		}
	}
	out := make([]int, 0, len(indices))
	for _, idx := range indices {
		n, err := s.fetch(c, idx, 0)
		if err != nil {
			n = s.fail(i, fmt.Sprintf("%s#%d", e.Source, idx), err)
		}
		out = append(out, n)
	}
	return out
}

// container returns the sprite file a reference slices.
func (s *session) container(ref sourceRef) (*g1.Container, error) {
	switch ref.kind {
	case sourceBase:
		if s.base == nil {
			return nil, fmt.Errorf("no base sprite file loaded")
		}
		return s.base, nil
	case sourceCSG:
		if s.csg == nil {
			return nil, fmt.Errorf("no CSG sprite file loaded")
		}
		return s.csg, nil
	case sourceObject:
		if s.objects == nil {
			return nil, fmt.Errorf("no object repository")
		}
		name := strings.ToUpper(ref.name)
		return s.cached("object:"+name, func() (*g1.Container, error) {
			return s.objects.ObjectImages(name)
		})
	case sourceArchive:
		if s.data == nil {
			return nil, fmt.Errorf("no data source for %q", ref.name)
		}
		return s.cached("archive:"+ref.name, func() (*g1.Container, error) {
			raw, err := s.data.ReadFile(ref.name)
			if err != nil {
				return nil, err
			}
			return g1.Read(bytes.NewReader(raw), g1.WithLogger(s.log))
		})
	}
	return nil, fmt.Errorf("unknown source kind %d", ref.kind)
}

func (s *session) cached(key string, load func() (*g1.Container, error)) (*g1.Container, error) {
	c, hit, err := s.cache.Get(key, load)
	if err != nil {
		return nil, err
	}
	s.log.Debug("session cache", zap.String("source", key), zap.Bool("hit", hit))
	return c, nil
}

// fetch copies element idx of c and, following zoom links, the lower-detail
// images it points at.
func (s *session) fetch(c *g1.Container, idx, depth int) (int, error) {
	img, err := c.Image(idx)
	if err != nil {
		return 0, err
	}

	zi, hasZoom := img.Element.ZoomIndex(idx)
	img.Element.Flags &^= g1.FlagHasZoomSprite
	img.Element.ZoomedOffset = 0
	n := s.add(img, false)

	if !hasZoom {
		return n, nil
	}
	if depth+1 >= maxZoomDepth || zi < 0 || zi >= c.Len() {
		s.log.Debug("dropping zoom link", zap.Int("index", idx), zap.Int("zoom", zi))
		return n, nil
	}
	child, err := s.fetch(c, zi, depth+1)
	if err != nil {
		s.log.Debug("dropping zoom link", zap.Int("index", idx), zap.Error(err))
		return n, nil
	}
	s.nodes[n].next = child
	return n, nil
}

func (s *session) decode(path string) (*bitmap.Bitmap, error) {
	if bm, ok := s.bitmaps[path]; ok {
		return bm, nil
	}
	if s.data == nil {
		return nil, fmt.Errorf("no data source for %q", path)
	}
	raw, err := s.data.ReadFile(path)
	if err != nil {
		return nil, err
	}
	bm, _, err := bitmap.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	s.bitmaps[path] = bm
	return bm, nil
}

func (s *session) importFile(path string) (int, error) {
	bm, err := s.decode(path)
	if err != nil {
		return 0, err
	}
	img, err := s.importer.Import(bm, importer.Options{Flags: importer.FlagRLE})
	if err != nil {
		return 0, err
	}
	return s.add(img, false), nil
}

func (s *session) importSpec(spec *ImageSpec, depth int) (int, error) {
	opts, err := spec.options()
	if err != nil {
		return 0, err
	}
	bm, err := s.decode(spec.Path)
	if err != nil {
		return 0, err
	}
	img, err := s.importer.Import(bm, opts)
	if err != nil {
		return 0, err
	}
	n := s.add(img, false)

	if spec.Zoom != nil && depth+1 < maxZoomDepth {
		child, err := s.importSpec(spec.Zoom, depth+1)
		if err != nil {
			s.warn(fmt.Errorf("zoom image of %q: %w", spec.Path, err))
			return n, nil
		}
		s.nodes[n].next = child
	}
	return n, nil
}

func (spec *ImageSpec) options() (importer.Options, error) {
	o := importer.Options{
		X:         spec.X,
		Y:         spec.Y,
		SrcOffset: image.Pt(spec.SrcX, spec.SrcY),
		SrcSize:   image.Pt(spec.SrcWidth, spec.SrcHeight),
		Flags:     importer.FlagRLE,
	}
	if spec.Format == "raw" {
		o.Flags = 0
	}
	if spec.Palette == "keep" {
		o.Palette = importer.KeepIndices
	}
	if spec.NoDrawOnZoom {
		o.Flags |= importer.FlagNoDrawOnZoom
	}
	mode, err := importer.ParseMode(spec.Mode)
	if err != nil {
		return o, err
	}
	o.Mode = mode
	return o, nil
}

func (s *session) add(img g1.Image, placeholder bool) int {
	s.nodes = append(s.nodes, node{img: img, next: -1, placeholder: placeholder})
	return len(s.nodes) - 1
}

// fail records why entry i could not be resolved and returns a placeholder.
func (s *session) fail(i int, source string, cause error) int {
	err := fmt.Errorf("%w: entry %d %q: %w", ErrUnresolvedSource, i, source, cause)
	s.warn(err)
	return s.add(g1.Image{}, true)
}

func (s *session) warn(err error) {
	s.warnings = multierror.Append(s.warnings, err)
	s.log.Warn("image table entry", zap.Error(err))
}

// place appends the primary images, then every zoom chain after them, and
// links each image to its zoom sprite. A chain whose next link does not fit
// the 16-bit zoom offset is cut there.
func (s *session) place(primaries []int) *Table {
	c := g1.New()
	var placeholders []int
	for _, n := range primaries {
		idx, err := c.AppendImage(s.nodes[n].img)
		if err != nil {
			s.warn(fmt.Errorf("%w: %w", ErrUnresolvedSource, err))
			idx, _ = c.AppendImage(g1.Image{})
			s.nodes[n].placeholder = true
		}
		if s.nodes[n].placeholder {
			placeholders = append(placeholders, idx)
		}
	}

	for i, n := range primaries {
		from := i
		for next := s.nodes[n].next; next >= 0; next = s.nodes[next].next {
			to := c.Len()
			if err := zoomDistance(from, to); err != nil {
				s.warn(err)
				break
			}
			if _, err := c.AppendImage(s.nodes[next].img); err != nil {
				s.warn(fmt.Errorf("zoom image of entry %d: %w", i, err))
				break
			}
			_ = c.SetZoom(from, int16(from-to))
			from = to
		}
	}

	t := &Table{
		images:       c,
		primaries:    len(primaries),
		placeholders: bits.New(c.Len()),
		count:        len(placeholders),
		warnings:     s.warnings,
	}
	for _, idx := range placeholders {
		t.placeholders.Set(idx, true)
	}
	return t
}

// zoomDistance checks that element from can refer to element to through the
// 16-bit zoom offset.
func zoomDistance(from, to int) error {
	if d := from - to; d < math.MinInt16 || d > math.MaxInt16 {
		return fmt.Errorf("%w: zoom sprite %d is %d elements after %d", ErrZoomDistance, to, -d, from)
	}
	return nil
}
