package rowan

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/klauspost/compress/gzip"
)

// TextureRegion describes a sub-rectangle within an atlas page.
// Value type (16 bytes), stored directly where it is used, no pointer.
type TextureRegion struct {
	Page          uint16 // atlas page index (references Atlas.Pages)
	X, Y          uint16 // top-left corner of the sub-image within the page
	Width, Height uint16
}

// regionBounds converts a region to its page's image coordinates.
func regionBounds(r TextureRegion) image.Rectangle {
	return image.Rect(int(r.X), int(r.Y), int(r.X)+int(r.Width), int(r.Y)+int(r.Height))
}

// TextureSequence is a named run of frames cut from one sheet region,
// in left-to-right, top-to-bottom order.
type TextureSequence struct {
	Name   string
	Color  string // slice color tag from the editor, "" when absent
	Frames []TextureRegion
}

// Atlas holds sheet images and the named regions and animation sequences
// cut from them. Sheets are described by Aseprite slice metadata: each
// slice names a region, its color tag groups related slices, and its
// data field carries the "columns,rows" grid that cuts the region into
// frames.
type Atlas struct {
	// Pages contains the sheet images indexed by page number.
	Pages []*ebiten.Image

	regions   map[string]TextureRegion
	sequences map[string]TextureSequence
}

// NewAtlas creates an empty atlas. Add sheets with AddSheet.
func NewAtlas() *Atlas {
	return &Atlas{
		regions:   make(map[string]TextureRegion),
		sequences: make(map[string]TextureSequence),
	}
}

// LoadAtlas parses slice metadata and associates the given sheet image.
func LoadAtlas(jsonData []byte, page *ebiten.Image) (*Atlas, error) {
	a := NewAtlas()
	if err := a.AddSheet(jsonData, page); err != nil {
		return nil, err
	}
	return a, nil
}

// LoadAtlasFile reads a slice metadata file and associates the given
// sheet image. Files ending in ".gz" are decompressed transparently.
func LoadAtlasFile(path string, page *ebiten.Image) (*Atlas, error) {
	data, err := readMaybeGzipped(path)
	if err != nil {
		return nil, err
	}
	return LoadAtlas(data, page)
}

// AddSheet appends a sheet image as a new page and registers the slices
// described by its metadata. Slice names must be unique across sheets;
// a duplicate overwrites the earlier entry.
func (a *Atlas) AddSheet(jsonData []byte, page *ebiten.Image) error {
	pageIndex := uint16(len(a.Pages))
	a.Pages = append(a.Pages, page)

	var doc struct {
		Meta struct {
			Slices []jsonSlice `json:"slices"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return fmt.Errorf("rowan: failed to parse atlas JSON: %w", err)
	}
	if len(doc.Meta.Slices) == 0 {
		return fmt.Errorf("rowan: atlas JSON has no slices")
	}

	for _, s := range doc.Meta.Slices {
		if len(s.Keys) == 0 {
			continue
		}
		cols, rows, err := parseGrid(s.Data)
		if err != nil {
			return fmt.Errorf("rowan: atlas slice %q: %w", s.Name, err)
		}
		seq := sliceSequence(s, cols, rows, pageIndex)
		a.sequences[s.Name] = seq
		a.regions[s.Name] = seq.Frames[0]
	}
	return nil
}

// Region returns the first frame registered under the given name.
// If the name doesn't exist, it logs a warning (debug stderr) and returns
// a 1×1 magenta placeholder region on page index magentaPlaceholderPage.
func (a *Atlas) Region(name string) TextureRegion {
	if r, ok := a.regions[name]; ok {
		return r
	}
	if globalDebug {
		log.Printf("rowan: atlas region %q not found, using magenta placeholder", name)
	}
	return magentaRegion()
}

// Sequence returns the frames registered under the given name, falling
// back to a single magenta placeholder frame when absent.
func (a *Atlas) Sequence(name string) TextureSequence {
	if s, ok := a.sequences[name]; ok {
		return s
	}
	if globalDebug {
		log.Printf("rowan: atlas sequence %q not found, using magenta placeholder", name)
	}
	return TextureSequence{Name: name, Frames: []TextureRegion{magentaRegion()}}
}

// SequencesTagged returns every sequence carrying the given slice color
// tag, in no particular order.
func (a *Atlas) SequencesTagged(colorTag string) []TextureSequence {
	var out []TextureSequence
	for _, s := range a.sequences {
		if s.Color == colorTag {
			out = append(out, s)
		}
	}
	return out
}

// pageImage resolves a region's page, substituting the magenta
// placeholder for out-of-range indexes.
func (a *Atlas) pageImage(r TextureRegion) *ebiten.Image {
	if int(r.Page) < len(a.Pages) {
		return a.Pages[r.Page]
	}
	return ensureMagentaImage()
}

// magenta placeholder singleton (no sync.Once; the engine is single-threaded)
var magentaImage *ebiten.Image

func ensureMagentaImage() *ebiten.Image {
	if magentaImage == nil {
		magentaImage = ebiten.NewImage(1, 1)
		magentaImage.Fill(color.RGBA{R: 255, G: 0, B: 255, A: 255})
	}
	return magentaImage
}

// magentaPlaceholderPage is a sentinel page index used for magenta placeholders.
// It's high enough to never collide with real atlas pages.
const magentaPlaceholderPage = 0xFFFF

func magentaRegion() TextureRegion {
	return TextureRegion{
		Page:   magentaPlaceholderPage,
		Width:  1,
		Height: 1,
	}
}

// --- JSON structure types ---

type jsonBounds struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSliceKey struct {
	Frame  int        `json:"frame"`
	Bounds jsonBounds `json:"bounds"`
}

type jsonSlice struct {
	Name  string         `json:"name"`
	Color string         `json:"color"`
	Data  string         `json:"data"`
	Keys  []jsonSliceKey `json:"keys"`
}

// parseGrid reads a slice's "columns,rows" data field. An empty field
// means a single-frame slice.
func parseGrid(data string) (cols, rows int, err error) {
	if data == "" {
		return 1, 1, nil
	}
	parts := strings.Split(data, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("bad grid data %q", data)
	}
	cols, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err == nil {
		rows, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	}
	if err != nil || cols < 1 || rows < 1 {
		return 0, 0, fmt.Errorf("bad grid data %q", data)
	}
	return cols, rows, nil
}

// sliceSequence cuts a slice's bounds into its grid of frames.
func sliceSequence(s jsonSlice, cols, rows int, page uint16) TextureSequence {
	b := s.Keys[0].Bounds
	fw := b.W / cols
	fh := b.H / rows

	frames := make([]TextureRegion, 0, cols*rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			frames = append(frames, TextureRegion{
				Page:   page,
				X:      uint16(b.X + col*fw),
				Y:      uint16(b.Y + row*fh),
				Width:  uint16(fw),
				Height: uint16(fh),
			})
		}
	}
	return TextureSequence{Name: s.Name, Color: s.Color, Frames: frames}
}

// readMaybeGzipped reads a file, decompressing it when the name ends in
// ".gz".
func readMaybeGzipped(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rowan: failed to open atlas file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("rowan: failed to open gzipped atlas: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("rowan: failed to read atlas file: %w", err)
	}
	return data, nil
}
