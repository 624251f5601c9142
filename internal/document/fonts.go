package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/go-fonts/liberation/liberationsansbold"
	"github.com/go-fonts/liberation/liberationsansbolditalic"
	"github.com/go-fonts/liberation/liberationsansitalic"
	"github.com/go-fonts/liberation/liberationsansregular"
	"golang.org/x/image/font/sfnt"
)

var (
	// ErrFontMissing is returned when a configured font file does not exist.
	ErrFontMissing = errors.New("font file not found")
	// ErrFontInvalid is returned when a font file is not TrueType.
	ErrFontInvalid = errors.New("invalid TrueType font")
)

// Face is one of the four styles of a family.
type Face string

const (
	Regular    Face = "regular"
	Bold       Face = "bold"
	Italic     Face = "italic"
	BoldItalic Face = "bold_italic"
)

// Faces lists the faces in registration order.
func Faces() []Face { return []Face{Regular, Bold, Italic, BoldItalic} }

// fpdfStyle maps a face to the fpdf style string.
func (f Face) fpdfStyle() string {
	switch f {
	case Bold:
		return "B"
	case Italic:
		return "I"
	case BoldItalic:
		return "BI"
	}
	return ""
}

// FontFiles are optional TrueType paths; an empty path selects the
// embedded Liberation Sans face.
type FontFiles struct {
	Regular    string
	Bold       string
	Italic     string
	BoldItalic string
}

func (ff FontFiles) path(f Face) string {
	switch f {
	case Bold:
		return ff.Bold
	case Italic:
		return ff.Italic
	case BoldItalic:
		return ff.BoldItalic
	}
	return ff.Regular
}

// FontSet is a validated family of four faces.
type FontSet struct {
	Family  string
	data    map[Face][]byte
	sources map[Face]string
	parsed  map[Face]*sfnt.Font
}

const embeddedSource = "embedded Liberation Sans"

var embeddedFaces = map[Face][]byte{
	Regular:    liberationsansregular.TTF,
	Bold:       liberationsansbold.TTF,
	Italic:     liberationsansitalic.TTF,
	BoldItalic: liberationsansbolditalic.TTF,
}

// EmbeddedFonts returns the built-in Liberation Sans family.
func EmbeddedFonts(family string) FontSet {
	fs, err := LoadFonts(family, FontFiles{})
	if err != nil {
		panic(fmt.Sprintf("embedded fonts: %v", err))
	}
	return fs
}

// LoadFonts reads and validates the configured faces. A configured path
// that is missing fails with ErrFontMissing; one that does not parse as a
// TrueType font fails with ErrFontInvalid.
func LoadFonts(family string, files FontFiles) (FontSet, error) {
	if family == "" {
		family = "Body"
	}
	fs := FontSet{
		Family:  family,
		data:    make(map[Face][]byte, 4),
		sources: make(map[Face]string, 4),
		parsed:  make(map[Face]*sfnt.Font, 4),
	}

	for _, face := range Faces() {
		path := files.path(face)
		b, src := embeddedFaces[face], embeddedSource
		if path != "" {
			raw, err := os.ReadFile(path)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return FontSet{}, fmt.Errorf("%w: %s face %s", ErrFontMissing, face, path)
				}
				return FontSet{}, fmt.Errorf("reading %s face %s: %w", face, path, err)
			}
			b, src = raw, path
		}

		f, err := parseTrueType(b)
		if err != nil {
			return FontSet{}, fmt.Errorf("%w: %s face %s: %v", ErrFontInvalid, face, src, err)
		}
		fs.data[face] = b
		fs.sources[face] = src
		fs.parsed[face] = f
	}
	return fs, nil
}

var (
	trueTypeMagic = []byte{0x00, 0x01, 0x00, 0x00}
	appleMagic    = []byte("true")
	cffMagic      = []byte("OTTO")
)

// parseTrueType accepts glyf-outline fonts only; the PDF writer cannot
// embed CFF outlines.
func parseTrueType(b []byte) (*sfnt.Font, error) {
	if len(b) < 4 {
		return nil, errors.New("file too short")
	}
	switch {
	case bytes.Equal(b[:4], trueTypeMagic), bytes.Equal(b[:4], appleMagic):
	case bytes.Equal(b[:4], cffMagic):
		return nil, errors.New("CFF outlines are not supported")
	default:
		return nil, errors.New("not a TrueType file")
	}

	f, err := sfnt.Parse(b)
	if err != nil {
		return nil, err
	}
	if f.NumGlyphs() == 0 {
		return nil, errors.New("font has no glyphs")
	}
	return f, nil
}

// Bytes returns the raw font program for face.
func (fs FontSet) Bytes(face Face) []byte { return fs.data[face] }

// Source describes where face was loaded from.
func (fs FontSet) Source(face Face) string { return fs.sources[face] }

// Missing returns the runes of s that the regular face has no glyph for,
// each reported once.
func (fs FontSet) Missing(s string) []rune {
	f := fs.parsed[Regular]
	if f == nil {
		return nil
	}
	var buf sfnt.Buffer
	seen := map[rune]bool{}
	var out []rune
	for _, r := range s {
		if r < 0x80 || seen[r] {
			continue
		}
		seen[r] = true
		if gi, err := f.GlyphIndex(&buf, r); err != nil || gi == 0 {
			out = append(out, r)
		}
	}
	return out
}
