package loaders

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/spaghettifunk/gameengine/engine/core"
	emath "github.com/spaghettifunk/gameengine/engine/math"
	"github.com/spaghettifunk/gameengine/engine/resources"
)

const (
	minAtlasSize = 64
	maxAtlasSize = 4096
	glyphPadding = 1
)

// DefaultCharset is printable ASCII.
const DefaultCharset = " !\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~"

var fontFamilies = map[string][]byte{
	"go":         goregular.TTF,
	"go-regular": goregular.TTF,
	"go-bold":    gobold.TTF,
	"go-italic":  goitalic.TTF,
	"go-medium":  gomedium.TTF,
	"go-mono":    gomono.TTF,
}

// FontParams rasterises a font family into an atlas. It reads no files.
type FontParams struct {
	resources.Files
	Family string
	// GlyphHeight is the font size in pixels.
	GlyphHeight int
	Charset     string
}

func NewFontParams(family string, glyphHeight int, charset string) *FontParams {
	if charset == "" {
		charset = DefaultCharset
	}
	return &FontParams{
		Family:      family,
		GlyphHeight: glyphHeight,
		Charset:     charset,
	}
}

// FontAtlasLoader produces a TextureAtlas with one region per character,
// named by the character itself.
type FontAtlasLoader struct{}

func (fl *FontAtlasLoader) Load(_ []string, params *FontParams) (*TextureAtlas, error) {
	ttf, ok := fontFamilies[strings.ToLower(params.Family)]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownFamily, params.Family)
	}
	if params.GlyphHeight <= 0 {
		return nil, ErrGlyphHeight
	}
	chars := uniqueRunes(params.Charset)
	if len(chars) == 0 {
		return nil, ErrBadCharset
	}

	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(params.GlyphHeight),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	defer face.Close()

	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	cellHeight := ascent + metrics.Descent.Ceil() + glyphPadding

	// Measure the glyphs, then pick the smallest power of two width that fits
	// the total area roughly square.
	widths := make([]int, len(chars))
	area, widest := 0, 0
	for i, c := range chars {
		advance, ok := face.GlyphAdvance(c)
		if !ok {
			core.LogWarn("font '%s' has no glyph for %q", params.Family, c)
		}
		widths[i] = advance.Ceil() + glyphPadding
		area += widths[i] * cellHeight
		widest = max(widest, widths[i])
	}
	atlasWidth := emath.Clamp(emath.NextPowerOfTwo(max(isqrt(area)+1, widest)), minAtlasSize, maxAtlasSize)

	regions := make(map[string]image.Rectangle, len(chars))
	names := make([]string, 0, len(chars))
	x, y := 0, 0
	for i, c := range chars {
		if x+widths[i] > atlasWidth {
			x = 0
			y += cellHeight
		}
		regions[string(c)] = image.Rect(x, y, x+widths[i]-glyphPadding, y+cellHeight-glyphPadding)
		names = append(names, string(c))
		x += widths[i]
	}
	atlasHeight := emath.NextPowerOfTwo(y + cellHeight)
	if atlasHeight > maxAtlasSize {
		return nil, fmt.Errorf("font atlas for '%s' at %dpx needs %dx%d pixels", params.Family, params.GlyphHeight, atlasWidth, atlasHeight)
	}

	pixels := image.NewRGBA(image.Rect(0, 0, atlasWidth, atlasHeight))
	d := &font.Drawer{
		Dst:  pixels,
		Src:  image.White,
		Face: face,
	}
	for _, c := range chars {
		r := regions[string(c)]
		d.Dot = fixed.P(r.Min.X, r.Min.Y+ascent)
		d.DrawString(string(c))
	}

	return &TextureAtlas{
		Texture: &Texture2D{
			Name:   fmt.Sprintf("%s-%d", params.Family, params.GlyphHeight),
			Pixels: pixels,
			Repeat: TextureRepeatClampToEdge,
			Filter: TextureFilterModeLinear,
		},
		Regions: regions,
		Names:   names,
	}, nil
}

func uniqueRunes(s string) []rune {
	seen := make(map[rune]struct{}, len(s))
	var out []rune
	for _, r := range s {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

func isqrt(n int) int {
	r := 0
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
