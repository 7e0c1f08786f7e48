package loaders

import (
	"path/filepath"

	"github.com/fzipp/bmfont"

	"github.com/spaghettifunk/gameengine/engine/resources"
)

type FontGlyph struct {
	Codepoint rune
	X         uint16
	Y         uint16
	Width     uint16
	Height    uint16
	XOffset   int16
	YOffset   int16
	XAdvance  int16
	PageID    uint8
}

type FontKerning struct {
	Codepoint0 rune
	Codepoint1 rune
	Amount     int16
}

type BitmapFontPage struct {
	ID   int8
	File string
}

// BitmapFont is an AngelCode .fnt descriptor. Page files are resolved
// relative to the .fnt file and can be queued as textures by the caller.
type BitmapFont struct {
	Face       string
	Size       uint32
	LineHeight int32
	Baseline   int32
	AtlasSizeX int32
	AtlasSizeY int32
	Glyphs     map[rune]*FontGlyph
	Kernings   []*FontKerning
	Pages      []*BitmapFontPage
}

type BitmapFontParams struct {
	resources.Files
}

func NewBitmapFontParams(paths ...string) *BitmapFontParams {
	return &BitmapFontParams{Files: resources.Files{Paths: expectPaths("bitmap font", 1, paths)}}
}

type BitmapFontLoader struct{}

func (fl *BitmapFontLoader) Load(paths []string, _ *BitmapFontParams) (*BitmapFont, error) {
	if err := requirePaths("bitmap font", 1, paths); err != nil {
		return nil, err
	}
	font, err := bmfont.Load(paths[0])
	if err != nil {
		return nil, err
	}

	out := &BitmapFont{
		Face:       font.Descriptor.Info.Face,
		Size:       uint32(font.Descriptor.Info.Size),
		LineHeight: int32(font.Descriptor.Common.LineHeight),
		Baseline:   int32(font.Descriptor.Common.Base),
		AtlasSizeX: int32(font.Descriptor.Common.ScaleW),
		AtlasSizeY: int32(font.Descriptor.Common.ScaleH),
		Glyphs:     make(map[rune]*FontGlyph, len(font.Descriptor.Chars)),
		Kernings:   make([]*FontKerning, 0, len(font.Descriptor.Kerning)),
		Pages:      make([]*BitmapFontPage, 0, len(font.Descriptor.Pages)),
	}

	dir := filepath.Dir(paths[0])
	for _, p := range font.Descriptor.Pages {
		out.Pages = append(out.Pages, &BitmapFontPage{
			ID:   int8(p.ID),
			File: filepath.Join(dir, p.File),
		})
	}

	for _, g := range font.Descriptor.Chars {
		out.Glyphs[g.ID] = &FontGlyph{
			Codepoint: g.ID,
			X:         uint16(g.X),
			Y:         uint16(g.Y),
			Width:     uint16(g.Width),
			Height:    uint16(g.Height),
			XOffset:   int16(g.XOffset),
			YOffset:   int16(g.YOffset),
			XAdvance:  int16(g.XAdvance),
			PageID:    uint8(g.Page),
		}
	}

	for p, k := range font.Descriptor.Kerning {
		out.Kernings = append(out.Kernings, &FontKerning{
			Codepoint0: p.First,
			Codepoint1: p.Second,
			Amount:     int16(k.Amount),
		})
	}
	return out, nil
}
