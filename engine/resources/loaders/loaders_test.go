package loaders

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bmizerany/assert"

	"github.com/spaghettifunk/gameengine/engine/resources"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff})
		}
	}
	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestTextLoaderDecodesUTF16(t *testing.T) {
	dir := t.TempDir()
	// "hé" little endian with BOM
	p := writeFile(t, dir, "greeting.txt", []byte{0xff, 0xfe, 'h', 0x00, 0xe9, 0x00})

	s, err := (&TextLoader{}).Load([]string{p}, NewTextParams(TextEncodingUTF16LE, p))
	assert.Equal(t, nil, err)
	assert.Equal(t, "hé", s)

	latin := writeFile(t, dir, "latin.txt", []byte{'c', 'a', 'f', 0xe9})
	s, err = (&TextLoader{}).Load([]string{latin}, NewTextParams(TextEncodingLatin1, latin))
	assert.Equal(t, nil, err)
	assert.Equal(t, "café", s)
}

func TestParamsRejectWrongPathCount(t *testing.T) {
	p := NewShaderParams("basic", "only-one.vert")
	assert.Equal(t, 0, len(p.FilePaths()))

	_, err := (&ShaderLoader{}).Load(p.FilePaths(), p)
	assert.T(t, errors.Is(err, ErrMissingFile))
}

func TestShaderLoaderReadsBothStages(t *testing.T) {
	dir := t.TempDir()
	vert := writeFile(t, dir, "basic.vert", []byte("void main() {}\n"))
	frag := writeFile(t, dir, "basic.frag", []byte("out vec4 color;\n"))

	src, err := (&ShaderLoader{}).Load([]string{vert, frag}, NewShaderParams("basic", vert, frag))
	assert.Equal(t, nil, err)
	assert.Equal(t, "basic", src.Name)
	assert.Equal(t, "void main() {}\n", src.Vertex)
	assert.Equal(t, "out vec4 color;\n", src.Fragment)
}

func TestTextureLoaderDecodesPNG(t *testing.T) {
	p := writePNG(t, t.TempDir(), "brick.png", 8, 4)

	tex, err := (&TextureLoader{}).Load([]string{p}, NewTextureParams(TextureRepeatRepeat, TextureFilterModeNearest, p))
	assert.Equal(t, nil, err)
	assert.Equal(t, "brick", tex.Name)
	assert.Equal(t, 8, tex.Width())
	assert.Equal(t, 4, tex.Height())
	assert.Equal(t, color.RGBA{R: 3, G: 2, B: 0x80, A: 0xff}, tex.Pixels.RGBAAt(3, 2))
}

func TestTextureLoaderRejectsGarbage(t *testing.T) {
	p := writeFile(t, t.TempDir(), "broken.png", []byte("definitely not an image"))
	tex, err := (&TextureLoader{}).Load([]string{p}, NewTextureParams(TextureRepeatRepeat, TextureFilterModeLinear, p))
	assert.NotEqual(t, nil, err)
	assert.T(t, tex == nil)
}

func TestAtlasLoaderRegions(t *testing.T) {
	dir := t.TempDir()
	img := writePNG(t, dir, "hero.png", 32, 32)
	regions := writeFile(t, dir, "hero.atlas", []byte("head,0,0,16,16\nbody,16,0,16,32"))

	atlas, err := (&AtlasLoader{}).Load([]string{img, regions}, NewAtlasParams(TextureRepeatClampToEdge, TextureFilterModeNearest, img, regions))
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(atlas.Regions))
	assert.Equal(t, image.Rect(0, 0, 16, 16), atlas.Regions["head"])
	assert.Equal(t, image.Rect(16, 0, 32, 32), atlas.Regions["body"])
	assert.Equal(t, []string{"head", "body"}, atlas.Names)

	sub, ok := atlas.SubImage("body")
	assert.T(t, ok)
	assert.Equal(t, 16, sub.Bounds().Dx())
	assert.Equal(t, 32, sub.Bounds().Dy())
}

func TestAtlasLoaderFailsOnOutOfBoundsRegion(t *testing.T) {
	dir := t.TempDir()
	img := writePNG(t, dir, "hero.png", 32, 32)
	regions := writeFile(t, dir, "hero.atlas", []byte("bad,999,0,1,1"))

	atlas, err := (&AtlasLoader{}).Load([]string{img, regions}, NewAtlasParams(TextureRepeatRepeat, TextureFilterModeNearest, img, regions))
	assert.NotEqual(t, nil, err)
	assert.T(t, atlas == nil)
}

func TestParseAtlasRegions(t *testing.T) {
	src := `# sprites
idle,0,0,8,8

run , 8, 0, 8, 8
`
	regions, names, err := ParseAtlasRegions(strings.NewReader(src), 16, 8)
	assert.Equal(t, nil, err)
	assert.Equal(t, []string{"idle", "run"}, names)
	assert.Equal(t, image.Rect(8, 0, 16, 8), regions["run"])

	cases := map[string]string{
		"fields":   "a,0,0,1",
		"integer":  "a,zero,0,1,1",
		"size":     "a,0,0,0,1",
		"overflow": "a,10,0,8,1",
		"twice":    "a,0,0,1,1\na,1,1,1,1",
		"name":     ",0,0,1,1",
	}
	for name, src := range cases {
		_, _, err := ParseAtlasRegions(strings.NewReader(src), 16, 8)
		if err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}

	_, _, err = ParseAtlasRegions(strings.NewReader("ok,0,0,1,1\n\nbad,0,9,1,1"), 16, 8)
	assert.T(t, strings.HasPrefix(err.Error(), "line 3:"))
}

func TestFontAtlasLoader(t *testing.T) {
	atlas, err := (&FontAtlasLoader{}).Load(nil, NewFontParams("go-mono", 16, "abca"))
	assert.Equal(t, nil, err)
	assert.Equal(t, []string{"a", "b", "c"}, atlas.Names)

	bounds := atlas.Texture.Pixels.Bounds()
	for _, name := range atlas.Names {
		r, ok := atlas.Region(name)
		assert.T(t, ok)
		assert.T(t, r.In(bounds))
		assert.T(t, r.Dx() > 0 && r.Dy() > 0)
	}
	// the atlas is a power of two in both directions
	assert.Equal(t, 0, bounds.Dx()&(bounds.Dx()-1))
	assert.Equal(t, 0, bounds.Dy()&(bounds.Dy()-1))

	// something was actually drawn
	drawn := false
	for _, p := range atlas.Texture.Pixels.Pix {
		if p != 0 {
			drawn = true
			break
		}
	}
	assert.T(t, drawn)
}

func TestFontAtlasLoaderValidatesParams(t *testing.T) {
	fl := &FontAtlasLoader{}

	_, err := fl.Load(nil, NewFontParams("comic-sans", 16, ""))
	assert.T(t, errors.Is(err, ErrUnknownFamily))

	_, err = fl.Load(nil, NewFontParams("go", 0, ""))
	assert.Equal(t, ErrGlyphHeight, err)

	_, err = fl.Load(nil, &FontParams{Family: "go", GlyphHeight: 12})
	assert.Equal(t, ErrBadCharset, err)
}

func TestBinaryLoaderWords(t *testing.T) {
	p := writeFile(t, t.TempDir(), "shader.spv", []byte{0x03, 0x02, 0x23, 0x07, 0x01, 0x00, 0x00, 0x00, 0xff})

	data, err := (&BinaryLoader{}).Load([]string{p}, NewBinaryParams(p))
	assert.Equal(t, nil, err)
	assert.Equal(t, 9, len(data.Bytes))
	assert.Equal(t, []uint32{0x07230203, 1}, data.Words())
}

func TestRegisterBuiltinsThroughManager(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "readme.txt", []byte("hello"))
	img := writePNG(t, dir, "tile.png", 4, 4)

	m := resources.NewManager(resources.ManagerConfig{})
	RegisterBuiltins(m)
	assert.T(t, resources.HasLoader[*TextureAtlas, *FontParams](m))
	assert.T(t, resources.HasLoader[*BitmapFont, *BitmapFontParams](m))

	assert.Equal(t, nil, resources.Load[string](m, "readme", NewTextParams(TextEncodingUTF8, txt), 1, true))
	assert.Equal(t, nil, resources.Load[*Texture2D](m, "tile", NewTextureParams(TextureRepeatRepeat, TextureFilterModeNearest, img), 2, false))
	for m.IsLoading() {
		m.ContinueLoading()
	}

	readme, ok := resources.TryGet[string](m, "readme", false)
	assert.T(t, ok)
	assert.Equal(t, "hello", readme.Data)

	tile, ok := resources.TryGet[*Texture2D](m, "tile", false)
	assert.T(t, ok)
	assert.Equal(t, 4, tile.Data.Width())
	assert.Equal(t, []string{img}, tile.FilePaths)
}
