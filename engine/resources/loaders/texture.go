package loaders

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/spaghettifunk/gameengine/engine/resources"
)

/** @brief Represents supported texture filtering modes. */
type TextureFilter int

const (
	/** @brief Nearest-neighbor filtering. */
	TextureFilterModeNearest TextureFilter = 0x0
	/** @brief Linear (i.e. bilinear) filtering.*/
	TextureFilterModeLinear TextureFilter = 0x1
)

type TextureRepeat int

const (
	TextureRepeatRepeat         TextureRepeat = 0x1
	TextureRepeatMirroredRepeat TextureRepeat = 0x2
	TextureRepeatClampToEdge    TextureRepeat = 0x3
	TextureRepeatClampToBorder  TextureRepeat = 0x4
)

/**
 * @brief A decoded 2D texture. Uploading it to the GPU belongs to the renderer.
 */
type Texture2D struct {
	/** @brief The texture Name, the base name of the source file. */
	Name string
	/** @brief The pixels, always RGBA with origin (0,0). */
	Pixels *image.RGBA
	Repeat TextureRepeat
	Filter TextureFilter
}

func (t *Texture2D) Width() int {
	return t.Pixels.Bounds().Dx()
}

func (t *Texture2D) Height() int {
	return t.Pixels.Bounds().Dy()
}

type TextureParams struct {
	resources.Files
	Repeat TextureRepeat
	Filter TextureFilter
}

func NewTextureParams(repeat TextureRepeat, filter TextureFilter, paths ...string) *TextureParams {
	return &TextureParams{
		Files:  resources.Files{Paths: expectPaths("texture", 1, paths)},
		Repeat: repeat,
		Filter: filter,
	}
}

type TextureLoader struct{}

func (tl *TextureLoader) Load(paths []string, params *TextureParams) (*Texture2D, error) {
	if err := requirePaths("texture", 1, paths); err != nil {
		return nil, err
	}
	return decodeTexture(paths[0], params.Repeat, params.Filter)
}

// decodeTexture opens and decodes an image file (PNG, JPEG, GIF, BMP, TIFF, WebP).
func decodeTexture(path string, repeat TextureRepeat, filter TextureFilter) (*Texture2D, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	return &Texture2D{
		Name:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Pixels: toRGBA(img),
		Repeat: repeat,
		Filter: filter,
	}, nil
}

func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(rgba, rgba.Bounds(), img, b.Min, xdraw.Src)
	return rgba
}
