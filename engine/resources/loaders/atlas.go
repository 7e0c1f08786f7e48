package loaders

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spaghettifunk/gameengine/engine/core"
	"github.com/spaghettifunk/gameengine/engine/resources"
)

// TextureAtlas is one texture split into named regions.
type TextureAtlas struct {
	Texture *Texture2D
	Regions map[string]image.Rectangle
	// Names keeps the regions in file order.
	Names []string
}

func (ta *TextureAtlas) Region(name string) (image.Rectangle, bool) {
	r, ok := ta.Regions[name]
	return r, ok
}

// SubImage returns the pixels of a region, sharing memory with the atlas.
func (ta *TextureAtlas) SubImage(name string) (*image.RGBA, bool) {
	r, ok := ta.Regions[name]
	if !ok {
		return nil, false
	}
	return ta.Texture.Pixels.SubImage(r).(*image.RGBA), true
}

type AtlasParams struct {
	resources.Files
	Repeat TextureRepeat
	Filter TextureFilter
}

// NewAtlasParams expects the image path followed by the region file path.
func NewAtlasParams(repeat TextureRepeat, filter TextureFilter, paths ...string) *AtlasParams {
	return &AtlasParams{
		Files:  resources.Files{Paths: expectPaths("atlas", 2, paths)},
		Repeat: repeat,
		Filter: filter,
	}
}

type AtlasLoader struct{}

// Load returns a nil atlas on any error, including a single bad region line.
func (al *AtlasLoader) Load(paths []string, params *AtlasParams) (*TextureAtlas, error) {
	if err := requirePaths("atlas", 2, paths); err != nil {
		return nil, err
	}
	texture, err := decodeTexture(paths[0], params.Repeat, params.Filter)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(paths[1])
	if err != nil {
		return nil, err
	}
	defer f.Close()

	regions, names, err := ParseAtlasRegions(f, texture.Width(), texture.Height())
	if err != nil {
		core.LogError("failed to parse atlas regions %s: %s", paths[1], err)
		return nil, fmt.Errorf("%s: %w", paths[1], err)
	}
	return &TextureAtlas{
		Texture: texture,
		Regions: regions,
		Names:   names,
	}, nil
}

// ParseAtlasRegions reads `name,x,y,width,height` lines and checks every
// region against a width x height bitmap. Blank lines and lines starting
// with # are skipped. The first bad line aborts the parse.
func ParseAtlasRegions(r io.Reader, width, height int) (map[string]image.Rectangle, []string, error) {
	regions := make(map[string]image.Rectangle)
	var names []string

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		// Skip comments and empty lines
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) != 5 {
			return nil, nil, fmt.Errorf("line %d: expected name,x,y,width,height, got %d fields", lineNumber, len(fields))
		}
		name := strings.TrimSpace(fields[0])
		if name == "" {
			return nil, nil, fmt.Errorf("line %d: region name is empty", lineNumber)
		}
		if _, dup := regions[name]; dup {
			return nil, nil, fmt.Errorf("line %d: region '%s' defined twice", lineNumber, name)
		}

		var values [4]int
		for i, label := range []string{"x", "y", "width", "height"} {
			v, err := strconv.Atoi(strings.TrimSpace(fields[i+1]))
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %s is not an integer: %w", lineNumber, label, err)
			}
			values[i] = v
		}
		x, y, w, h := values[0], values[1], values[2], values[3]

		switch {
		case x < 0 || x >= width:
			return nil, nil, fmt.Errorf("line %d: x=%d outside bitmap width %d", lineNumber, x, width)
		case y < 0 || y >= height:
			return nil, nil, fmt.Errorf("line %d: y=%d outside bitmap height %d", lineNumber, y, height)
		case w <= 0 || h <= 0:
			return nil, nil, fmt.Errorf("line %d: region size %dx%d must be positive", lineNumber, w, h)
		case x+w > width:
			return nil, nil, fmt.Errorf("line %d: x+width=%d exceeds bitmap width %d", lineNumber, x+w, width)
		case y+h > height:
			return nil, nil, fmt.Errorf("line %d: y+height=%d exceeds bitmap height %d", lineNumber, y+h, height)
		}

		regions[name] = image.Rect(x, y, x+w, y+h)
		names = append(names, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return regions, names, nil
}
