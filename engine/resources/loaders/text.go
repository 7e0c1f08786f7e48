package loaders

import (
	"fmt"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/spaghettifunk/gameengine/engine/resources"
)

type TextEncoding int

const (
	TextEncodingUTF8 TextEncoding = iota
	TextEncodingUTF16LE
	TextEncodingUTF16BE
	TextEncodingLatin1
	TextEncodingWindows1252
)

func (e TextEncoding) decoder() (encoding.Encoding, error) {
	switch e {
	case TextEncodingUTF8:
		return unicode.UTF8BOM, nil
	case TextEncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case TextEncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM), nil
	case TextEncodingLatin1:
		return charmap.ISO8859_1, nil
	case TextEncodingWindows1252:
		return charmap.Windows1252, nil
	}
	return nil, fmt.Errorf("unsupported text encoding %d", e)
}

type TextParams struct {
	resources.Files
	Encoding TextEncoding
}

// NewTextParams expects exactly one path.
func NewTextParams(enc TextEncoding, paths ...string) *TextParams {
	return &TextParams{
		Files:    resources.Files{Paths: expectPaths("text", 1, paths)},
		Encoding: enc,
	}
}

type TextLoader struct{}

func (tl *TextLoader) Load(paths []string, params *TextParams) (string, error) {
	if err := requirePaths("text", 1, paths); err != nil {
		return "", err
	}
	raw, err := os.ReadFile(paths[0])
	if err != nil {
		return "", err
	}
	enc, err := params.Encoding.decoder()
	if err != nil {
		return "", err
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", paths[0], err)
	}
	return string(decoded), nil
}
