package loaders

import (
	"os"

	"github.com/spaghettifunk/gameengine/engine/resources"
)

type BinaryParams struct {
	resources.Files
}

func NewBinaryParams(paths ...string) *BinaryParams {
	return &BinaryParams{Files: resources.Files{Paths: expectPaths("binary", 1, paths)}}
}

type BinaryData struct {
	Bytes []byte
}

// Words reads the data as little endian uint32 words, e.g. SPIR-V bytecode.
// Trailing bytes that do not fill a word are ignored.
func (bd *BinaryData) Words() []uint32 {
	b := bd.Bytes
	byteCode := make([]uint32, len(b)/4)
	for i := 0; i < len(byteCode); i++ {
		byteIndex := i * 4
		byteCode[i] |= uint32(b[byteIndex])
		byteCode[i] |= uint32(b[byteIndex+1]) << 8
		byteCode[i] |= uint32(b[byteIndex+2]) << 16
		byteCode[i] |= uint32(b[byteIndex+3]) << 24
	}
	return byteCode
}

type BinaryLoader struct{}

func (bl *BinaryLoader) Load(paths []string, _ *BinaryParams) (*BinaryData, error) {
	if err := requirePaths("binary", 1, paths); err != nil {
		return nil, err
	}
	buf, err := os.ReadFile(paths[0])
	if err != nil {
		return nil, err
	}
	return &BinaryData{Bytes: buf}, nil
}
