package loaders

import (
	"os"

	"github.com/spaghettifunk/gameengine/engine/resources"
)

/** @brief Shader stage sources. Compiling them is the renderer's job. */
type ShaderSource struct {
	Name     string
	Vertex   string
	Fragment string
}

type ShaderParams struct {
	resources.Files
	Name string
}

// NewShaderParams expects the vertex source path followed by the fragment source path.
func NewShaderParams(name string, paths ...string) *ShaderParams {
	return &ShaderParams{
		Files: resources.Files{Paths: expectPaths("shader", 2, paths)},
		Name:  name,
	}
}

type ShaderLoader struct{}

func (sl *ShaderLoader) Load(paths []string, params *ShaderParams) (*ShaderSource, error) {
	if err := requirePaths("shader", 2, paths); err != nil {
		return nil, err
	}
	vertex, err := os.ReadFile(paths[0])
	if err != nil {
		return nil, err
	}
	fragment, err := os.ReadFile(paths[1])
	if err != nil {
		return nil, err
	}
	return &ShaderSource{
		Name:     params.Name,
		Vertex:   string(vertex),
		Fragment: string(fragment),
	}, nil
}
