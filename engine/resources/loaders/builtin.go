package loaders

import "github.com/spaghettifunk/gameengine/engine/resources"

// RegisterBuiltins installs the engine's loaders on m. Mods may replace any
// of them by registering a loader for the same pair afterwards.
func RegisterBuiltins(m *resources.Manager) {
	resources.RegisterLoader[string, *TextParams](m, &TextLoader{})
	resources.RegisterLoader[*Texture2D, *TextureParams](m, &TextureLoader{})
	resources.RegisterLoader[*ShaderSource, *ShaderParams](m, &ShaderLoader{})
	resources.RegisterLoader[*TextureAtlas, *AtlasParams](m, &AtlasLoader{})
	resources.RegisterLoader[*TextureAtlas, *FontParams](m, &FontAtlasLoader{})
	resources.RegisterLoader[*BitmapFont, *BitmapFontParams](m, &BitmapFontLoader{})
	resources.RegisterLoader[*BinaryData, *BinaryParams](m, &BinaryLoader{})
}
