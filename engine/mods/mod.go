package mods

// Mod is what a mod package hands to the engine. Identifiers must be at
// least MinIDLength long and start with an ASCII letter; non-base mods
// need a priority above zero.
type Mod interface {
	ID() string
	Priority() int
	// Directory is the install directory, known once the mod is loaded.
	Directory() string
	// OnLoad receives the engine services right after the mod is installed.
	OnLoad(services *Services) error
	// Initialize runs once every mod is loaded.
	Initialize() error
}

// Shutdowner is implemented by mods that release something on exit.
type Shutdowner interface {
	Shutdown() error
}

// installer is promoted from Base so the manager can record where a mod lives.
type installer interface {
	install(directory string, manifest *Manifest)
}

// Base implements the bookkeeping part of Mod. Embed it and set ModID and
// ModPriority in the entry point.
type Base struct {
	ModID       string
	ModPriority int

	directory string
	manifest  *Manifest
	services  *Services
}

func (b *Base) ID() string {
	return b.ModID
}

func (b *Base) Priority() int {
	return b.ModPriority
}

func (b *Base) Directory() string {
	return b.directory
}

// Manifest is nil when the mod ships no mod.toml.
func (b *Base) Manifest() *Manifest {
	return b.manifest
}

// Services is nil until OnLoad ran.
func (b *Base) Services() *Services {
	return b.services
}

func (b *Base) OnLoad(services *Services) error {
	b.services = services
	return nil
}

func (b *Base) Initialize() error {
	return nil
}

func (b *Base) install(directory string, manifest *Manifest) {
	b.directory = directory
	b.manifest = manifest
}
