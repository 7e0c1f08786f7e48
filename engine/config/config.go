package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
	pkgerrors "github.com/pkg/errors"
)

const DefaultFile = "engine.toml"

type ApplicationConfig struct {
	// The application name used in windowing, if applicable.
	Name string `toml:"name"`
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"start_pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"start_pos_y"`
	// Window starting width, if applicable.
	StartWidth uint32 `toml:"start_width"`
	// Window starting height, if applicable.
	StartHeight uint32 `toml:"start_height"`
	// Run without a window, e.g. for servers and tests.
	Headless bool `toml:"headless"`
}

type ModsConfig struct {
	// Directory holding one subdirectory per mod.
	Root string `toml:"root"`
	// The host application's own mod, loaded first.
	BaseMod string `toml:"base_mod"`
	// Allow opening mod.so plugins.
	Plugins bool `toml:"plugins"`
}

type Config struct {
	Application ApplicationConfig `toml:"application"`
	Mods        ModsConfig        `toml:"mods"`
	LogLevel    string            `toml:"log_level"`
	Language    string            `toml:"language"`
	SettingsDir string            `toml:"settings_dir"`
	// Reload resources whose files change on disk.
	HotReload bool `toml:"hot_reload"`
	// Ticks per second of the game loop.
	TickRate int `toml:"tick_rate"`
}

func Default() *Config {
	return &Config{
		Application: ApplicationConfig{
			Name:        "GameApp",
			StartPosX:   100,
			StartPosY:   100,
			StartWidth:  1280,
			StartHeight: 720,
		},
		Mods: ModsConfig{
			Root:    "mods",
			BaseMod: "gameapp",
			Plugins: true,
		},
		LogLevel:    "info",
		Language:    "en",
		SettingsDir: "settings",
		TickRate:    60,
	}
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, pkgerrors.Wrapf(err, "invalid %s", path)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Mods.Root == "" {
		return errors.New("mods.root must not be empty")
	}
	if c.Mods.BaseMod == "" {
		return errors.New("mods.base_mod must not be empty")
	}
	if c.TickRate <= 0 {
		return errors.New("tick_rate must be positive")
	}
	if c.Language == "" {
		return errors.New("language must not be empty")
	}
	return nil
}
