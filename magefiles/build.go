//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Builds the GameApp host binary into bin/.
func (Build) App() error {
	if err := goTidy(); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/gameapp", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Builds every bundled mod as a plugin next to its content in mods/.
func (Build) Plugins() error {
	for _, name := range modPlugins() {
		out := filepath.Join("mods", name, "mod.so")
		src := "./" + filepath.ToSlash(filepath.Join("testbed", "plugin", name))
		fmt.Printf("Building mod plugin %s...\n", name)
		if _, err := executeCmd("go", withArgs("build", "-buildmode=plugin", "-o", out, src), withStream()); err != nil {
			return err
		}
	}
	return nil
}

// Runs the tests of every package.
func Test() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream())
	return err
}
