//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the GameApp host with the bundled mods.
func (Run) App() error {
	fmt.Println("Run GameApp...")
	if _, err := executeCmd("go", withArgs("run", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Builds the mod plugins first and runs the host with plugin loading on.
func (Run) Plugins() error {
	mg.Deps(Build.Plugins)
	if _, err := executeCmd("go", withArgs("run", ".", "-plugins"), withStream()); err != nil {
		return err
	}
	return nil
}
