//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Builds the viewer into bin/j3dview.
func (Build) Viewer() error {
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/j3dview", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs vet and the test suite with the race detector.
func (Build) Test() error {
	if _, err := executeCmd("go", withArgs("vet", "./..."), withStream()); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("test", "-race", "./engine/..."), withStream()); err != nil {
		return err
	}
	return nil
}
