//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the viewer. J3DVIEW_CONFIG and J3DVIEW_MODEL select the config file
// and the model to open.
func (Run) Viewer() error {
	mg.Deps(Build.Viewer)

	args := []string{os.Getenv("J3DVIEW_CONFIG")}
	if model := os.Getenv("J3DVIEW_MODEL"); model != "" {
		args = append(args, model)
	}
	fmt.Println("Run viewer...")
	if _, err := executeCmd("bin/j3dview", withArgs(args...), withStream()); err != nil {
		return err
	}
	return nil
}
