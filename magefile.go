//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// Default target to run when none is specified
// If not set, running mage will list available targets
var Default = Build

var commands = []string{"genZee", "genJets", "simuTrf", "digitTrf", "convert"}

// Build compiles every command into ./bin
func Build() error {
	mg.Deps(BuildGenZee, BuildGenJets, BuildSimuTrf, BuildDigitTrf, BuildConvert)
	fmt.Println("Compilation finished")
	return nil
}

func BuildGenZee() error   { return buildCommand("genZee") }
func BuildGenJets() error  { return buildCommand("genJets") }
func BuildSimuTrf() error  { return buildCommand("simuTrf") }
func BuildDigitTrf() error { return buildCommand("digitTrf") }

// BuildConvert needs cgo and the HDF5 headers for the .h5 output
func BuildConvert() error { return buildCommand("convert") }

// Test runs the unit tests of every package
func Test() error {
	cmd := exec.Command("go", "test", "./...")
	cmd.Env = cgoEnv()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Clean removes the built executables
func Clean() error {
	for _, name := range commands {
		if err := os.Remove("./bin/" + name); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func buildCommand(name string) error {
	fmt.Printf("Building %s executable...\n", name)
	cmd := exec.Command("go", "build", "-o", "./bin/"+name, "./"+name)
	cmd.Env = cgoEnv()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func cgoEnv() []string {
	ldflags := os.Getenv("CGO_LDFLAGS")
	cflags := os.Getenv("CGO_CFLAGS")
	return append(os.Environ(),
		"CGO_ENABLED=1",
		fmt.Sprintf("CGO_LDFLAGS=%s", ldflags),
		fmt.Sprintf("CGO_CFLAGS=%s", cflags))
}
