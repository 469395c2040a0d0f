//go:build mage

// Package main contains Mage build targets for the publication allocator.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "allocator"
	cmdPkg  = "./cmd/cli"
)

// projectDirs are the working directories a fresh checkout needs
var projectDirs = []string{"data", "results", "logs"}

// Init creates the data, results and logs directories.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests. Postgres tests run when PUBALLOC_TEST_POSTGRES_DSN is set.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Race runs the tests with the race detector; parallel restarts are the only concurrent code.
func Race() error {
	return sh.RunV("go", "test", "-race", "./pkg/core/...")
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and the tests.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}
