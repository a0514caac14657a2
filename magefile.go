//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "testpilot"
	binDir     = "bin"
	versionPkg = "github.com/ternarybob/testpilot/internal/common"
)

// Default target - build the binary
var Default = Build

// Build builds the testpilot binary with version information
func Build() error {
	mg.Deps(Tidy)

	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	commit, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil {
		commit = "unknown"
	}

	ldflags := fmt.Sprintf("-X %s.Version=%s -X %s.Build=%s -X %s.GitCommit=%s",
		versionPkg, version,
		versionPkg, time.Now().UTC().Format("2006-01-02-15-04-05"),
		versionPkg, commit)

	output := filepath.Join(binDir, binaryName)
	fmt.Printf("Building %s %s\n", output, version)
	return sh.RunV("go", "build", "-ldflags", ldflags, "-o", output, "./cmd/testpilot")
}

// Test runs all package tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// QA runs formatting, vet and tests
func QA() error {
	if err := sh.RunV("go", "fmt", "./..."); err != nil {
		return fmt.Errorf("format check failed: %w", err)
	}
	mg.SerialDeps(Vet, Test)
	return nil
}

// Tidy runs go mod tidy
func Tidy() error {
	return sh.Run("go", "mod", "tidy")
}

// Clean removes build artifacts
func Clean() error {
	return sh.Rm(binDir)
}
