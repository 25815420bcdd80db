//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target to run when none is specified
var Default = Build

// Build compiles the project binaries into the bin/ directory.
func Build() error {
	fmt.Println("Building...")
	return sh.Run("go", "build", "-o", "./bin", "./...")
}

// Install copies the mkinsert binary to /usr/local/bin.
func Install() error {
	mg.Deps(Build)
	fmt.Println("Installing...")
	return sh.Run("cp", "bin/mkinsert", "/usr/local/bin/mkinsert")
}

// Test runs all tests in the project with verbose output.
func Test() error {
	fmt.Println("Running Tests...")
	return sh.Run("go", "test", "-v", "./...")
}

// TestTranscoder runs the insert statement tests, which include executing the output in SQLite.
func TestTranscoder() error {
	fmt.Println("Running Transcoder Tests...")
	return sh.Run("go", "test", "-test.fullpath=true", "-timeout", "30s", "github.com/darianmavgo/mkinsert/converters/insert")
}

// Sample converts testdata/sample.csv to stdout and checks the result loads into SQLite.
func Sample() error {
	mg.Deps(Build)
	fmt.Println("Converting sample...")
	out, err := sh.Output("./bin/mkinsert", "-f", "testdata/sample.csv", "--typed", "-k", "2", "-i", "2",
		"-p", "testdata/sample_prefix.sql", "-o", "test_output/sample.sql")
	if err != nil {
		return err
	}
	fmt.Println(out)
	return sh.RunV("./bin/mkinsert", "load", "test_output/sample.sql", "--count", "sample")
}

// Clean removes the bin directory and test outputs.
func Clean() error {
	fmt.Println("Cleaning...")
	if err := os.RemoveAll("bin"); err != nil {
		return err
	}
	if err := os.RemoveAll("test_output"); err != nil {
		return err
	}
	return nil
}

// Tidy runs go mod tidy.
func Tidy() error {
	fmt.Println("Running go mod tidy...")
	return sh.Run("go", "mod", "tidy")
}

// Check runs formatting and linting checks (fmt, vet).
func Check() error {
	mg.Deps(Fmt, Vet)
	return nil
}

// Fmt runs go fmt ./...
func Fmt() error {
	fmt.Println("Running go fmt...")
	return sh.Run("go", "fmt", "./...")
}

// Vet runs go vet ./...
func Vet() error {
	fmt.Println("Running go vet...")
	return sh.Run("go", "vet", "./...")
}
