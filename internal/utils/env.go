// Package utils holds small helpers shared across the module.
package utils

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// FindProjectRoot walks up from the working directory to the nearest
// go.mod. Used to locate the .env file during development.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// LoadEnv loads the project's .env into the process environment. A missing
// file is not an error; env overrides like SIDESEARCH_REGION are optional.
func LoadEnv() error {
	root, err := FindProjectRoot()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	err = godotenv.Load(filepath.Join(root, ".env"))
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
