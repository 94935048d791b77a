// Package validation checks user input before it reaches the server.
package validation

import (
	"fmt"
	"os"
	"strings"
)

// IsValidDirection accepts an empty direction or ascending/descending in any
// case.
func IsValidDirection(direction string) error {
	switch strings.ToLower(direction) {
	case "", "ascending", "descending":
		return nil
	default:
		return fmt.Errorf("unsupported sort direction: %s. Supported directions are 'ascending', 'descending'", direction)
	}
}

// IsValidFilePermissions rejects modes that give other users any access.
// The configuration file holds the server password.
func IsValidFilePermissions(mode os.FileMode) error {
	if mode.Perm()&0007 != 0 {
		return fmt.Errorf("file permissions are too permissive: %s. Recommended 0600", mode.Perm().String())
	}
	return nil
}

// CheckFilePermissions stats path and applies IsValidFilePermissions.
func CheckFilePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	return IsValidFilePermissions(info.Mode())
}
