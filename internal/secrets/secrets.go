// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file holds one secret: the filename is the key and the trimmed
// contents are the value.
//
// Supported key files: postgres-dsn.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/herdmate/internal/logging"
)

// DefaultDir is where the CLI looks for secrets.
const DefaultDir = ".secrets"

// PostgresDSN names the file holding the plan store connection string.
const PostgresDSN = "postgres-dsn"

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error. Unreadable files are
// logged and skipped.
func Load(dir string, log *logging.Logger) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("could not read secret", "name", name, "error", err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// StoreDSN returns configured when set, else the postgres-dsn secret from
// dir. It returns "" when neither exists.
func StoreDSN(configured, dir string, log *logging.Logger) (string, error) {
	if configured != "" {
		return configured, nil
	}
	s, err := Load(dir, log)
	if err != nil {
		return "", err
	}
	return s[PostgresDSN], nil
}
