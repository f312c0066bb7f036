// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files and
// an optional dotenv file. Each file in the directory is one secret: the
// filename is the key and the trimmed contents are the value.
//
// Recognised keys: crossref-mailto (CROSSREF_MAILTO in a dotenv file).
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// CrossRefMailto is the key holding the CrossRef polite-pool address.
const CrossRefMailto = "crossref-mailto"

// Secrets maps key names to values.
type Secrets map[string]string

// Get returns the value for key, or fallback when it is unset.
func (s Secrets) Get(key, fallback string) string {
	if v, ok := s[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Load reads envFile (if present) and every file in dir. Files in dir take
// precedence over dotenv entries. Dotenv keys are normalised to the file
// naming scheme: CROSSREF_MAILTO becomes crossref-mailto.
//
// Missing paths are not errors. Unreadable secret files are logged and
// skipped.
func Load(dir, envFile string, logger *zap.Logger) (Secrets, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	secrets := Secrets{}

	if envFile != "" {
		env, err := godotenv.Read(envFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading env file %s: %w", envFile, err)
		default:
			for k, v := range env {
				if v = strings.TrimSpace(v); v != "" {
					secrets[envKey(k)] = v
				}
			}
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return secrets, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

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
			logger.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

func envKey(k string) string {
	return strings.ReplaceAll(strings.ToLower(k), "_", "-")
}
