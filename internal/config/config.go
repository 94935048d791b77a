package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadEnv loads the first .env file found in the working directory or its
// parent, so MW_* overrides can live next to mw.ini. It returns the file that
// was loaded, or "" when there was none. Variables already set in the
// environment win.
func LoadEnv() (string, error) {
	candidates := []string{".env", filepath.Join("..", ".env")}
	for _, envFile := range candidates {
		if _, err := os.Stat(envFile); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", err
		}
		if err := godotenv.Load(envFile); err != nil {
			return "", err
		}
		return envFile, nil
	}
	return "", nil
}
