package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/wyg1997/ActionsBot/pkg/logger"
)

// maxEnvSearchDepth is how many parent directories are searched for a .env file
const maxEnvSearchDepth = 3

// LoadEnvFile loads environment variables from the given .env file.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.GetLogger().Debug("No .env file found at %s, using system environment", path)
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	logger.GetLogger().Info("Loaded environment variables from %s", path)
	return nil
}

// LoadDefaultEnvFile loads .env from the current directory or its parents.
// Variables already present in the environment win.
func LoadDefaultEnvFile() error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	for i := 0; i <= maxEnvSearchDepth; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			return LoadEnvFile(envPath)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	logger.GetLogger().Debug("No .env file found in current or parent directories, using system environment")
	return nil
}
