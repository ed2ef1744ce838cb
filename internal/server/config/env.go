package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultDotenvFile = ".env"

// loadDotenv copies variables from a dotenv file into the process
// environment. Variables that are already set keep their values. A missing
// default file is not an error; a missing explicitly named file is.
func loadDotenv(path string) error {
	explicit := path != ""
	if !explicit {
		path = defaultDotenvFile
	}

	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

// parseEnv overlays variables named in the Config struct tags. Unset
// variables leave the current values alone.
func parseEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
