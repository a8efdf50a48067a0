package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config is the TOML configuration struct. When a ~/.kcar.toml or
// ~/.config/kcar.toml file exists, the values contained therein will
// override the compiled-in defaults.
type Config struct {
	DB           string
	Dataset      string
	Addr         string
	QueryTimeout string `toml:"query_timeout"`
	MaxKeywords  int    `toml:"max_keywords"`
	MaxCells     int    `toml:"max_cells"`
	Quiet        bool
	Verbose      bool
}

// doConfig applies, in order, the configuration file, a .env file in the
// working directory and the KCAR_* environment. Flags override all three.
func doConfig() {
	file, err := findConfigFile(os.Getenv("HOME"))
	if err != nil {
		log.Fatalf("locating kcar TOML configuration: %s", err)
	}

	if len(file) > 0 {
		config, err := parseConfig(file)
		if err != nil {
			log.Fatalf("parsing kcar TOML configuration file %q: %s", file, err)
		}
		config.Apply()
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("loading .env: %s", err)
	}
	envConfig().Apply()
}

func (config *Config) Apply() {
	if len(config.DB) > 0 {
		DBFile = config.DB
	}
	if len(config.Dataset) > 0 {
		DatasetName = config.Dataset
	}
	if len(config.Addr) > 0 {
		WebAddr = config.Addr
	}
	if len(config.QueryTimeout) > 0 {
		d, err := time.ParseDuration(config.QueryTimeout)
		if err != nil {
			log.Warnf("ignoring query timeout %q: %s", config.QueryTimeout, err)
		} else {
			QueryTimeout = d
		}
	}
	if config.MaxKeywords > 0 {
		MaxKeywords = config.MaxKeywords
	}
	if config.MaxCells > 0 {
		MaxCells = config.MaxCells
	}
	if config.Quiet {
		Quiet = true
	}
	if config.Verbose {
		Verbose = true
	}
}

// envConfig collects the KCAR_* environment variables.
func envConfig() *Config {
	return &Config{
		DB:           os.Getenv("KCAR_DB"),
		Dataset:      os.Getenv("KCAR_DATASET"),
		Addr:         os.Getenv("KCAR_ADDR"),
		QueryTimeout: os.Getenv("KCAR_QUERY_TIMEOUT"),
	}
}

// parseConfig parses a kcar TOML configuration file.
func parseConfig(file string) (*Config, error) {
	config := &Config{}
	if _, err := toml.DecodeFile(file, config); err != nil {
		return nil, err
	}
	return config, nil
}

// findConfigFile searches home for a .kcar.toml or .config/kcar.toml file
// (in this order).
//
// If no config file is found, ("", nil) is returned.
func findConfigFile(home string) (string, error) {
	paths := []string{
		filepath.Join(home, ".kcar.toml"),
		filepath.Join(home, ".config", "kcar.toml"),
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !os.IsNotExist(err) {
			return "", err
		}
	}
	return "", nil
}
