package lzt

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

type Configuration struct {
	Verbosity        int      `json:"verbosity"`
	LztPath          string   `json:"lzt_path" env:"LZT_PATH"`
	Runner           string   `json:"runner" env:"LZT_RUNNER"`
	RunnerArgs       []string `json:"runner_args"`
	JobDir           string   `json:"job_dir" env:"LZT_JOB_DIR"`
	CompressionLevel int      `json:"compression_level"`
	NoDB             bool     `json:"no_db"`
	DBDriver         string   `json:"db_driver"`
	Host             string   `json:"host"`
	User             string   `json:"user"`
	Passwd           string   `json:"pass"`
	DBName           string   `json:"dbname"`
	DBPath           string   `json:"db_path"`
}

var configuration = defaultConfiguration()

func GetConfiguration() Configuration {
	return configuration
}

func SetConfiguration(config Configuration) {
	configuration = config
}

func defaultConfiguration() Configuration {
	return Configuration{
		Verbosity:        0,
		Runner:           "lzt-run",
		JobDir:           os.TempDir(),
		CompressionLevel: 4,
		NoDB:             true,
		DBDriver:         "mysql",
		DBName:           "lorenzetti",
	}
}

// LoadConfiguration reads the optional JSON file on top of the defaults and
// then applies the LZT_* environment overrides.
func LoadConfiguration(filename string) (Configuration, error) {
	config := defaultConfiguration()

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return config, &ErrOpenFile{Filename: filename, Err: err}
		}
		err = json.Unmarshal(data, &config)
		if err != nil {
			return config, fmt.Errorf("error parsing configuration file %q: %w", filename, err)
		}
	}

	if err := env.Parse(&config); err != nil {
		return config, fmt.Errorf("parse env: %w", err)
	}
	return config, nil
}

// DataFile resolves a path relative to LZT_PATH.
func (c Configuration) DataFile(rel string) (string, error) {
	if c.LztPath == "" {
		return "", fmt.Errorf("LZT_PATH is not set, cannot resolve %q", rel)
	}
	return c.LztPath + "/" + rel, nil
}

func PrintConfiguration(config Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("LZT path: %s", config.LztPath), "config")
	logger.Info(fmt.Sprintf("Runner: %s %v", config.Runner, config.RunnerArgs), "config")
	logger.Info(fmt.Sprintf("Job dir: %s", config.JobDir), "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	logger.Info(fmt.Sprintf("DB driver: %s", config.DBDriver), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	logger.Info(fmt.Sprintf("DB path: %s", config.DBPath), "config")
}
