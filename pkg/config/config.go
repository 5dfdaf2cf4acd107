package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"dario.cat/mergo"
	"github.com/Shopify/ejson"
	"github.com/caarlos0/env/v6"
	"github.com/ghodss/yaml"
	"github.com/joho/godotenv"
)

const (
	ConfigEnvVar    = "LEDGERMETRICS_CONFIG"
	EjsonKeyEnvVar  = "LEDGERMETRICS_EJSON_SECRET_KEY"
	defaultEjsonDir = "/opt/ejson/keys"

	defaultLedgerCommand = "hledger"
	defaultPostgresTable = "ledger_samples"
	defaultBatchSize     = 1000
)

var config Config
var secrets Secrets

func ReadConfig(configEnvVar, configFile, secretsFile string) error {
	// a missing .env is the normal case outside of development
	_ = godotenv.Load()

	_, err := readConfig(configEnvVar, configFile)
	if err != nil {
		return err
	}

	_, err = readSecrets(secretsFile)
	if err != nil {
		return err
	}
	return nil
}

func CurrentConfig() *Config {
	return &config
}

func CurrentSecrets() *Secrets {
	return &secrets
}

func CurrentLedgerConfig() *LedgerConfig {
	return &config.Ledger
}

func CurrentExportConfig() *ExportConfig {
	return &config.Export
}

func CurrentSqlSecrets() *SqlSecrets {
	return &secrets.SQL
}

func CurrentInfluxSecrets() *InfluxSecrets {
	return &secrets.Influx
}

func readConfig(envName, filename string) (*Config, error) {
	var raw []byte
	var err error

	config = Config{}

	rawEnv := os.Getenv(envName)
	if rawEnv != "" {
		fmt.Printf("Reading config from environment variable %s\n", envName)
		raw = []byte(rawEnv)
	} else {
		raw, err = os.ReadFile(filename)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("config file not found, using defaults", "file", filename)
			raw, err = nil, nil
		}
		if err != nil {
			return nil, err
		}
	}

	if len(raw) > 0 {
		err = yaml.Unmarshal(raw, &config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	err = env.Parse(&config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config from env: %w", err)
	}

	setDefaults(&config)

	return &config, nil
}

func setDefaults(c *Config) {
	if c.Ledger.Command == "" {
		c.Ledger.Command = defaultLedgerCommand
	}
	if c.Export.Backend == "" {
		c.Export.Backend = BackendVictoriaMetrics
	}
	if c.Export.Postgres.Table == "" {
		c.Export.Postgres.Table = defaultPostgresTable
	}
	if c.Export.Postgres.BatchSize == 0 {
		c.Export.Postgres.BatchSize = defaultBatchSize
	}
}

func readSecrets(filename string) (*Secrets, error) {
	ejsonSecrets, ejsonErr := readEjsonSecrets(filename)

	envSecrets, envErr := readEnvSecrets()

	if ejsonErr == nil && envErr == nil {
		err := mergo.Merge(envSecrets, *ejsonSecrets)
		secrets = *envSecrets
		if err != nil {
			return nil, fmt.Errorf("Failed to merge secrets: %v", err)
		}
	} else if ejsonErr != nil && envErr == nil {
		if !errors.Is(ejsonErr, fs.ErrNotExist) {
			fmt.Printf("Warning: Error to parse ejson secret. Ejson error: %v\n", ejsonErr)
		}
		secrets = *envSecrets
	} else if ejsonErr == nil && envErr != nil {
		fmt.Printf("Warning: Error to parse env secret. Env error: %v\n", envErr)
		secrets = *ejsonSecrets
	} else {
		return nil, fmt.Errorf("Failed to parse secrets. Ejson error: %v. Env error: %v", ejsonErr, envErr)
	}

	return &secrets, nil
}

func readEjsonSecrets(filename string) (*Secrets, error) {
	ejsonSecrets := Secrets{}
	ejsonKeyFile := os.Getenv(EjsonKeyEnvVar)
	ejsonKey := []byte{}
	var err error

	if ejsonKeyFile != "" {
		ejsonKey, err = os.ReadFile(ejsonKeyFile)
		if err != nil {
			return nil, err
		}
	}
	raw, err := ejson.DecryptFile(filename, defaultEjsonDir, string(ejsonKey))
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(raw, &ejsonSecrets)
	return &ejsonSecrets, err
}

func readEnvSecrets() (*Secrets, error) {
	envSecrets := Secrets{}
	err := env.Parse(&envSecrets)
	return &envSecrets, err
}
