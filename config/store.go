package config

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

type Store struct {
	Type     StoreType   `mapstructure:"type"`
	Memory   MemoryStore `mapstructure:"memory"`
	DynamoDB DynamoDB    `mapstructure:"dynamodb"`
	Retry    Retry       `mapstructure:"retry"`
}

type StoreType string

const (
	StoreMemory   StoreType = "memory"
	StoreDynamoDB StoreType = "dynamodb"
)

func (cfg *Store) validateAndLog() error {
	log.Infof("config.store.type: %s", cfg.Type)

	switch cfg.Type {
	case StoreMemory:
		log.Infof("config.store.memory.seed_file: %s", cfg.Memory.SeedFile)
	case StoreDynamoDB:
		if err := cfg.DynamoDB.validateAndLog(); err != nil {
			return err
		}
	default:
		return fmt.Errorf(`invalid config.store.type: %s. It must be "dynamodb" or "memory".`, cfg.Type)
	}
	return cfg.Retry.validateAndLog("config.store.retry")
}

type MemoryStore struct {
	// SeedFile optionally points to a JSON array of lift ride records.
	SeedFile string `mapstructure:"seed_file"`
}

type DynamoDB struct {
	Table            string `mapstructure:"table"`
	ResortDayIndex   string `mapstructure:"resort_day_index"`
	SkierResortIndex string `mapstructure:"skier_resort_index"`
	Region           string `mapstructure:"region"`
	Endpoint         string `mapstructure:"endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	SessionToken     string `mapstructure:"session_token"`
}

// HasStaticCredentials tells whether an access key pair was configured. Without
// one the AWS SDK falls back to its default credential chain.
func (cfg *DynamoDB) HasStaticCredentials() bool {
	return cfg.AccessKey != "" && cfg.SecretKey != ""
}

func (cfg *DynamoDB) validateAndLog() error {
	if cfg.Table == "" {
		return fmt.Errorf("config.store.dynamodb.table can't be empty")
	}
	if cfg.ResortDayIndex == "" || cfg.SkierResortIndex == "" {
		return fmt.Errorf("config.store.dynamodb.resort_day_index and config.store.dynamodb.skier_resort_index are both required")
	}
	if cfg.Region == "" {
		return fmt.Errorf("config.store.dynamodb.region can't be empty")
	}
	log.Infof("config.store.dynamodb.table: %s", cfg.Table)
	log.Infof("config.store.dynamodb.resort_day_index: %s", cfg.ResortDayIndex)
	log.Infof("config.store.dynamodb.skier_resort_index: %s", cfg.SkierResortIndex)
	log.Infof("config.store.dynamodb.region: %s", cfg.Region)
	log.Infof("config.store.dynamodb.endpoint: %s", cfg.Endpoint)
	log.Infof("config.store.dynamodb.static_credentials: %t", cfg.HasStaticCredentials())
	return nil
}
