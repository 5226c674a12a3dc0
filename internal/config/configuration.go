package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const DefaultConfigurationFile = "folio.yaml"

var validate = validator.New()

type Configuration struct {
	Server     ServerConfig   `yaml:"server"`
	Database   DatabaseConfig `yaml:"database"`
	Storage    StorageConfig  `yaml:"storage"`
	Auth       AuthConfig     `yaml:"auth"`
	Janitor    JanitorConfig  `yaml:"janitor"`
	Categories []string       `yaml:"categories" validate:"dive,required"`
}

type ServerConfig struct {
	Port          int           `yaml:"port" validate:"min=1,max=65535"`
	Concurrency   int           `yaml:"concurrency" validate:"min=1"`
	LogConfig     LogConfig     `yaml:"log"`
	RequestConfig RequestConfig `yaml:"request"`
}

type LogConfig struct {
	Level   string `yaml:"level" validate:"omitempty,oneof=debug info warn error fatal panic"`
	Format  string `yaml:"format" validate:"omitempty,oneof=json text"`
	Output  string `yaml:"output" validate:"omitempty,oneof=stdout file"`
	LogPath string `yaml:"log_path" validate:"required_if=Output file"`
}

type RequestConfig struct {
	// SizeLimit is the request body limit in MiB.
	SizeLimit int `yaml:"size_limit" validate:"min=1"`
}

type DatabaseConfig struct {
	Driver     string `yaml:"driver" validate:"oneof=postgres sqlite mysql"`
	SqlitePath string `yaml:"sqlite_path" validate:"required_if=Driver sqlite"`
}

type StorageConfig struct {
	Backend       string       `yaml:"backend" validate:"oneof=filesystem s3 badger"`
	Path          string       `yaml:"path" validate:"required_if=Backend filesystem"`
	PublicBaseURL string       `yaml:"public_base_url" validate:"omitempty,url"`
	S3            S3Config     `yaml:"s3"`
	Badger        BadgerConfig `yaml:"badger"`
}

type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint" validate:"omitempty,url"`
	KeyPrefix       string `yaml:"key_prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type BadgerConfig struct {
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory"`
}

type AuthConfig struct {
	SessionTTL time.Duration `yaml:"session_ttl" validate:"min=0"`
}

type JanitorConfig struct {
	Schedule string `yaml:"schedule" validate:"required"`
}

func LoadConfiguration(configurationFilePath string) (*Configuration, error) {
	data, err := os.ReadFile(configurationFilePath)
	if err != nil {
		return nil, err
	}
	return ParseConfiguration(data)
}

func ParseConfiguration(data []byte) (*Configuration, error) {
	var config Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	ApplyDefaults(&config)
	if err := Validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func ApplyDefaults(config *Configuration) {
	if config.Server.Port == 0 {
		config.Server.Port = 3000
	}
	if config.Server.Concurrency == 0 {
		config.Server.Concurrency = 256
	}
	if config.Server.RequestConfig.SizeLimit == 0 {
		config.Server.RequestConfig.SizeLimit = 100
	}
	if config.Server.LogConfig.Level == "" {
		config.Server.LogConfig.Level = "info"
	}
	if config.Server.LogConfig.Format == "" {
		config.Server.LogConfig.Format = "text"
	}
	if config.Server.LogConfig.Output == "" {
		config.Server.LogConfig.Output = "stdout"
	}
	if config.Database.Driver == "" {
		config.Database.Driver = "postgres"
	}
	if config.Storage.Backend == "" {
		config.Storage.Backend = "filesystem"
	}
	if config.Auth.SessionTTL == 0 {
		config.Auth.SessionTTL = 24 * time.Hour
	}
	if config.Janitor.Schedule == "" {
		config.Janitor.Schedule = "@every 10m"
	}
}

func Validate(config *Configuration) error {
	if err := validate.Struct(config); err != nil {
		return formatValidationError(err)
	}
	switch config.Storage.Backend {
	case "s3":
		if config.Storage.S3.Bucket == "" || config.Storage.S3.Region == "" {
			return fmt.Errorf("storage.s3: bucket and region are required for the s3 backend")
		}
	case "badger":
		if config.Storage.Badger.Path == "" && !config.Storage.Badger.InMemory {
			return fmt.Errorf("storage.badger: path is required unless in_memory is set")
		}
	}
	return nil
}

func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok && len(validationErrs) > 0 {
		e := validationErrs[0]
		return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)", e.Namespace(), e.Tag(), e.Value())
	}
	return err
}
