package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Camera   CameraConfig   `yaml:"camera"`
	Bus      BusConfig      `yaml:"bus"`
	MinIO    MinIOConfig    `yaml:"minio"`
	Models   ModelsConfig   `yaml:"models"`
	Episode  EpisodeConfig  `yaml:"episode"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type CameraConfig struct {
	BufferID string `yaml:"buffer_id"`
	URL      string `yaml:"url"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
}

type BusConfig struct {
	URL string `yaml:"url"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// ModelsConfig carries the two model-file paths and the cascade thresholds
// from spec.md §4.4/§6's two-model-file contract.
type ModelsConfig struct {
	PersonModelPath   string  `yaml:"person_model_path"`
	DeliveryModelPath string  `yaml:"delivery_model_path"`
	PersonThreshold   float64 `yaml:"person_threshold"`
	DeliveryThreshold float64 `yaml:"delivery_threshold"`
	TopKCapacity      int     `yaml:"topk_capacity"`
}

type EpisodeConfig struct {
	QuietInterval time.Duration `yaml:"quiet_interval"`
	ROI           []Point       `yaml:"roi"`
	DOI           bool          `yaml:"doi"`
	DebugDumpDir  string        `yaml:"debug_dump_dir"`
}

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads config from YAML file and applies environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Camera.Width == 0 {
		cfg.Camera.Width = 1280
	}
	if cfg.Camera.Height == 0 {
		cfg.Camera.Height = 720
	}
	if cfg.Camera.BufferID == "" {
		cfg.Camera.BufferID = "cam0"
	}
	if cfg.Bus.URL == "" {
		cfg.Bus.URL = "nats://127.0.0.1:4222"
	}
	if cfg.Models.PersonThreshold == 0 {
		cfg.Models.PersonThreshold = 0.60
	}
	if cfg.Models.DeliveryThreshold == 0 {
		cfg.Models.DeliveryThreshold = 0.87
	}
	if cfg.Models.TopKCapacity == 0 {
		cfg.Models.TopKCapacity = 5
	}
	if cfg.Episode.QuietInterval == 0 {
		cfg.Episode.QuietInterval = 1 * time.Second
	}
	if cfg.Episode.DebugDumpDir == "" {
		cfg.Episode.DebugDumpDir = "/tmp/.store"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9090"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CAMGUARD_CAMERA_URL"); v != "" {
		cfg.Camera.URL = v
	}
	if v := os.Getenv("CAMGUARD_CAMERA_BUFFER_ID"); v != "" {
		cfg.Camera.BufferID = v
	}
	if v := os.Getenv("CAMGUARD_CAMERA_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Camera.Width = n
		}
	}
	if v := os.Getenv("CAMGUARD_CAMERA_HEIGHT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Camera.Height = n
		}
	}
	if v := os.Getenv("CAMGUARD_BUS_URL"); v != "" {
		cfg.Bus.URL = v
	}
	if v := os.Getenv("CAMGUARD_MINIO_ENDPOINT"); v != "" {
		cfg.MinIO.Endpoint = v
	}
	if v := os.Getenv("CAMGUARD_MINIO_ACCESS_KEY"); v != "" {
		cfg.MinIO.AccessKey = v
	}
	if v := os.Getenv("CAMGUARD_MINIO_SECRET_KEY"); v != "" {
		cfg.MinIO.SecretKey = v
	}
	if v := os.Getenv("CAMGUARD_MINIO_BUCKET"); v != "" {
		cfg.MinIO.Bucket = v
	}
	if v := os.Getenv("CAMGUARD_PERSON_MODEL_PATH"); v != "" {
		cfg.Models.PersonModelPath = v
	}
	if v := os.Getenv("CAMGUARD_DELIVERY_MODEL_PATH"); v != "" {
		cfg.Models.DeliveryModelPath = v
	}
	if v := os.Getenv("CAMGUARD_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CAMGUARD_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("CAMGUARD_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
}
