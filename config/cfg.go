package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/helpers"
)

// DefaultBrokers is used when no KAFKA_BROKER_URL_<ENV> variable is set.
const DefaultBrokers = "kafka-1:9092,kafka-2:9093,kafka-3:9094"

type AppConfig struct {
	Env        string           `yaml:"env"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Queue      QueueConfig      `yaml:"queue"`
	Dispatcher DispatcherConfig `yaml:"dispatcher"`
	Worker     WorkerConfig     `yaml:"worker"`
	HTTP       HTTPConfig       `yaml:"http"`
	Project    ProjectConfig    `yaml:"project"`
	Fetch      FetchConfig      `yaml:"fetch"`
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
}

type OpenAIConfig struct {
	APIKey            string        `yaml:"-"`
	BaseURL           string        `yaml:"base_url"`
	SummarizeModel    string        `yaml:"summarize_model"`
	AssistantModel    string        `yaml:"assistant_model"`
	Temperature       float32       `yaml:"temperature"`
	RunPollInterval   time.Duration `yaml:"run_poll_interval"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
}

type QueueConfig struct {
	Brokers       []string      `yaml:"brokers"`
	InboundTopic  string        `yaml:"inbound_topic"`
	OutboundTopic string        `yaml:"outbound_topic"`
	GroupID       string        `yaml:"group_id"`
	PollTimeout   time.Duration `yaml:"poll_timeout"`
	IdleSleep     time.Duration `yaml:"idle_sleep"`
}

type DispatcherConfig struct {
	BufferSize     int           `yaml:"buffer_size"`
	StartDelay     time.Duration `yaml:"start_delay"`
	HealthInterval time.Duration `yaml:"health_interval"`
}

type WorkerConfig struct {
	Count int `yaml:"count"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
}

type ProjectConfig struct {
	FilesDir string `yaml:"files_dir"`
}

type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	AWSRegion string        `yaml:"aws_region"`
}

type DatabaseConfig struct {
	DSN string `yaml:"-"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file or environment overrides are present.
func Default() *AppConfig {
	return &AppConfig{
		Env: "dev",
		OpenAI: OpenAIConfig{
			SummarizeModel:  "gpt-3.5-turbo",
			AssistantModel:  "gpt-4o",
			Temperature:     0.5,
			RunPollInterval: 500 * time.Millisecond,
			RequestTimeout:  2 * time.Minute,
		},
		Queue: QueueConfig{
			Brokers:       helpers.SplitList(DefaultBrokers),
			InboundTopic:  "api.ai",
			OutboundTopic: "ai.api",
			GroupID:       "pdf_processor_group",
			PollTimeout:   time.Second,
			IdleSleep:     time.Second,
		},
		Dispatcher: DispatcherConfig{
			BufferSize:     10,
			HealthInterval: time.Minute,
		},
		Worker: WorkerConfig{Count: 1},
		HTTP: HTTPConfig{
			Addr:            ":5050",
			ShutdownTimeout: 10 * time.Second,
			MaxUploadBytes:  200 << 20,
		},
		Project: ProjectConfig{FilesDir: "./project_files"},
		Fetch:   FetchConfig{Timeout: time.Minute},
		Log:     LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads the optional YAML file at path on top of Default, then applies environment overrides.
// A path that does not exist is ignored.
func Load(path string) (*AppConfig, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BrokerEnvKey names the variable holding the broker list for env, e.g. KAFKA_BROKER_URL_DEV.
func BrokerEnvKey(env string) string {
	return "KAFKA_BROKER_URL_" + strings.ToUpper(env)
}

func (c *AppConfig) applyEnv() error {
	c.Env = helpers.GetEnvOrDefault("ENV", c.Env)
	c.OpenAI.APIKey = helpers.GetEnvVariable("OPENAI_API_KEY")
	c.OpenAI.BaseURL = helpers.GetEnvOrDefault("OPENAI_BASE_URL", c.OpenAI.BaseURL)

	if brokers := helpers.SplitList(helpers.GetEnvVariable(BrokerEnvKey(c.Env))); len(brokers) > 0 {
		c.Queue.Brokers = brokers
	}

	c.HTTP.Addr = helpers.GetEnvOrDefault("HTTP_ADDR", c.HTTP.Addr)
	c.Project.FilesDir = helpers.GetEnvOrDefault("PROJECT_FILES_DIR", c.Project.FilesDir)
	c.Database.DSN = helpers.GetEnvVariable("DB_DSN")
	c.Fetch.AWSRegion = helpers.GetEnvOrDefault("AWS_REGION", c.Fetch.AWSRegion)
	c.Log.Level = helpers.GetEnvOrDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Format = helpers.GetEnvOrDefault("LOG_FORMAT", c.Log.Format)

	if raw := helpers.GetEnvVariable("WORKER_COUNT"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("parse WORKER_COUNT: %w", err)
		}
		c.Worker.Count = n
	}
	return nil
}

// Validate reports the first setting that would prevent the service from starting.
func (c *AppConfig) Validate() error {
	switch {
	case c.OpenAI.APIKey == "":
		return errors.New("OPENAI_API_KEY not set")
	case len(c.Queue.Brokers) == 0:
		return errors.New("no kafka brokers configured")
	case c.Queue.InboundTopic == "" || c.Queue.OutboundTopic == "":
		return errors.New("queue topics must not be empty")
	case c.Queue.PollTimeout <= 0 || c.Queue.IdleSleep <= 0:
		return errors.New("queue poll timeout and idle sleep must be positive")
	case c.OpenAI.RunPollInterval <= 0:
		return errors.New("openai run poll interval must be positive")
	case c.Worker.Count < 1:
		return fmt.Errorf("worker count must be at least 1, got %d", c.Worker.Count)
	case c.Project.FilesDir == "":
		return errors.New("project files dir must not be empty")
	}
	return nil
}
