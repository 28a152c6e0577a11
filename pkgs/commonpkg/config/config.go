package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/database"
	"gopkg.in/yaml.v3"
)

////////////////////////////////////////////////////////////////////////////////

const (
	ENV_CONFIG_PATH       = "CRYPTOAGENT_CONFIG"
	ENV_OPENAI_API_KEY    = "OPENAI_API_KEY"
	ENV_OPENAI_BASE_URL   = "OPENAI_BASE_URL"
	ENV_COINGECKO_API_KEY = "COINGECKO_API_KEY"
	ENV_PORT              = "PORT"
)

const (
	VECTOR_BACKEND_CHROMIA = "chromia"
	VECTOR_BACKEND_CHROMEM = "chromem"
	VECTOR_BACKEND_CHROMA  = "chroma"
)

var ErrMissingKey = errors.New("missing required configuration key")

////////////////////////////////////////////////////////////////////////////////
// Configuration Structures
////////////////////////////////////////////////////////////////////////////////

type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigin   string        `yaml:"allowed_origin"`
}

type LLMConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	EmbeddingModel string `yaml:"embedding_model"`

	AnswerModel       string  `yaml:"answer_model"`
	AnswerTemperature float64 `yaml:"answer_temperature"`

	ExtractionModel       string  `yaml:"extraction_model"`
	ExtractionTemperature float64 `yaml:"extraction_temperature"`
	ExtractionMaxTokens   int     `yaml:"extraction_max_tokens"`
}

type CoinGeckoConfig struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	MinInterval time.Duration `yaml:"min_interval"` // minimum spacing between two requests
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"max_retries"` // transport retries on 5xx only
	CachePath   string        `yaml:"cache_path"`  // empty disables the coin id cache
	CacheTTL    time.Duration `yaml:"cache_ttl"`
}

type ChromiaConfig struct {
	PmcBin         string        `yaml:"pmc_bin"`
	ChrBin         string        `yaml:"chr_bin"`
	BlockchainName string        `yaml:"blockchain_name"`
	WorkDir        string        `yaml:"work_dir"`
	NodeURL        string        `yaml:"node_url"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxDistance    float64       `yaml:"max_distance"`
}

type ChromaConfig struct {
	URL        string `yaml:"url"`
	Collection string `yaml:"collection"`
}

type ChromemConfig struct {
	Path       string `yaml:"path"` // empty keeps the collection in memory
	Collection string `yaml:"collection"`
	Compress   bool   `yaml:"compress"`
}

type VectorStoreConfig struct {
	Backend string        `yaml:"backend"` // "chromia", "chromem" or "chroma"
	Chromia ChromiaConfig `yaml:"chromia"`
	Chromem ChromemConfig `yaml:"chromem"`
	Chroma  ChromaConfig  `yaml:"chroma"`
}

type AgentConfig struct {
	SearchResults  int           `yaml:"search_results"`
	TopK           int           `yaml:"top_k"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Persist        bool          `yaml:"persist"`
}

type IngestConfig struct {
	Workers   int `yaml:"workers"`
	ChunkSize int `yaml:"chunk_size"` // words per history chunk
}

type LogConfig struct {
	Debug bool   `yaml:"debug"`
	File  string `yaml:"file"`
}

// Config represents the main application configuration
type Config struct {
	Server      ServerConfig            `yaml:"server"`
	LLM         LLMConfig               `yaml:"llm"`
	CoinGecko   CoinGeckoConfig         `yaml:"coingecko"`
	VectorStore VectorStoreConfig       `yaml:"vector_store"`
	Agent       AgentConfig             `yaml:"agent"`
	Ingest      IngestConfig            `yaml:"ingest"`
	Database    database.DatabaseConfig `yaml:"database"`
	Log         LogConfig               `yaml:"log"`
}

////////////////////////////////////////////////////////////////////////////////

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8010",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			AllowedOrigin:   "*",
		},
		LLM: LLMConfig{
			EmbeddingModel:        "text-embedding-3-small",
			AnswerModel:           "gpt-4o-mini",
			AnswerTemperature:     0.4,
			ExtractionModel:       "gpt-4o-mini",
			ExtractionTemperature: 0.0,
			ExtractionMaxTokens:   50,
		},
		CoinGecko: CoinGeckoConfig{
			BaseURL:     "https://pro-api.coingecko.com/api/v3",
			MinInterval: 50 * time.Millisecond,
			Timeout:     30 * time.Second,
			MaxRetries:  0,
			CacheTTL:    24 * time.Hour,
		},
		VectorStore: VectorStoreConfig{
			Backend: VECTOR_BACKEND_CHROMIA,
			Chromia: ChromiaConfig{
				PmcBin:         "pmc",
				ChrBin:         "chr",
				BlockchainName: "vector_blockchain",
				NodeURL:        "http://localhost:7740",
				Timeout:        60 * time.Second,
				MaxDistance:    1.0,
			},
			Chromem: ChromemConfig{
				Collection: "crypto_messages",
			},
			Chroma: ChromaConfig{
				URL:        "http://localhost:8000",
				Collection: "crypto_messages",
			},
		},
		Agent: AgentConfig{
			SearchResults:  5,
			TopK:           3,
			RequestTimeout: 90 * time.Second,
			Persist:        true,
		},
		Ingest: IngestConfig{
			Workers:   4,
			ChunkSize: 512,
		},
		Database: database.DatabaseConfig{
			Type: database.DATABASE_TYPE_SQLITE,
			Path: "./data/cryptoagent.db",
		},
	}
}

////////////////////////////////////////////////////////////////////////////////
// Configuration Management Functions
////////////////////////////////////////////////////////////////////////////////

// ReadConfig reads configuration from the specified path on top of the defaults.
func ReadConfig(path string) (*Config, error) {
	file, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	result := Default()
	if err := yaml.Unmarshal(data, result); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return result, nil
}

// WriteConfig writes configuration to the specified path
func WriteConfig(path string, conf *Config) error {
	file, err := os.OpenFile(path, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := yaml.Marshal(conf)
	if err != nil {
		return err
	}
	_, err = io.Copy(file, bytes.NewReader(data))
	return err
}

// Load reads the config file (explicit path, then $CRYPTOAGENT_CONFIG, then
// defaults only) and applies environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(ENV_CONFIG_PATH)
	}

	conf := Default()
	if path != "" {
		var err error
		conf, err = ReadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	conf.ApplyEnv()
	return conf, nil
}

// ApplyEnv overrides secrets and the listen port from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(ENV_OPENAI_API_KEY); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(ENV_OPENAI_BASE_URL); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv(ENV_COINGECKO_API_KEY); v != "" {
		c.CoinGecko.APIKey = v
	}
	if v := os.Getenv(ENV_PORT); v != "" {
		c.Server.Port = v
	}
}

// Validate checks everything the server needs before it starts serving.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("%w: %s", ErrMissingKey, ENV_OPENAI_API_KEY)
	}
	if c.CoinGecko.APIKey == "" {
		return fmt.Errorf("%w: %s", ErrMissingKey, ENV_COINGECKO_API_KEY)
	}

	switch c.VectorStore.Backend {
	case VECTOR_BACKEND_CHROMIA, VECTOR_BACKEND_CHROMEM, VECTOR_BACKEND_CHROMA:
	default:
		return fmt.Errorf("unsupported vector store backend: %q", c.VectorStore.Backend)
	}

	if c.Agent.SearchResults <= 0 || c.Agent.TopK <= 0 {
		return fmt.Errorf("agent.search_results and agent.top_k must be positive")
	}
	if c.Ingest.Workers <= 0 || c.Ingest.ChunkSize <= 0 {
		return fmt.Errorf("ingest.workers and ingest.chunk_size must be positive")
	}
	if c.CoinGecko.MinInterval < 0 {
		return fmt.Errorf("coingecko.min_interval must not be negative")
	}
	return nil
}
