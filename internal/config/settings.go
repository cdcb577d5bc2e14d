package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/appErrors"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const envPrefix = "QA_"

// Settings is the runtime configuration. Precedence, lowest first: defaults, config file,
// .env file, QA_* environment variables.
type Settings struct {
	Env         string `yaml:"env" toml:"env"`
	LogLevel    string `yaml:"log_level" toml:"log_level"`
	ListenAddr  string `yaml:"listen_addr" toml:"listen_addr"`
	StoragePath string `yaml:"storage_path" toml:"storage_path"`
	InboxPath   string `yaml:"inbox_path" toml:"inbox_path"`

	Database  DatabaseSettings  `yaml:"database" toml:"database"`
	Redis     RedisSettings     `yaml:"redis" toml:"redis"`
	Vector    VectorSettings    `yaml:"vector" toml:"vector"`
	Qdrant    QdrantSettings    `yaml:"qdrant" toml:"qdrant"`
	Embedding ProviderSettings  `yaml:"embedding" toml:"embedding"`
	LLM       LLMSettings       `yaml:"llm" toml:"llm"`
	Google    CredentialSetting `yaml:"google" toml:"google"`
	OpenAI    OpenAISettings    `yaml:"openai" toml:"openai"`
	RAG       RAGSettings       `yaml:"rag" toml:"rag"`
	RateLimit RateLimitSettings `yaml:"rate_limit" toml:"rate_limit"`
	Upstream  UpstreamSettings  `yaml:"upstream" toml:"upstream"`
	Workers   WorkerSettings    `yaml:"workers" toml:"workers"`
}

type DatabaseSettings struct {
	Driver string `yaml:"driver" toml:"driver"` // sqlite | pgx
	DSN    string `yaml:"dsn" toml:"dsn"`
}

type RedisSettings struct {
	Addr     string `yaml:"addr" toml:"addr"`
	Password string `yaml:"password" toml:"password"`
	Disabled bool   `yaml:"disabled" toml:"disabled"`
}

type VectorSettings struct {
	Backend    string `yaml:"backend" toml:"backend"` // qdrant | memory | pgvector
	Collection string `yaml:"collection" toml:"collection"`
	Dimension  int    `yaml:"dimension" toml:"dimension"`
	DSN        string `yaml:"dsn" toml:"dsn"` // pgvector only
}

type QdrantSettings struct {
	Host     string `yaml:"host" toml:"host"`
	Port     int    `yaml:"port" toml:"port"`
	APIKey   string `yaml:"api_key" toml:"api_key"`
	UseTLS   bool   `yaml:"use_tls" toml:"use_tls"`
	PoolSize int    `yaml:"pool_size" toml:"pool_size"`
}

type ProviderSettings struct {
	Provider string `yaml:"provider" toml:"provider"` // gemini | openai
	Model    string `yaml:"model" toml:"model"`
}

type LLMSettings struct {
	Provider    string  `yaml:"provider" toml:"provider"`
	Model       string  `yaml:"model" toml:"model"`
	Temperature float32 `yaml:"temperature" toml:"temperature"`
}

type CredentialSetting struct {
	APIKey string `yaml:"api_key" toml:"api_key"`
}

type OpenAISettings struct {
	APIKey  string `yaml:"api_key" toml:"api_key"`
	BaseURL string `yaml:"base_url" toml:"base_url"`
}

type RAGSettings struct {
	ChunkSize     int     `yaml:"chunk_size" toml:"chunk_size"`
	ChunkOverlap  int     `yaml:"chunk_overlap" toml:"chunk_overlap"`
	TopK          int     `yaml:"top_k" toml:"top_k"`
	MinSimilarity float64 `yaml:"min_similarity" toml:"min_similarity"`
}

type RateLimitSettings struct {
	RPS   float64 `yaml:"rps" toml:"rps"`
	Burst int     `yaml:"burst" toml:"burst"`
}

type UpstreamSettings struct {
	RPS        float64 `yaml:"rps" toml:"rps"`
	MaxRetries int     `yaml:"max_retries" toml:"max_retries"`
}

type WorkerSettings struct {
	Max int64 `yaml:"max" toml:"max"`
}

// Default returns the settings used when nothing else is configured.
func Default() *Settings {
	return &Settings{
		Env:         "development",
		LogLevel:    "debug",
		ListenAddr:  ServerListenAddr,
		StoragePath: DefaultStoragePath,
		Database:    DatabaseSettings{Driver: "sqlite", DSN: DefaultDatabaseDSN},
		Redis:       RedisSettings{Addr: RedisAddr},
		Vector: VectorSettings{
			Backend:    "qdrant",
			Collection: DefaultCollectionName,
			Dimension:  int(EmbeddingOutputDimensionality),
		},
		Qdrant:    QdrantSettings{Host: QdrantHost, Port: QdrantGrpcPort, UseTLS: QdrantUseTLS, PoolSize: QdrantPoolSize},
		Embedding: ProviderSettings{Provider: "gemini", Model: GoogleEmbeddingModel},
		LLM:       LLMSettings{Provider: "gemini", Model: GeminiModelName, Temperature: ModelTemperature},
		RAG: RAGSettings{
			ChunkSize:     DefaultChunkSize,
			ChunkOverlap:  DefaultChunkOverlap,
			TopK:          DefaultTopK,
			MinSimilarity: DefaultMinSimilarity,
		},
		RateLimit: RateLimitSettings{RPS: RATE_LIMIT_PER_SECOND, Burst: BURST_RATE_LIMIT_PER_SECOND},
		Upstream:  UpstreamSettings{RPS: UpstreamCallsPerSec, MaxRetries: UpstreamMaxRetries},
		Workers:   WorkerSettings{Max: MaxWorkerCount},
	}
}

// Load builds the settings from an optional config file (.yaml, .yml or .toml), an optional
// .env file in the working directory and the QA_* environment. It does not validate.
func Load(path string) (*Settings, error) {
	s := Default()

	if path != "" {
		if err := s.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, appErrors.NewConfigurationError("reading .env: %v", err)
	}
	s.applyEnv()
	return s, nil
}

func (s *Settings) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return appErrors.NewConfigurationError("reading config file %s: %v", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, s)
	case ".toml":
		err = toml.Unmarshal(data, s)
	default:
		return appErrors.NewConfigurationError("unsupported config file type %q", filepath.Ext(path))
	}
	if err != nil {
		return appErrors.NewConfigurationError("parsing config file %s: %v", path, err)
	}
	return nil
}

func (s *Settings) applyEnv() {
	s.Env = getEnv("ENV", s.Env)
	s.LogLevel = getEnv("LOG_LEVEL", s.LogLevel)
	s.ListenAddr = getEnv("LISTEN_ADDR", s.ListenAddr)
	s.StoragePath = getEnv("STORAGE_PATH", s.StoragePath)
	s.InboxPath = getEnv("INBOX_PATH", s.InboxPath)

	s.Database.Driver = getEnv("DATABASE_DRIVER", s.Database.Driver)
	s.Database.DSN = getEnv("DATABASE_URL", s.Database.DSN)

	s.Redis.Addr = getEnv("REDIS_ADDR", s.Redis.Addr)
	s.Redis.Password = getEnv("REDIS_PASSWORD", s.Redis.Password)
	s.Redis.Disabled = getEnvBool("REDIS_DISABLED", s.Redis.Disabled)

	s.Vector.Backend = getEnv("VECTOR_BACKEND", s.Vector.Backend)
	s.Vector.Collection = getEnv("VECTOR_COLLECTION", s.Vector.Collection)
	s.Vector.Dimension = getEnvInt("VECTOR_DIMENSION", s.Vector.Dimension)
	s.Vector.DSN = getEnv("VECTOR_DSN", s.Vector.DSN)

	s.Qdrant.Host = getEnv("QDRANT_HOST", s.Qdrant.Host)
	s.Qdrant.Port = getEnvInt("QDRANT_PORT", s.Qdrant.Port)
	s.Qdrant.APIKey = getEnv("QDRANT_API_KEY", s.Qdrant.APIKey)
	s.Qdrant.UseTLS = getEnvBool("QDRANT_USE_TLS", s.Qdrant.UseTLS)
	s.Qdrant.PoolSize = getEnvInt("QDRANT_POOL_SIZE", s.Qdrant.PoolSize)

	s.Embedding.Provider = getEnv("EMBEDDING_PROVIDER", s.Embedding.Provider)
	s.Embedding.Model = getEnv("EMBED_MODEL", s.Embedding.Model)
	s.LLM.Provider = getEnv("LLM_PROVIDER", s.LLM.Provider)
	s.LLM.Model = getEnv("LLM_MODEL", s.LLM.Model)
	s.LLM.Temperature = float32(getEnvFloat("LLM_TEMPERATURE", float64(s.LLM.Temperature)))

	s.Google.APIKey = getEnv("GOOGLE_API_KEY", s.Google.APIKey)
	s.OpenAI.APIKey = getEnv("OPENAI_API_KEY", s.OpenAI.APIKey)
	s.OpenAI.BaseURL = getEnv("OPENAI_BASE_URL", s.OpenAI.BaseURL)

	s.RAG.ChunkSize = getEnvInt("CHUNK_SIZE", s.RAG.ChunkSize)
	s.RAG.ChunkOverlap = getEnvInt("CHUNK_OVERLAP", s.RAG.ChunkOverlap)
	s.RAG.TopK = getEnvInt("TOP_K", s.RAG.TopK)
	s.RAG.MinSimilarity = getEnvFloat("MIN_SIMILARITY", s.RAG.MinSimilarity)

	s.RateLimit.RPS = getEnvFloat("RATE_LIMIT_RPS", s.RateLimit.RPS)
	s.RateLimit.Burst = getEnvInt("RATE_LIMIT_BURST", s.RateLimit.Burst)
	s.Upstream.RPS = getEnvFloat("UPSTREAM_RPS", s.Upstream.RPS)
	s.Upstream.MaxRetries = getEnvInt("UPSTREAM_MAX_RETRIES", s.Upstream.MaxRetries)
	s.Workers.Max = int64(getEnvInt("WORKERS_MAX", int(s.Workers.Max)))
}

// Validate reports every invalid setting at once.
func (s *Settings) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if s.RAG.ChunkSize <= 0 {
		add("chunk_size must be > 0, got %d", s.RAG.ChunkSize)
	}
	if s.RAG.ChunkOverlap < 0 {
		add("chunk_overlap must be >= 0, got %d", s.RAG.ChunkOverlap)
	}
	if s.RAG.ChunkSize <= s.RAG.ChunkOverlap {
		add("chunk_size (%d) must be greater than chunk_overlap (%d)", s.RAG.ChunkSize, s.RAG.ChunkOverlap)
	}
	if s.RAG.TopK <= 0 {
		add("top_k must be > 0, got %d", s.RAG.TopK)
	}
	if s.RAG.MinSimilarity < 0 || s.RAG.MinSimilarity > 1 {
		add("min_similarity must be within [0,1], got %v", s.RAG.MinSimilarity)
	}
	if s.StoragePath == "" {
		add("storage_path is required")
	}

	switch s.Database.Driver {
	case "sqlite", "pgx":
	default:
		add("database.driver must be sqlite or pgx, got %q", s.Database.Driver)
	}
	if s.Database.DSN == "" {
		add("database.dsn is required")
	}

	switch s.Vector.Backend {
	case "qdrant":
		if s.Qdrant.Host == "" || s.Qdrant.Port <= 0 {
			add("qdrant.host and qdrant.port are required for the qdrant backend")
		}
	case "pgvector":
		if s.Vector.DSN == "" && s.Database.Driver != "pgx" {
			add("vector.dsn is required for pgvector unless database.driver is pgx")
		}
	case "memory":
	default:
		add("vector.backend must be qdrant, pgvector or memory, got %q", s.Vector.Backend)
	}
	if s.Vector.Dimension <= 0 {
		add("vector.dimension must be > 0")
	}

	for _, provider := range []struct{ name, value string }{
		{"embedding.provider", s.Embedding.Provider},
		{"llm.provider", s.LLM.Provider},
	} {
		switch provider.value {
		case "gemini":
			if s.Google.APIKey == "" {
				add("%s gemini requires google.api_key (QA_GOOGLE_API_KEY)", provider.name)
			}
		case "openai":
			if s.OpenAI.APIKey == "" && s.OpenAI.BaseURL == "" {
				add("%s openai requires openai.api_key or openai.base_url", provider.name)
			}
		default:
			add("%s must be gemini or openai, got %q", provider.name, provider.value)
		}
	}

	if len(problems) > 0 {
		return &appErrors.ConfigurationError{Problems: problems}
	}
	return nil
}

func (s *Settings) IsProd() bool {
	return strings.EqualFold(s.Env, "production") || strings.EqualFold(s.Env, "prod")
}

func (s *Settings) SlogLevel() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	}
	if s.IsProd() {
		return LOG_LEVEL_PROD
	}
	return slog.LevelDebug
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(envPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(envPrefix + key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(envPrefix + key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(envPrefix + key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
