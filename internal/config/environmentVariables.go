package config

import (
	"log/slog"
	"time"
)

const (
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	//http rate limiter defaults, overridable from settings
	RATE_LIMIT_PER_SECOND       = 5
	BURST_RATE_LIMIT_PER_SECOND = 10

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//per job type timeouts
	IngestJobTimeout   = 10 * time.Minute
	GenerateJobTimeout = 30 * time.Minute
	EvaluateJobTimeout = 15 * time.Minute
	ChatJobTimeout     = 60 * time.Second

	//serverTimeouts
	ReadTimeout            = 15 * time.Second
	WriteTimeout           = 60 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//uploads
	MaxUploadSize = 32 << 20 //32mb

	//vectorDB
	QdrantHost            = "localhost"
	QdrantGrpcPort        = 6334
	QdrantUseTLS          = false
	QdrantPoolSize        = 1                //2-5 is preferred for prod according to documentation
	QdrantKeepAliveTime   = 30 * time.Second //5 * time.Minute for prod maybe- fine tune for performance
	DefaultCollectionName = "questionnaire-chunks"

	//the embedding models in use support reduced output dimensionality
	EmbeddingOutputDimensionality int32 = 768
	//gemini embed content accepts at most 100 contents per request
	GoogleEmbeddingBatchLimit = 100
	OpenAIEmbeddingBatchLimit = 2048

	//llm
	GeminiModelName      = "gemini-2.5-flash-lite"
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIModelName      = "gpt-4o-mini"
	OpenAIEmbeddingModel = "text-embedding-3-small"

	ModelTemperature float32 = 0.2

	//upstream retry policy
	UpstreamMaxRetries   = 3
	UpstreamBaseDelay    = 200 * time.Millisecond
	UpstreamMaxDelay     = 5 * time.Second
	UpstreamCallsPerSec  = 5
	UpstreamBurstPerCall = 5

	//http client pool shared by the llm and embedding clients
	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second
	UpstreamHTTPTimeout = 120 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore        = 0
	RedisTranscriptStore = 1

	//redis timeouts
	RedisJobStoreTTL        = 24 * time.Hour
	RedisTranscriptStoreTTL = 7 * 24 * time.Hour

	//turns returned by the chat history endpoint
	TranscriptHistoryLimit = 50

	//rag defaults
	DefaultChunkSize     = 1000
	DefaultChunkOverlap  = 200
	DefaultTopK          = 5
	DefaultMinSimilarity = 0.25
	CitationSnippetRunes = 240

	//storage
	DefaultStoragePath = "storage/documents"
	DefaultDatabaseDSN = "file:storage/questionnaire.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
)
