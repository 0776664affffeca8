package redis

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// KeyPrefix namespaces the document key so several games can share a server
	KeyPrefix string

	// MaxUpdateRetries bounds how often a conflicting optimistic update is retried
	MaxUpdateRetries int
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:              "redis://localhost:6379",
		PoolSize:         10,
		MinIdleConns:     2,
		KeyPrefix:        "partyscore",
		MaxUpdateRetries: 10,
	}
}
