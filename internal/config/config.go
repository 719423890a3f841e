package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	SessionSecret string
	GinMode       string
	ServerPort    string
	OpenAIAPIKey  string

	ElasticURL        string
	ElasticUsername   string
	ElasticPassword   string
	SearchIndexPrefix string
	SearchCacheTTL    time.Duration

	// EnforceVolunteerCapacity rejects acceptances once a task has as many
	// accepted volunteers as it asked for.
	EnforceVolunteerCapacity bool

	LogFile     string
	CORSOrigins []string
}

func Load() *Config {
	return &Config{
		DBDriver:      getEnv("DB_DRIVER", "mysql"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "skilluser"),
		DBPassword:    getEnv("DB_PASSWORD", "skillpassword"),
		DBName:        getEnv("DB_NAME", "skillanthropy"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),

		ElasticURL:        getEnv("ELASTIC_URL", ""),
		ElasticUsername:   getEnv("ELASTIC_USERNAME", ""),
		ElasticPassword:   getEnv("ELASTIC_PASSWORD", ""),
		SearchIndexPrefix: getEnv("SEARCH_INDEX_PREFIX", "skillanthropy"),
		SearchCacheTTL:    getDuration("SEARCH_CACHE_TTL", time.Minute),

		EnforceVolunteerCapacity: getBool("ENFORCE_VOLUNTEER_CAPACITY", false),

		LogFile:     getEnv("LOG_FILE", "logs/app.log"),
		CORSOrigins: getList("CORS_ORIGINS", []string{"http://localhost:3000"}),
	}
}

// RedisAddr returns host:port for the redis client and session store.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// SearchEnabled reports whether an Elasticsearch endpoint is configured.
func (c *Config) SearchEnabled() bool {
	return c.ElasticURL != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getList(key string, defaultValue []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
