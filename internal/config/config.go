package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers
const (
	StoreMongoDB   = "mongodb"
	StoreFirestore = "firestore"
	StoreMemory    = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	MongoDB   MongoDBConfig
	Firestore FirestoreConfig
	Redis     RedisConfig
	JWT       JWTConfig
	GreenAPI  GreenAPIConfig
	Email     EmailConfig
	Lottery   LotteryConfig
	LogLevel  string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port          string
	AllowedHosts  []string
	PublicBaseURL string
}

// StoreConfig selects the storage driver
type StoreConfig struct {
	Driver string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// FirestoreConfig holds Firestore-specific configuration
type FirestoreConfig struct {
	ProjectID       string
	CredentialsFile string
}

// RedisConfig holds the short link cache configuration. An empty Addr disables the cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// GreenAPIConfig holds the WhatsApp gateway configuration
type GreenAPIConfig struct {
	BaseURL    string
	InstanceID string
	Token      string
	Mock       bool
}

// EmailConfig holds SendGrid configuration
type EmailConfig struct {
	SendGridAPIKey  string
	From            string
	FromName        string
	SuperAdminEmail string
	Mock            bool
}

// LotteryConfig holds the draw and sharing rules
type LotteryConfig struct {
	WeightedAdditionalWinners bool
	ShortIDLength             int
	LeaderboardSize           int
	MaxWinners                int
	DefaultCountryCode        string
}

// Load loads configuration from .env, an optional config file and environment variables
func Load(paths ...string) (*Config, error) {
	// A missing .env file is normal outside local development
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// Hosting platforms hand the listen port over in PORT
	config.Server.Port = GetEnv("PORT", config.Server.Port)
	if hosts := GetEnvAsSlice("ALLOWED_HOSTS", ",", nil); hosts != nil {
		config.Server.AllowedHosts = hosts
	}
	// Short aliases for the per-draw and leaderboard caps
	config.Lottery.MaxWinners = GetEnvAsInt("MAX_WINNERS", config.Lottery.MaxWinners)
	config.Lottery.LeaderboardSize = GetEnvAsInt("LEADERBOARD_SIZE", config.Lottery.LeaderboardSize)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects configurations the server cannot run with
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("config: JWT secret is required (JWT_SECRET)")
	}
	switch c.Store.Driver {
	case StoreMongoDB, StoreFirestore, StoreMemory:
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if c.Lottery.ShortIDLength < 1 {
		return errors.New("config: lottery short id length must be positive")
	}
	return nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Port", "4000")
	v.SetDefault("Server.AllowedHosts", []string{"http://localhost:3000"})
	v.SetDefault("Server.PublicBaseURL", "http://localhost:3000")
	v.SetDefault("Store.Driver", StoreMongoDB)
	v.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	v.SetDefault("MongoDB.Database", "viral-lottery")
	v.SetDefault("Firestore.ProjectID", "")
	v.SetDefault("Firestore.CredentialsFile", "")
	v.SetDefault("Redis.Addr", "")
	v.SetDefault("Redis.Password", "")
	v.SetDefault("Redis.DB", 0)
	v.SetDefault("Redis.TTL", 24*time.Hour)
	v.SetDefault("JWT.Secret", "")
	v.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	v.SetDefault("GreenAPI.BaseURL", "https://api.green-api.com")
	v.SetDefault("GreenAPI.InstanceID", "")
	v.SetDefault("GreenAPI.Token", "")
	v.SetDefault("GreenAPI.Mock", true)
	v.SetDefault("Email.SendGridAPIKey", "")
	v.SetDefault("Email.From", "no-reply@localhost")
	v.SetDefault("Email.FromName", "Viral Lottery")
	v.SetDefault("Email.SuperAdminEmail", "")
	v.SetDefault("Email.Mock", true)
	v.SetDefault("Lottery.WeightedAdditionalWinners", false)
	v.SetDefault("Lottery.ShortIDLength", 6)
	v.SetDefault("Lottery.LeaderboardSize", 5)
	v.SetDefault("Lottery.MaxWinners", 100)
	v.SetDefault("Lottery.DefaultCountryCode", "972")
	v.SetDefault("LogLevel", "info")
}
