package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config carries every runtime setting the server needs. Values come from
// the environment (optionally seeded from a .env file by main).
type Config struct {
	ServerAddr string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddr     string
	RedisPassword string

	JWTSecret     string
	TokenTTL      time.Duration
	ResetTokenTTL time.Duration

	PresignEndpoint string
	PresignTimeout  time.Duration

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

// LoadConfig reads configuration from the environment with sane defaults.
func LoadConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "cryptidwatch")
	v.SetDefault("TOKEN_TTL_MINUTES", 10080) // 1 week
	v.SetDefault("RESET_TOKEN_TTL_MINUTES", 15)
	v.SetDefault("PRESIGN_TIMEOUT_SECONDS", 5)
	v.SetDefault("MINIO_BUCKET", "cryptid-photos")

	return &Config{
		ServerAddr: ":" + v.GetString("PORT"),

		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),

		JWTSecret:     v.GetString("JWT_SECRET"),
		TokenTTL:      time.Duration(v.GetInt("TOKEN_TTL_MINUTES")) * time.Minute,
		ResetTokenTTL: time.Duration(v.GetInt("RESET_TOKEN_TTL_MINUTES")) * time.Minute,

		PresignEndpoint: v.GetString("PRESIGN_ENDPOINT"),
		PresignTimeout:  time.Duration(v.GetInt("PRESIGN_TIMEOUT_SECONDS")) * time.Second,

		MinioEndpoint:  v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey: v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey: v.GetString("MINIO_SECRET_KEY"),
		MinioBucket:    v.GetString("MINIO_BUCKET"),
		MinioUseSSL:    v.GetBool("MINIO_USE_SSL"),
	}
}

// DSN builds the Postgres connection string.
func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=disable TimeZone=UTC"
}
