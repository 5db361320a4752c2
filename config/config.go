package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Settings holds every value read from the environment
type Settings struct {
	Env  string
	Port string

	DBDriver   string
	DBDSN      string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisAddr     string
	RedisUser     string
	RedisPassword string

	AccessSecret  string
	RefreshSecret string

	GoogleClientID     string
	GithubClientID     string
	GithubClientSecret string
	GithubRedirectURL  string

	CloudinaryCloud  string
	CloudinaryKey    string
	CloudinarySecret string

	OllamaBaseURL     string
	OllamaModel       string
	OllamaTimeout     time.Duration
	OllamaMaxTokens   int
	OllamaTemperature float64
	OllamaNumCtx      int

	DatasetPath string

	NotifyRelay         bool
	TelegramToken       string
	TelegramAdminChatID int64

	LogLevel string
	LogDir   string

	CORSOrigins []string
}

// LoadEnv loads .env if present; the process environment always wins
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No se pudo cargar .env, usando variables de entorno del sistema: %v", err)
	}
}

// GetEnv returns the variable or def when unset
func GetEnv(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func GetEnvInt(key string, def int) int {
	v, err := strconv.Atoi(GetEnv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func GetEnvFloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(GetEnv(key, ""), 64)
	if err != nil {
		return def
	}
	return v
}

func GetEnvBool(key string, def bool) bool {
	v, err := strconv.ParseBool(GetEnv(key, ""))
	if err != nil {
		return def
	}
	return v
}

// Load reads Settings from the environment
func Load() Settings {
	chatID, _ := strconv.ParseInt(GetEnv("TELEGRAM_ADMIN_CHAT_ID", "0"), 10, 64)

	var origins []string
	for _, o := range strings.Split(GetEnv("CORS_ORIGINS", ""), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return Settings{
		Env:  GetEnv("ENV", "dev"),
		Port: GetEnv("PORT", "8000"),

		DBDriver:   GetEnv("DB_DRIVER", "postgres"),
		DBDSN:      GetEnv("DB_DSN", ""),
		DBHost:     GetEnv("DB_HOST", "localhost"),
		DBPort:     GetEnv("DB_PORT", ""),
		DBUser:     GetEnv("DB_USER", "postgres"),
		DBPassword: GetEnv("DB_PASSWORD", ""),
		DBName:     GetEnv("DB_NAME", "munaybol"),
		DBSSLMode:  GetEnv("DB_SSLMODE", "disable"),

		RedisAddr:     GetEnv("REDIS_ADDR", ""),
		RedisUser:     GetEnv("REDIS_USER", ""),
		RedisPassword: GetEnv("REDIS_PASSWORD", ""),

		AccessSecret:  GetEnv("SECRET_KEY_ACCESS_TOKEN", ""),
		RefreshSecret: GetEnv("SECRET_KEY_REFRESH_TOKEN", ""),

		GoogleClientID:     GetEnv("GOOGLE_CLIENT_ID", ""),
		GithubClientID:     GetEnv("GITHUB_CLIENT_ID", ""),
		GithubClientSecret: GetEnv("GITHUB_CLIENT_SECRET", ""),
		GithubRedirectURL:  GetEnv("GITHUB_REDIRECT_URL", ""),

		CloudinaryCloud:  GetEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryKey:    GetEnv("CLOUDINARY_API_KEY", ""),
		CloudinarySecret: GetEnv("CLOUDINARY_API_SECRET", ""),

		OllamaBaseURL:     strings.TrimRight(GetEnv("OLLAMA_BASE_URL", "http://localhost:11434"), "/"),
		OllamaModel:       GetEnv("OLLAMA_MODEL", "qwen2.5:3b"),
		OllamaTimeout:     time.Duration(GetEnvInt("OLLAMA_TIMEOUT", 180)) * time.Second,
		OllamaMaxTokens:   GetEnvInt("OLLAMA_MAX_TOKENS", 1500),
		OllamaTemperature: GetEnvFloat("OLLAMA_TEMPERATURE", 0.3),
		OllamaNumCtx:      GetEnvInt("OLLAMA_NUM_CTX", 4096),

		DatasetPath: GetEnv("DATASET_PATH", "data/munaybol_data.json"),

		NotifyRelay:         GetEnvBool("NOTIFY_RELAY", false),
		TelegramToken:       GetEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramAdminChatID: chatID,

		LogLevel: GetEnv("LOG_LEVEL", "info"),
		LogDir:   GetEnv("LOG_DIR", ""),

		CORSOrigins: origins,
	}
}
