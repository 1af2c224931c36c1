package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultCheckoutURL - адрес оформления рассрочки по умолчанию
const DefaultCheckoutURL = "https://www.getrenters.io/pay"

// Config содержит конфигурацию сервера
type Config struct {
	Port        int
	CheckoutURL string

	DefaultAmount float64
	AmountMin     float64
	AmountStep    float64
	MaxPrincipal  float64
	MaxMonths     int

	Currency string
	Locale   string

	DataFile         string
	DataURL          string
	DataFetchTimeout time.Duration
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	DataRedisKey     string

	WidgetIdleTTL time.Duration

	OTELEndpoint    string
	OTELServiceName string
	LogLevel        string
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	// Загружаем .env файл, если он существует (игнорируем ошибку)
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnvInt("PORT", 8000),
		CheckoutURL:      getEnvString("CHECKOUT_URL", DefaultCheckoutURL),
		DefaultAmount:    getEnvFloat("DEFAULT_AMOUNT", 10000),
		AmountMin:        getEnvFloat("AMOUNT_MIN", 500),
		AmountStep:       getEnvFloat("AMOUNT_STEP", 50),
		MaxPrincipal:     getEnvFloat("MAX_PRINCIPAL", 1e9),
		MaxMonths:        getEnvInt("MAX_MONTHS", 600),
		Currency:         getEnvString("CURRENCY", "AED"),
		Locale:           getEnvString("LOCALE", "en-AE"),
		DataFile:         getEnvString("EPP_DATA_FILE", ""),
		DataURL:          getEnvString("EPP_DATA_URL", ""),
		DataFetchTimeout: getEnvDuration("EPP_DATA_TIMEOUT", 10*time.Second),
		RedisAddr:        getEnvString("REDIS_ADDR", ""),
		RedisPassword:    getEnvString("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		DataRedisKey:     getEnvString("EPP_DATA_REDIS_KEY", ""),
		WidgetIdleTTL:    getEnvDuration("WIDGET_IDLE_TTL", 30*time.Minute),
		OTELEndpoint:     getEnvString("OTEL_ENDPOINT", ""),
		OTELServiceName:  getEnvString("OTEL_SERVICE_NAME", "renters-calculator"),
		LogLevel:         getEnvString("LOG_LEVEL", "INFO"),
	}

	return cfg, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
