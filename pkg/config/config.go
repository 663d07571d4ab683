package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database     DatabaseConfig
	Redis        RedisConfig
	CORS         CORSConfig
	Log          LogConfig
	Availability AvailabilityConfig
	Calendar     CalendarConfig
	WhatsApp     WhatsAppConfig
	Export       ExportConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AvailabilityConfig tunes the slot engine and its cache.
type AvailabilityConfig struct {
	CacheEnabled     bool
	CacheTTL         time.Duration
	SlotIntervalMin  int
	StrictWindowScan bool
}

// CalendarConfig holds linked-calendar sync settings. Secrets come from env.
type CalendarConfig struct {
	Enabled       bool
	ClientID      string
	ClientSecret  string
	RefreshToken  string
	CalendarID    string
	TokenURL      string
	EventsBaseURL string
	Lookahead     time.Duration
	SyncInterval  time.Duration
	FetchTimeout  time.Duration
	CronSecret    string
}

// WhatsAppConfig drives confirmation-message templating.
type WhatsAppConfig struct {
	SalonName     string
	LocationLine  string
	CurrencyCode  string
	WaLinkBaseURL string
}

// ExportConfig gates the admin schedule export endpoint.
type ExportConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Availability = AvailabilityConfig{
		CacheEnabled:     v.GetBool("AVAILABILITY_CACHE_ENABLED"),
		CacheTTL:         parseDuration(v.GetString("AVAILABILITY_CACHE_TTL"), 5*time.Minute),
		SlotIntervalMin:  v.GetInt("AVAILABILITY_SLOT_INTERVAL"),
		StrictWindowScan: v.GetBool("AVAILABILITY_STRICT_WINDOW_SCAN"),
	}

	cfg.Calendar = CalendarConfig{
		Enabled:       v.GetBool("CALENDAR_SYNC_ENABLED"),
		ClientID:      v.GetString("GOOGLE_CLIENT_ID"),
		ClientSecret:  v.GetString("GOOGLE_CLIENT_SECRET"),
		RefreshToken:  v.GetString("GOOGLE_REFRESH_TOKEN"),
		CalendarID:    v.GetString("GOOGLE_CALENDAR_ID"),
		TokenURL:      v.GetString("GOOGLE_TOKEN_URL"),
		EventsBaseURL: v.GetString("GOOGLE_CALENDAR_API_URL"),
		Lookahead:     parseDuration(v.GetString("CALENDAR_SYNC_LOOKAHEAD"), 7*24*time.Hour),
		SyncInterval:  parseDuration(v.GetString("CALENDAR_SYNC_INTERVAL"), 10*time.Minute),
		FetchTimeout:  parseDuration(v.GetString("CALENDAR_FETCH_TIMEOUT"), 10*time.Second),
		CronSecret:    v.GetString("CALENDAR_CRON_SECRET"),
	}

	cfg.WhatsApp = WhatsAppConfig{
		SalonName:     v.GetString("WHATSAPP_SALON_NAME"),
		LocationLine:  v.GetString("WHATSAPP_LOCATION_LINE"),
		CurrencyCode:  v.GetString("WHATSAPP_CURRENCY_CODE"),
		WaLinkBaseURL: v.GetString("WHATSAPP_LINK_BASE_URL"),
	}

	cfg.Export = ExportConfig{
		Enabled: v.GetBool("ENABLE_SCHEDULE_EXPORT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "salon_booking")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("AVAILABILITY_CACHE_ENABLED", true)
	v.SetDefault("AVAILABILITY_CACHE_TTL", "5m")
	v.SetDefault("AVAILABILITY_SLOT_INTERVAL", 15)
	v.SetDefault("AVAILABILITY_STRICT_WINDOW_SCAN", false)

	v.SetDefault("CALENDAR_SYNC_ENABLED", false)
	v.SetDefault("GOOGLE_TOKEN_URL", "https://oauth2.googleapis.com/token")
	v.SetDefault("GOOGLE_CALENDAR_API_URL", "https://www.googleapis.com/calendar/v3")
	v.SetDefault("CALENDAR_SYNC_LOOKAHEAD", "168h")
	v.SetDefault("CALENDAR_SYNC_INTERVAL", "10m")
	v.SetDefault("CALENDAR_FETCH_TIMEOUT", "10s")

	v.SetDefault("WHATSAPP_SALON_NAME", "SALON MOST")
	v.SetDefault("WHATSAPP_LOCATION_LINE", "762 Pannipitiya Road, Battaramulla")
	v.SetDefault("WHATSAPP_CURRENCY_CODE", "LKR")
	v.SetDefault("WHATSAPP_LINK_BASE_URL", "https://wa.me")

	v.SetDefault("ENABLE_SCHEDULE_EXPORT", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
