package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`
	RedisOTPDB    int    `mapstructure:"REDIS_OTP_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Booking flow.
	BookingSessionTTLMin int  `mapstructure:"BOOKING_SESSION_TTL_MIN"`
	OptimisticSuccess    bool `mapstructure:"OPTIMISTIC_SUCCESS"`
	ReminderLeadMin      int  `mapstructure:"REMINDER_LEAD_MIN"`

	// OTPDemoMode accepts the fixed demo code. Never enable in production.
	OTPDemoMode bool `mapstructure:"OTP_DEMO_MODE"`

	// Tracking simulation tick bounds in milliseconds.
	TrackingMinTickMs int `mapstructure:"TRACKING_MIN_TICK_MS"`
	TrackingMaxTickMs int `mapstructure:"TRACKING_MAX_TICK_MS"`

	TrackingRetentionMin int `mapstructure:"TRACKING_RETENTION_MIN"`
	TrackingMaxPerUser   int `mapstructure:"TRACKING_MAX_PER_USER"`

	// Third-party integrations.
	StripeKey               string `mapstructure:"STRIPE_KEY"`
	FirebaseCredentialsPath string `mapstructure:"FIREBASE_CREDENTIALS_PATH"`
	CloudinaryCloudName     string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey        string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret     string `mapstructure:"CLOUDINARY_API_SECRET"`
}

var AppConfig Config

// SetDefaults registers the default for every key so that AutomaticEnv can
// resolve them during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "maideasy")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_AUTH_DB", 1)
	v.SetDefault("REDIS_OTP_DB", 2)
	v.SetDefault("REDIS_QUEUE_DB", 3)
	v.SetDefault("BOOKING_SESSION_TTL_MIN", 30)
	v.SetDefault("OPTIMISTIC_SUCCESS", false)
	v.SetDefault("REMINDER_LEAD_MIN", 60)
	v.SetDefault("OTP_DEMO_MODE", false)
	v.SetDefault("TRACKING_MIN_TICK_MS", 2000)
	v.SetDefault("TRACKING_MAX_TICK_MS", 6000)
	v.SetDefault("TRACKING_RETENTION_MIN", 10)
	v.SetDefault("TRACKING_MAX_PER_USER", 3)
	v.SetDefault("STRIPE_KEY", "")
	v.SetDefault("FIREBASE_CREDENTIALS_PATH", "")
	v.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	v.SetDefault("CLOUDINARY_API_KEY", "")
	v.SetDefault("CLOUDINARY_API_SECRET", "")
}

// Load reads configuration from v into a Config.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	v := viper.GetViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	cfg, err := Load(v)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
