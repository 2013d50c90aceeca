package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries everything the services need, built once at startup and
// passed by injection. There is no process-wide settings singleton.
type Config struct {
	Addr      string
	DBDSN     string
	JWTSecret string
	JWTTTL    time.Duration

	InviteTTL      time.Duration
	OTPTTL         time.Duration
	ResetOTPTTL    time.Duration
	ResendCooldown time.Duration
	MaxResends     int
	MaxOTPAttempts int

	Email EmailConfig
}

type EmailConfig struct {
	FromEmail    string
	BaseURL      string
	ResendAPIKey string
	SMTPEnabled  bool
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPass     string
}

// Load reads configuration from the environment with development defaults.
func Load() Config {
	return Config{
		Addr:      getEnv("ADDR", ":8000"),
		DBDSN:     getEnv("DB_DSN", "admin:12345678@tcp(127.0.0.1:3306)/taskify?charset=utf8mb4&parseTime=True&loc=Local"),
		JWTSecret: getEnv("JWT_SECRET", "supersecretkey"),
		JWTTTL:    24 * time.Hour,

		InviteTTL:      time.Duration(getEnvInt("INVITE_TTL_DAYS", 3)) * 24 * time.Hour,
		OTPTTL:         time.Duration(getEnvInt("OTP_TTL_MINUTES", 10)) * time.Minute,
		ResetOTPTTL:    time.Duration(getEnvInt("RESET_OTP_TTL_MINUTES", 15)) * time.Minute,
		ResendCooldown: time.Duration(getEnvInt("RESEND_COOLDOWN_SECONDS", 30)) * time.Second,
		MaxResends:     getEnvInt("MAX_RESEND_ATTEMPTS", 3),
		MaxOTPAttempts: getEnvInt("MAX_VERIFICATION_ATTEMPTS", 5),

		Email: EmailConfig{
			FromEmail:    getEnv("EMAIL_FROM", "no-reply@taskify.local"),
			BaseURL:      getEnv("BASE_URL", "http://localhost:8000"),
			ResendAPIKey: os.Getenv("RESEND_API_KEY"),
			SMTPEnabled:  os.Getenv("SMTP_HOST") != "",
			SMTPHost:     os.Getenv("SMTP_HOST"),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			SMTPUser:     os.Getenv("SMTP_USER"),
			SMTPPass:     os.Getenv("SMTP_PASS"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
