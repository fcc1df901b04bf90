package config

import (
	"os"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	AutoMigrate  bool
	KafkaBrokers []string

	TokenSecret string
	TokenTTL    time.Duration

	AdminEmail     string
	AdminPassword  string
	AdminFirstName string
	AdminLastName  string
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "stayhub"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	secret := os.Getenv("TOKEN_SECRET")
	if secret == "" {
		secret = "dev-only-secret"
	}

	adminFirst := os.Getenv("ADMIN_FIRST_NAME")
	if adminFirst == "" {
		adminFirst = "Admin"
	}
	adminLast := os.Getenv("ADMIN_LAST_NAME")
	if adminLast == "" {
		adminLast = "User"
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		AutoMigrate:  envBool("AUTO_MIGRATE", true),
		KafkaBrokers: envList("KAFKA_BROKERS"),

		TokenSecret: secret,
		TokenTTL:    envDuration("TOKEN_TTL", 24*time.Hour),

		AdminEmail:     os.Getenv("ADMIN_EMAIL"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		AdminFirstName: adminFirst,
		AdminLastName:  adminLast,
	}, nil
}

func envList(name string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
