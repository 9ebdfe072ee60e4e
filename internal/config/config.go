package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config agrupa toda la configuración del servicio.
// Se carga desde YAML (opcional) y se puede sobreescribir por env vars,
// para que el handoff a dev/staging no requiera tocar el archivo.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Log      LogConfig      `yaml:"log"`
	Media    MediaConfig    `yaml:"media"`
	Mood     MoodConfig     `yaml:"mood"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	// DSN completo. Si está vacío, el router usa repos in-memory (modo dev).
	DSN string `yaml:"dsn"`
}

type JWTConfig struct {
	Secret   string `yaml:"secret"`
	TTLHours int    `yaml:"ttl_hours"`
}

func (j JWTConfig) TTL() time.Duration {
	if j.TTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(j.TTLHours) * time.Hour
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// MediaConfig configura el bucket S3 para imágenes de mascotas.
// Si Bucket está vacío, el alta de mascotas funciona igual pero solo con JSON
// (sin archivo de imagen).
type MediaConfig struct {
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Endpoint  string `yaml:"endpoint"` // endpoint custom (S3 compatible)
	BaseURL   string `yaml:"base_url"` // URL pública base para servir imágenes
}

type MoodConfig struct {
	// Intervalo del barrido de estado de ánimo.
	IntervalSeconds int `yaml:"interval_seconds"`
	// Horas sin adopción tras las cuales una mascota pasa a "sad".
	SadAfterHours int `yaml:"sad_after_hours"`
	// Webhook opcional para avisar mascotas que necesitan atención.
	WebhookURL string `yaml:"webhook_url"`
}

func (m MoodConfig) Interval() time.Duration {
	if m.IntervalSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(m.IntervalSeconds) * time.Second
}

func (m MoodConfig) SadAfter() time.Duration {
	if m.SadAfterHours <= 0 {
		return 72 * time.Hour
	}
	return time.Duration(m.SadAfterHours) * time.Hour
}

// Load lee el YAML si existe y luego aplica overrides de env.
// Un path vacío o inexistente no es error: arrancamos con defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		JWT:    JWTConfig{TTLHours: 24},
		Log:    LogConfig{Level: "info"},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("MOOD_WEBHOOK_URL"); v != "" {
		cfg.Mood.WebhookURL = v
	}
}
