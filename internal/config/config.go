package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var validEnvs = map[string]bool{
	"local": true,
	"alpha": true,
	"beta":  true,
	"prod":  true,
}

var validDrivers = map[string]bool{
	"postgres": true,
	"sqlite":   true,
}

var colourPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type Config struct {
	ServerPort  string
	AppEnv      string
	AuthDevMode bool
	LogLevel    string
	StoreDriver string
	SQLitePath  string
	DB          DBConfig
	Bot         BotConfig
	Cognito     CognitoConfig
}

func (c Config) ParseLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// StoreDSN returns the connection string for the configured driver.
func (c Config) StoreDSN() string {
	if c.StoreDriver == "sqlite" {
		return c.SQLitePath
	}
	return c.DB.DSN()
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.ServerPort, err)
	}
	if !validEnvs[c.AppEnv] {
		return fmt.Errorf("invalid APP_ENV %q: must be one of local, alpha, beta, prod", c.AppEnv)
	}
	if c.AuthDevMode && c.AppEnv != "local" {
		return fmt.Errorf("AUTH_DEV_MODE must not be enabled in %s environment", c.AppEnv)
	}
	if !c.AuthDevMode {
		if c.Cognito.UserPoolID == "" {
			return fmt.Errorf("COGNITO_USER_POOL_ID is required when AUTH_DEV_MODE is disabled")
		}
		if c.Cognito.AppClientID == "" {
			return fmt.Errorf("COGNITO_APP_CLIENT_ID is required when AUTH_DEV_MODE is disabled")
		}
	}
	if !validDrivers[c.StoreDriver] {
		return fmt.Errorf("invalid STORE_DRIVER %q: must be one of postgres, sqlite", c.StoreDriver)
	}
	if c.StoreDriver == "sqlite" && c.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH is required when STORE_DRIVER is sqlite")
	}
	return c.Bot.Validate()
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     d.Name,
		RawQuery: fmt.Sprintf("sslmode=%s", url.QueryEscape(d.SSLMode)),
	}
	return u.String()
}

// BotConfig holds the command surface settings.
type BotConfig struct {
	Prefix                string
	TitleMaxLength        int
	DescriptionMaxLength  int
	AdminUserIDs          []string
	AdminGroup            string
	ConfirmTimeout        time.Duration
	ToggleTimeout         time.Duration
	ToggleMaxInteractions int
	Timezone              string
	Colours               Colours
}

type Colours struct {
	Default string
	Error   string
	Warn    string
	Cancel  string
	Success string
}

func (b BotConfig) Validate() error {
	if strings.TrimSpace(b.Prefix) == "" {
		return fmt.Errorf("BOT_PREFIX must not be empty")
	}
	if strings.ContainsAny(b.Prefix, " \t\n") {
		return fmt.Errorf("invalid BOT_PREFIX %q: must not contain whitespace", b.Prefix)
	}
	if b.TitleMaxLength <= 0 {
		return fmt.Errorf("TITLE_MAX_LENGTH must be a positive integer")
	}
	if b.DescriptionMaxLength <= 0 {
		return fmt.Errorf("DESCRIPTION_MAX_LENGTH must be a positive integer")
	}
	if b.ConfirmTimeout <= 0 {
		return fmt.Errorf("CONFIRM_TIMEOUT must be a positive duration")
	}
	if b.ToggleTimeout <= 0 {
		return fmt.Errorf("TOGGLE_TIMEOUT must be a positive duration")
	}
	if b.ToggleMaxInteractions <= 0 {
		return fmt.Errorf("TOGGLE_MAX_INTERACTIONS must be a positive integer")
	}
	if _, err := time.LoadLocation(b.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", b.Timezone, err)
	}
	for key, v := range map[string]string{
		"COLOUR_DEFAULT": b.Colours.Default,
		"COLOUR_ERROR":   b.Colours.Error,
		"COLOUR_WARN":    b.Colours.Warn,
		"COLOUR_CANCEL":  b.Colours.Cancel,
		"COLOUR_SUCCESS": b.Colours.Success,
	} {
		if !colourPattern.MatchString(v) {
			return fmt.Errorf("invalid %s %q: must be #RRGGBB", key, v)
		}
	}
	return nil
}

// Location resolves Timezone, falling back to UTC.
func (b BotConfig) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type CognitoConfig struct {
	Region          string
	UserPoolID      string
	AppClientID     string
	AppClientSecret string
}

func Load() Config {
	return Config{
		ServerPort:  envOrDefault("SERVER_PORT", "8080"),
		AppEnv:      envOrDefault("APP_ENV", "local"),
		AuthDevMode: strings.EqualFold(envOrDefault("AUTH_DEV_MODE", "false"), "true"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		StoreDriver: strings.ToLower(envOrDefault("STORE_DRIVER", "postgres")),
		SQLitePath:  envOrDefault("SQLITE_PATH", "todo.db"),
		DB: DBConfig{
			Host:     envOrDefault("DB_HOST", "localhost"),
			Port:     envOrDefault("DB_PORT", "5432"),
			User:     envOrDefault("DB_USER", "todo"),
			Password: envOrDefault("DB_PASSWORD", "todo"),
			Name:     envOrDefault("DB_NAME", "todo"),
			SSLMode:  envOrDefault("DB_SSLMODE", "disable"),
		},
		Bot: BotConfig{
			Prefix:                envOrDefault("BOT_PREFIX", "!"),
			TitleMaxLength:        intOrZero(envOrDefault("TITLE_MAX_LENGTH", "64")),
			DescriptionMaxLength:  intOrZero(envOrDefault("DESCRIPTION_MAX_LENGTH", "512")),
			AdminUserIDs:          splitList(os.Getenv("ADMIN_USER_IDS")),
			AdminGroup:            envOrDefault("ADMIN_GROUP", "admin"),
			ConfirmTimeout:        durationOrZero(envOrDefault("CONFIRM_TIMEOUT", "30s")),
			ToggleTimeout:         durationOrZero(envOrDefault("TOGGLE_TIMEOUT", "60s")),
			ToggleMaxInteractions: intOrZero(envOrDefault("TOGGLE_MAX_INTERACTIONS", "10")),
			Timezone:              envOrDefault("TIMEZONE", "UTC"),
			Colours: Colours{
				Default: envOrDefault("COLOUR_DEFAULT", "#34495E"),
				Error:   envOrDefault("COLOUR_ERROR", "#E74C3C"),
				Warn:    envOrDefault("COLOUR_WARN", "#F39C12"),
				Cancel:  envOrDefault("COLOUR_CANCEL", "#95A5A6"),
				Success: envOrDefault("COLOUR_SUCCESS", "#2ECC71"),
			},
		},
		Cognito: CognitoConfig{
			Region:          envOrDefault("COGNITO_REGION", "ap-northeast-1"),
			UserPoolID:      os.Getenv("COGNITO_USER_POOL_ID"),
			AppClientID:     os.Getenv("COGNITO_APP_CLIENT_ID"),
			AppClientSecret: os.Getenv("COGNITO_APP_CLIENT_SECRET"),
		},
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// unparsable values load as zero and are rejected by Validate
func intOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func durationOrZero(s string) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
