package config

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Host string
		Port int
		Mode string
	}
	Database struct {
		Driver                string
		URL                   string
		Name                  string
		Path                  string
		ConnectTimeoutSeconds int
	}
	Auth struct {
		SessionSecret     string
		SessionTTLMinutes int
		CookieSecure      bool
	}
	CORS struct {
		Origins []string
	}
	Storage struct {
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
	}
	AWS struct {
		Profile string
	}
	Log struct {
		Level  string
		Format string
	}
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

func (c Config) ConnectTimeout() time.Duration {
	return time.Duration(c.Database.ConnectTimeoutSeconds) * time.Second
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.Auth.SessionTTLMinutes) * time.Minute
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverMongo:
		if strings.TrimSpace(c.Database.URL) == "" {
			return errors.New("database url is required for the mongo driver")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.Database.Path) == "" {
			return errors.New("database path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv(".env")

	v := viper.New()
	v.SetEnvPrefix("FLYWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.driver", DriverMongo)
	v.SetDefault("database.url", "mongodb://localhost:27017")
	v.SetDefault("database.name", "flywise")
	v.SetDefault("database.path", "data/flywise.db")
	v.SetDefault("database.connecttimeoutseconds", 10)
	v.SetDefault("auth.sessionsecret", "")
	v.SetDefault("auth.sessionttlminutes", 7*24*60)
	v.SetDefault("auth.cookiesecure", false)
	v.SetDefault("cors.origins", []string{"http://localhost:5173"})
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "statements")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("aws.profile", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// legacy variable names from earlier deployments
	_ = v.BindEnv("server.port", "FLYWISE_SERVER_PORT", "PORT")
	_ = v.BindEnv("database.url", "FLYWISE_DATABASE_URL", "MONGODB_URL")
	_ = v.BindEnv("database.name", "FLYWISE_DATABASE_NAME", "MONGODB_DB_NAME")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.CORS.Origins = splitList(cfg.CORS.Origins)
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))

	return cfg, nil
}

// splitList accepts both a real list and a single comma separated env value.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func loadDotEnv(path string) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		partsIndex := strings.Index(line, "=")
		if partsIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:partsIndex])
		value := strings.TrimSpace(line[partsIndex+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
