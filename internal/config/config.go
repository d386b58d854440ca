package config

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	// StorageFile хранит каждый ключ local storage отдельным файлом.
	StorageFile = "file"
	// StorageSQLite хранит local storage в таблице SQLite.
	StorageSQLite = "sqlite"
)

type Config struct {
	// Server-side settings
	Port        string        `env:"PORT"`
	Host        string        `env:"HOST"`
	StaticRoot  string        `env:"STATIC_ROOT"`
	DatabaseDSN string        `env:"DATABASE_URI"`
	AuthSecret  string        `env:"AUTH_SECRET"`
	TokenTTL    time.Duration `env:"AUTH_TOKEN_TTL"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL       string `env:"-"`
	StorageBackend  string `env:"STORAGE_BACKEND"`
	ClientDBPath    string `env:"CLIENT_DB_PATH"`
	LocalStorageDir string `env:"LOCAL_STORAGE_DIR"`
	Version         bool   `env:"-"` // show client version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// Server flags
	flag.StringVar(&cfg.Port, "port", cfg.Port, "порт или путь к unix-сокету")
	flag.StringVar(&cfg.Host, "host", cfg.Host, "адрес для прослушивания (пусто — все интерфейсы)")
	flag.StringVar(&cfg.StaticRoot, "static", cfg.StaticRoot, "каталог статических файлов")
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "время жизни JWT")
	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "base URL of the server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	// Client flags
	flag.StringVar(&cfg.StorageBackend, "storage", cfg.StorageBackend, "local storage backend: file or sqlite")
	flag.StringVar(&cfg.ClientDBPath, "client-db", cfg.ClientDBPath, "path to client SQLite DB")
	flag.StringVar(&cfg.LocalStorageDir, "storage-dir", cfg.LocalStorageDir, "directory for file-backed local storage")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	applyDefaults(cfg)
	return cfg
}

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

// applyDefaults заполняет пустые поля значениями по умолчанию.
func applyDefaults(cfg *Config) {
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.StaticRoot == "" {
		cfg.StaticRoot = "www"
	}
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	// BaseURL: только "address:port" (без схемы и пути), иначе дефолт.
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8080"
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	if cfg.StorageBackend != StorageSQLite {
		cfg.StorageBackend = StorageFile
	}

	home, _ := os.UserHomeDir()
	if cfg.ClientDBPath == "" {
		cfg.ClientDBPath = filepath.Join(home, "ionauth.db")
	}
}
