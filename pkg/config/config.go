package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Backends de almacenamiento soportados.
const (
	BackendJSONServer = "jsonserver"
	BackendPostgres   = "postgres"
	BackendMemory     = "memory"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Store   StoreConfig
	DB      DBConfig
	Retry   RetryConfig
	Stock   StockConfig
	Cache   CacheConfig
	Company CompanyConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// IsProduction indica si se ejecuta en producción.
func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	CORSOrigins string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig servidor de datos (json-server) y selección de backend.
type StoreConfig struct {
	Backend        string
	URLLocal       string
	URLProd        string
	URL            string // override explícito
	Timeout        time.Duration
	HealthPath     string
	HealthInterval time.Duration
	SeedFile       string
}

// BaseURL URL del servidor de datos según el entorno; STORE_API_URL tiene prioridad.
func (c StoreConfig) BaseURL(env string) string {
	if c.URL != "" {
		return c.URL
	}
	if env == "production" {
		return c.URLProd
	}
	return c.URLLocal
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	Migrate     bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN connection string con la contraseña escapada.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// RetryConfig reintentos del listado de fichas.
type RetryConfig struct {
	Attempts int
	Interval time.Duration
}

// StockConfig umbrales de alertas.
type StockConfig struct {
	ExpiringDays  int
	AlertInterval time.Duration // 0 desactiva el worker
}

// CacheConfig caché LRU del catálogo.
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// CompanyConfig empresa por defecto para los comprobantes.
type CompanyConfig struct {
	Name    string
	CNPJ    string
	Address string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "epi-control-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			CORSOrigins: getString(v, "HTTP_CORS_ORIGINS", "*"),
		},
		Store: StoreConfig{
			Backend:        strings.ToLower(getString(v, "STORE_BACKEND", BackendJSONServer)),
			URLLocal:       getString(v, "STORE_API_URL_LOCAL", "http://localhost:3001"),
			URLProd:        getString(v, "STORE_API_URL_PROD", "https://epi-bk.onrender.com"),
			URL:            getString(v, "STORE_API_URL", ""),
			Timeout:        getSeconds(v, "STORE_TIMEOUT_SECONDS", 15),
			HealthPath:     getString(v, "STORE_HEALTH_PATH", "/holdings"),
			HealthInterval: getSeconds(v, "STORE_HEALTH_INTERVAL_SECONDS", 30),
			SeedFile:       getString(v, "STORE_SEED_FILE", ""),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "epi_control"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
			Migrate:     getBool(v, "DB_MIGRATE", true),
		},
		Retry: RetryConfig{
			Attempts: getInt(v, "RETRY_ATTEMPTS", 3),
			Interval: getSeconds(v, "RETRY_INTERVAL_SECONDS", 2),
		},
		Stock: StockConfig{
			ExpiringDays:  getInt(v, "STOCK_EXPIRING_DAYS", 30),
			AlertInterval: time.Duration(getInt(v, "STOCK_ALERT_INTERVAL_MINUTES", 60)) * time.Minute,
		},
		Cache: CacheConfig{
			Size: getInt(v, "CATALOG_CACHE_SIZE", 256),
			TTL:  getSeconds(v, "CATALOG_CACHE_TTL_SECONDS", 300),
		},
		Company: CompanyConfig{
			Name:    getString(v, "COMPANY_NAME", ""),
			CNPJ:    getString(v, "COMPANY_CNPJ", ""),
			Address: getString(v, "COMPANY_ADDRESS", ""),
		},
	}

	switch cfg.Store.Backend {
	case BackendJSONServer, BackendPostgres, BackendMemory:
	default:
		return nil, fmt.Errorf("STORE_BACKEND inválido: %q", cfg.Store.Backend)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if !v.IsSet(key) {
		return def
	}
	switch v.Get(key).(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return n
	default:
		return v.GetInt(key)
	}
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return b
}

func getSeconds(v *viper.Viper, key string, def int) time.Duration {
	return time.Duration(getInt(v, key, def)) * time.Second
}
