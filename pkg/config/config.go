package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Backend BackendConfig
	Store   StoreConfig
	DB      DBConfig
	Redis   RedisConfig
	Display DisplayConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP del kiosco.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BackendConfig selección del backend de persistencia.
type BackendConfig struct {
	RemoteEnabled bool
	RemoteURL     string
	Timeout       time.Duration // timeout del cliente HTTP remoto
}

// UseRemote true solo si el flag está activo y hay URL; sin URL el modo remoto se fuerza a apagado.
func (c BackendConfig) UseRemote() bool {
	return c.RemoteEnabled && strings.TrimSpace(c.RemoteURL) != ""
}

// Drivers del almacenamiento clave-valor local.
const (
	StoreDriverBolt     = "bolt"
	StoreDriverRedis    = "redis"
	StoreDriverPostgres = "postgres"
)

// StoreConfig almacenamiento clave-valor que respalda el backend local.
type StoreConfig struct {
	Driver    string // bolt, redis, postgres
	Namespace string
	BoltPath  string
}

// RedisConfig conexión a Redis (driver redis).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DBConfig configuración de PostgreSQL (driver postgres).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// DisplayConfig política de presentación: tabla de rarezas y umbral de pocas unidades.
type DisplayConfig struct {
	RarityTiers   string // "SSR:1,SR:5,R:15,N:100"
	LowStockRatio float64
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, REMOTE_ENABLED, REMOTE_URL, STORE_DRIVER, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

// fromViper construye la configuración a partir de una instancia ya cargada.
func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "gacha-kiosk"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Backend: BackendConfig{
			RemoteEnabled: getBool(v, "REMOTE_ENABLED", false),
			RemoteURL:     getString(v, "REMOTE_URL", ""),
			Timeout:       time.Duration(getInt(v, "REMOTE_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Store: StoreConfig{
			Driver:    strings.ToLower(getString(v, "STORE_DRIVER", StoreDriverBolt)),
			Namespace: getString(v, "STORE_NAMESPACE", "gacha"),
			BoltPath:  getString(v, "STORE_BOLT_PATH", "gacha.db"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "gacha"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Display: DisplayConfig{
			RarityTiers:   getString(v, "RARITY_TIERS", "SSR:1,SR:5,R:15,N:100"),
			LowStockRatio: getFloat(v, "LOW_STOCK_RATIO", 0.2),
		},
	}

	switch cfg.Store.Driver {
	case StoreDriverBolt, StoreDriverRedis, StoreDriverPostgres:
	default:
		return nil, fmt.Errorf("config: STORE_DRIVER %q no soportado", cfg.Store.Driver)
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
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
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
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if v.IsSet(key) {
		f, err := strconv.ParseFloat(strings.TrimSpace(v.GetString(key)), 64)
		if err != nil {
			return def
		}
		return f
	}
	return def
}
