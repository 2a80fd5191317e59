package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la consola (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	API     APIConfig
	Session SessionConfig
	Store   StoreConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// APIConfig configuración del servicio remoto de inventario.
type APIConfig struct {
	BaseURL     string        // ej. https://inventario.example.cl/api
	Timeout     time.Duration // timeout de red por petición (la política de reintento es aparte)
	DownloadDir string        // destino de las descargas binarias (etiquetas, respaldos)
}

// SessionConfig configuración de la sesión del operador.
type SessionConfig struct {
	RefreshInterval time.Duration // ping de renovación en segundo plano
	Email           string        // credenciales iniciales para el binario de cableado (opcional)
	Password        string
}

// StoreConfig configuración del almacenamiento local (preferencias y credencial).
type StoreConfig struct {
	DataDir string // directorio para consola.db y la credencial cifrada
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, API_BASE_URL, SESSION_REFRESH_MINUTES, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// También intenta config.env
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// Bind de variables de entorno (Viper las lee automáticamente si AutomaticEnv está activo)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "console-activos"),
		},
		API: APIConfig{
			BaseURL:     getString(v, "API_BASE_URL", "http://localhost:8080"),
			Timeout:     time.Duration(getInt(v, "API_TIMEOUT_SECONDS", 30)) * time.Second,
			DownloadDir: getString(v, "API_DOWNLOAD_DIR", "."),
		},
		Session: SessionConfig{
			RefreshInterval: time.Duration(getInt(v, "SESSION_REFRESH_MINUTES", 10)) * time.Minute,
			Email:           getString(v, "SESSION_EMAIL", ""),
			Password:        getString(v, "SESSION_PASSWORD", ""),
		},
		Store: StoreConfig{
			DataDir: getString(v, "STORE_DATA_DIR", "."),
		},
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
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
