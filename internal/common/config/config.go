// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Session   SessionConfig   `mapstructure:"session"`
	Listing   ListingConfig   `mapstructure:"listing"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// BackendConfig points at the hostel REST API.
type BackendConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// SessionConfig holds the credentials used to open a session.
// A pre-issued Token skips the login call.
type SessionConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	Token    string `mapstructure:"token"`
}

// ListingConfig tunes every paginated view.
type ListingConfig struct {
	DebounceMs   int            `mapstructure:"debounce_ms"`
	ItemsPerPage map[string]int `mapstructure:"items_per_page"`
	// RoomDirectoryLimit bounds the auxiliary room query used to annotate users.
	RoomDirectoryLimit int `mapstructure:"room_directory_limit"`
}

type CacheConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address    string `mapstructure:"address"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	TTLSeconds int    `mapstructure:"ttl_seconds"`
}

// Enabled reports whether a redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// TTL returns the cache entry lifetime.
func (r RedisConfig) TTL() time.Duration {
	return time.Duration(r.TTLSeconds) * time.Second
}

type TelemetryConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	MetricsAddress string `mapstructure:"metrics_address"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Default page sizes per resource, matching what each view shows.
var defaultItemsPerPage = map[string]int{
	"announcements": 12,
	"complaints":    10,
	"leaves":        10,
	"fees":          20,
	"rooms":         12,
	"users":         10,
	"wardens":       10,
}
