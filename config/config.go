package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Dotenv string `mapstructure:"dotenv"`

	Collaborators struct {
		// Base URL of the Wander backend (extract_more_info, translate,
		// give_user_response_api, save_location, login, register).
		BackendURL string        `mapstructure:"backendURL"`
		RoutingURL string        `mapstructure:"routingURL"`
		GeolocURL  string        `mapstructure:"geolocURL"`
		Timeout    time.Duration `mapstructure:"timeout"`
	} `mapstructure:"collaborators"`

	Assistant struct {
		DefaultLanguage string        `mapstructure:"defaultLanguage"`
		TargetLanguage  string        `mapstructure:"targetLanguage"`
		ThinkingDelay   time.Duration `mapstructure:"thinkingDelay"`
		DetailCacheTTL  time.Duration `mapstructure:"detailCacheTTL"`
		// Translator provider: "http" (backend /translate) or "gemini".
		Translator string `mapstructure:"translator"`
	} `mapstructure:"assistant"`

	Speech struct {
		Enabled bool `mapstructure:"enabled"`
		// Player command invoked with the utterance text as its last
		// argument, e.g. "espeak-ng". Empty disables speech even when
		// enabled is true.
		PlayerCommand string   `mapstructure:"playerCommand"`
		PlayerArgs    []string `mapstructure:"playerArgs"`
	} `mapstructure:"speech"`

	Location struct {
		// Fallback coordinates used when no locator is reachable.
		FallbackLatitude  float64       `mapstructure:"fallbackLatitude"`
		FallbackLongitude float64       `mapstructure:"fallbackLongitude"`
		HighAccuracy      bool          `mapstructure:"highAccuracy"`
		Timeout           time.Duration `mapstructure:"timeout"`
	} `mapstructure:"location"`

	Routing struct {
		Profile      string `mapstructure:"profile"` // driving or walking
		MaxWaypoints int    `mapstructure:"maxWaypoints"`
	} `mapstructure:"routing"`

	Observability struct {
		Port    string `mapstructure:"port"`
		Enabled bool   `mapstructure:"enabled"`
	} `mapstructure:"observability"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")
	v.AddConfigPath("/usr/local/bin")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	// Unmarshal the config into the Config struct
	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}

	if config.Routing.MaxWaypoints <= 0 {
		config.Routing.MaxWaypoints = 5
	}
	if config.Assistant.DefaultLanguage == "" {
		config.Assistant.DefaultLanguage = "en"
	}
	if config.Assistant.ThinkingDelay <= 0 {
		config.Assistant.ThinkingDelay = 500 * time.Millisecond
	}

	fmt.Println("Successfully loaded app configs...")
	return config, nil
}
