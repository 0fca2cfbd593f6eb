package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Voice platform credentials (call placement).
	ElevenLabsAPIKey   string `mapstructure:"ELEVENLABS_API_KEY"`
	AgentID            string `mapstructure:"AGENT_ID"`
	AgentPhoneNumberID string `mapstructure:"AGENT_PHONE_NUMBER_ID"`

	// Gemini API key for instruction refinement.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`

	// Provider directory and user preference files.
	ProvidersPath       string `mapstructure:"PROVIDERS_PATH"`
	UserPreferencesPath string `mapstructure:"USER_PREFERENCES_PATH"`

	// Downstream sinks. Empty means the sink is not configured.
	CheckAvailabilityURL string `mapstructure:"CHECK_AVAILABILITY_URL"`
	ConfirmBookingURL    string `mapstructure:"CONFIRM_BOOKING_URL"`
	ForwardWebhookURL    string `mapstructure:"FORWARD_WEBHOOK_URL"`

	// Outreach tuning.
	SwarmSize         int `mapstructure:"SWARM_SIZE"`
	SessionTTLSeconds int `mapstructure:"SESSION_TTL_SECONDS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("PROVIDERS_PATH", "providers.json")
	viper.SetDefault("USER_PREFERENCES_PATH", "user_preferences.json")
	viper.SetDefault("SWARM_SIZE", 3)
	viper.SetDefault("SESSION_TTL_SECONDS", 600)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// HasCallPlacement reports whether the voice platform credentials needed to
// place outbound calls are present.
func HasCallPlacement() bool {
	return AppConfig.ElevenLabsAPIKey != "" &&
		AppConfig.AgentID != "" &&
		AppConfig.AgentPhoneNumberID != ""
}
