package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	DBSource      string `mapstructure:"DB_SOURCE"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`

	// Where the input files live: "file" reads DATA_DIR, "drive" reads DRIVE_FOLDER.
	DataSource           string `mapstructure:"DATA_SOURCE"`
	DataDir              string `mapstructure:"DATA_DIR"`
	DriveFolder          string `mapstructure:"DRIVE_FOLDER"`
	DriveCredentialsFile string `mapstructure:"DRIVE_CREDENTIALS_FILE"`
	DriveChunkSize       int64  `mapstructure:"DRIVE_CHUNK_SIZE"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`

	SessionSecret string        `mapstructure:"SESSION_SECRET"`
	SessionTTL    time.Duration `mapstructure:"SESSION_TTL"`
	PasswordHash  string        `mapstructure:"PASSWORD_HASH"`

	BandsFile   string `mapstructure:"BANDS_FILE"`
	ZipProperty string `mapstructure:"ZIP_PROPERTY"`
	// "file" reads pantry locations from the data source, "postgres" from DB_SOURCE.
	PantrySource string `mapstructure:"PANTRY_SOURCE"`

	BoundariesFile      string `mapstructure:"BOUNDARIES_FILE"`
	PantryClientsFile   string `mapstructure:"PANTRY_CLIENTS_FILE"`
	PantryVisitsFile    string `mapstructure:"PANTRY_VISITS_FILE"`
	PantryLocationsFile string `mapstructure:"PANTRY_LOCATIONS_FILE"`
	SurveyFile          string `mapstructure:"SURVEY_FILE"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":         "0.0.0.0:8080",
	"DB_SOURCE":              "",
	"LOG_LEVEL":              "info",
	"DATA_SOURCE":            "file",
	"DATA_DIR":               "map_data",
	"DRIVE_FOLDER":           "SPCAMaps",
	"DRIVE_CREDENTIALS_FILE": "",
	"DRIVE_CHUNK_SIZE":       int64(1 << 20),
	"REDIS_ADDR":             "",
	"REDIS_PASSWORD":         "",
	"REDIS_DB":               0,
	"CACHE_TTL":              "30m",
	"SESSION_SECRET":         "",
	"SESSION_TTL":            "12h",
	"PASSWORD_HASH":          "",
	"BANDS_FILE":             "",
	"ZIP_PROPERTY":           "ZCTA5CE10",
	"PANTRY_SOURCE":          "file",
	"BOUNDARIES_FILE":        "erie_survey_zips.geojson",
	"PANTRY_CLIENTS_FILE":    "PantryMap.csv",
	"PANTRY_VISITS_FILE":     "processed_pantry_data.json",
	"PANTRY_LOCATIONS_FILE":  "geocoded_pantry_locations.csv",
	"SURVEY_FILE":            "combined_survey_results.csv",
}

// LoadConfig reads configuration from app.env in path, falling back to
// defaults and letting environment variables override both.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}
