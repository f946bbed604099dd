package store

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	DefaultAPIURL          = "https://journal-application-production.up.railway.app"
	DefaultTimeout         = 15 * time.Second
	DefaultSessionPath     = "~/.journal/session"
	DefaultWeatherLocation = "Mumbai"
)

// envKeys maps nested keys such as api.url onto JOURNAL_API_URL.
var envKeys = strings.NewReplacer(".", "_")

// Config is the resolved client configuration.
type Config interface {
	// BasePath is the directory holding the session slots.
	BasePath() string
	APIURL() string
	Timeout() time.Duration
	WeatherLocation() string
	LogLevel() string
	LogFile() string
}

// LoadConfig reads .journal.yaml from $JOURNAL_CONFIG_PATH, the working
// directory or $HOME, then overlays JOURNAL_* environment variables, e.g.
// JOURNAL_API_URL or JOURNAL_SESSION_PATH.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("api.url", DefaultAPIURL)
	v.SetDefault("api.timeout", DefaultTimeout)
	v.SetDefault("session.path", DefaultSessionPath)
	v.SetDefault("weather.location", DefaultWeatherLocation)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")

	v.SetConfigName(".journal") // .yaml is implicit
	v.SetEnvPrefix("JOURNAL")
	v.SetEnvKeyReplacer(envKeys)
	v.AutomaticEnv()

	if override := os.Getenv("JOURNAL_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	path, err := homedir.Expand(v.GetString("session.path"))
	if err != nil {
		return nil, err
	}
	logFile, err := homedir.Expand(v.GetString("log.file"))
	if err != nil {
		return nil, err
	}

	return &fileConfig{
		Path:     path,
		URL:      v.GetString("api.url"),
		Wait:     v.GetDuration("api.timeout"),
		Location: v.GetString("weather.location"),
		Level:    v.GetString("log.level"),
		File:     logFile,
	}, nil
}

// NewConfig builds a Config without consulting files or the environment.
// Zero values take the defaults.
func NewConfig(basePath, apiURL string) Config {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &fileConfig{
		Path:     basePath,
		URL:      apiURL,
		Wait:     DefaultTimeout,
		Location: DefaultWeatherLocation,
		Level:    "warn",
	}
}

type fileConfig struct {
	Path     string        `json:"path"`
	URL      string        `json:"url"`
	Wait     time.Duration `json:"timeout"`
	Location string        `json:"location"`
	Level    string        `json:"level"`
	File     string        `json:"file"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) APIURL() string {
	return f.URL
}

func (f *fileConfig) Timeout() time.Duration {
	if f.Wait <= 0 {
		return DefaultTimeout
	}
	return f.Wait
}

func (f *fileConfig) WeatherLocation() string {
	if f.Location == "" {
		return DefaultWeatherLocation
	}
	return f.Location
}

func (f *fileConfig) LogLevel() string {
	return f.Level
}

func (f *fileConfig) LogFile() string {
	return f.File
}
