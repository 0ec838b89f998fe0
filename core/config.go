package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime settings for the client. It is loaded once in main
// and passed down explicitly; packages never reach for globals.
type Config struct {
	Env      string
	Debug    bool
	TestMode bool
	AppName  string
	Build    string

	// BackendBaseURL is the root of the ERP REST API, e.g. "https://erp.example.com".
	BackendBaseURL string

	Shell struct {
		Address string
	}

	// StoragePath is the durable local session file ("localStorage" equivalent).
	StoragePath string

	RequestTimeout      time.Duration
	CacheRetention      time.Duration
	PaymentPollInterval time.Duration

	RollbarToken string
}

// NewConfig builds a Config from defaults, an optional config/.env.<env> file
// and ENV-prefixed environment variables.
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "ERP Shell")
	v.SetDefault("backendBaseURL", "http://localhost:5000")
	v.SetDefault("shellAddress", ":8080")
	v.SetDefault("storagePath", filepath.Join(Getwd(), ".erp-session.json"))
	v.SetDefault("requestTimeout", 15*time.Second)
	v.SetDefault("cacheRetention", 60*time.Second)
	v.SetDefault("paymentPollInterval", 5*time.Second)
	v.SetDefault("rollbarToken", "")
	v.SetDefault("build", "dev")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:                 env,
		Debug:               v.GetBool("debug"),
		TestMode:            v.GetBool("testMode"),
		AppName:             v.GetString("appName"),
		Build:               v.GetString("build"),
		BackendBaseURL:      strings.TrimRight(v.GetString("backendBaseURL"), "/"),
		StoragePath:         v.GetString("storagePath"),
		RequestTimeout:      v.GetDuration("requestTimeout"),
		CacheRetention:      v.GetDuration("cacheRetention"),
		PaymentPollInterval: v.GetDuration("paymentPollInterval"),
		RollbarToken:        v.GetString("rollbarToken"),
	}
	conf.Shell.Address = v.GetString("shellAddress")
	return conf
}
