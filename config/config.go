package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/radhian/booking-reconciliation/consts"
	"github.com/radhian/booking-reconciliation/infra/db"
)

var validate = validator.New()

type Config struct {
	DB db.Config

	InputPath            string `validate:"required"`
	Sheet                string
	InputFormat          string `validate:"omitempty,oneof=xlsx csv tsv"`
	OutputDir            string `validate:"required"`
	DefaultCurrency      string `validate:"required,len=3"`
	PhoneRegion          string `validate:"omitempty,len=2"`
	Similarity           string `validate:"oneof=dice levenshtein"`
	RebookingWindowDays  int    `validate:"min=1"`
	PriceNotExtractedSrc string `validate:"required"`
	Port                 string `validate:"required,numeric"`
	// ScheduleInterval is the pause between runs of the scheduled worker.
	ScheduleInterval time.Duration `validate:"min=1s"`
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	window, err := intEnv("RECON_REBOOKING_WINDOW_DAYS", consts.DefaultRebookingWindow)
	if err != nil {
		return Config{}, err
	}

	interval, err := durationEnv("RECON_SCHEDULE_INTERVAL", consts.DefaultScheduleInterval)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DB: db.Config{
			Driver:   env("DB_DRIVER", db.DriverPostgres),
			Host:     os.Getenv("DB_HOST"),
			Port:     os.Getenv("DB_PORT"),
			User:     os.Getenv("DB_USER"),
			Name:     os.Getenv("DB_NAME"),
			Password: os.Getenv("DB_PASSWORD"),
			Path:     os.Getenv("DB_PATH"),
		},
		InputPath:            env("RECON_INPUT", consts.DefaultInputPath),
		Sheet:                os.Getenv("RECON_SHEET"),
		InputFormat:          strings.ToLower(os.Getenv("RECON_INPUT_FORMAT")),
		OutputDir:            env("RECON_OUTPUT_DIR", consts.DefaultOutputDir),
		DefaultCurrency:      strings.ToUpper(env("RECON_DEFAULT_CURRENCY", consts.DefaultCurrency)),
		PhoneRegion:          strings.ToUpper(env("RECON_PHONE_REGION", consts.DefaultPhoneRegion)),
		Similarity:           strings.ToLower(env("RECON_SIMILARITY", consts.DefaultSimilarity)),
		RebookingWindowDays:  window,
		PriceNotExtractedSrc: strings.ToLower(env("RECON_PRICE_NOT_EXTRACTED_SOURCE", consts.DefaultPriceNotExtracted)),
		Port:                 env("PORT", consts.DefaultPort),
		ScheduleInterval:     interval,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
