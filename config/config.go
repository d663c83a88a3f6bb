package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/storage"
	"github.com/Dosada05/tournament-engine/utils"
)

type Config struct {
	ServerPort         int
	DatabaseURL        string
	JWTSecretKey       string
	LogLevel           slog.Level
	NATSURL            string
	NATSSubject        string
	R2                 storage.R2Config
	MatchdaySweepEvery time.Duration
	CORSAllowedOrigins []string
	Scoring            models.Scoring
}

// Load reads the configuration from the environment. A .env file, when
// present, is loaded first; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, typically os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := &Config{
		DatabaseURL:        get("DATABASE_URL"),
		JWTSecretKey:       get("JWT_SECRET_KEY"),
		NATSURL:            get("NATS_URL"),
		NATSSubject:        get("NATS_SUBJECT"),
		CORSAllowedOrigins: utils.SplitAndTrim(get("CORS_ALLOWED_ORIGINS")),
	}

	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}
	if cfg.NATSSubject == "" {
		cfg.NATSSubject = "tournaments.events"
	}

	port, err := intOr(get("SERVER_PORT"), 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	cfg.ServerPort = port

	cfg.LogLevel, err = parseLevel(get("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}

	cfg.MatchdaySweepEvery = 5 * time.Minute
	if raw := get("MATCHDAY_SWEEP_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid MATCHDAY_SWEEP_INTERVAL: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("MATCHDAY_SWEEP_INTERVAL must be positive, got %s", d)
		}
		cfg.MatchdaySweepEvery = d
	}

	cfg.R2 = storage.R2Config{
		AccountID:       get("R2_ACCOUNT_ID"),
		AccessKeyID:     get("R2_ACCESS_KEY_ID"),
		SecretAccessKey: get("R2_SECRET_ACCESS_KEY"),
		BucketName:      get("R2_BUCKET_NAME"),
		PublicBaseURL:   get("R2_PUBLIC_BASE_URL"),
	}
	if err := checkR2(cfg.R2); err != nil {
		return nil, err
	}

	cfg.Scoring, err = loadScoring(get)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// checkR2 accepts either no R2 settings at all or a complete set.
func checkR2(r2 storage.R2Config) error {
	fields := map[string]string{
		"R2_ACCOUNT_ID":        r2.AccountID,
		"R2_ACCESS_KEY_ID":     r2.AccessKeyID,
		"R2_SECRET_ACCESS_KEY": r2.SecretAccessKey,
		"R2_BUCKET_NAME":       r2.BucketName,
		"R2_PUBLIC_BASE_URL":   r2.PublicBaseURL,
	}
	var missing []string
	for key, v := range fields {
		if v == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 || len(missing) == len(fields) {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("incomplete R2 configuration, missing %s", strings.Join(missing, ", "))
}

func loadScoring(get func(string) string) (models.Scoring, error) {
	scoring := models.DefaultScoring()
	var err error
	if scoring.PointsWin, err = intOr(get("DEFAULT_POINTS_WIN"), scoring.PointsWin); err != nil {
		return scoring, fmt.Errorf("invalid DEFAULT_POINTS_WIN: %w", err)
	}
	if scoring.PointsDraw, err = intOr(get("DEFAULT_POINTS_DRAW"), scoring.PointsDraw); err != nil {
		return scoring, fmt.Errorf("invalid DEFAULT_POINTS_DRAW: %w", err)
	}
	if scoring.PointsLoss, err = intOr(get("DEFAULT_POINTS_LOSS"), scoring.PointsLoss); err != nil {
		return scoring, fmt.Errorf("invalid DEFAULT_POINTS_LOSS: %w", err)
	}
	if names := utils.SplitAndTrim(get("DEFAULT_TIEBREAKERS")); len(names) > 0 {
		chain, err := brackets.ParseTiebreakers(names)
		if err != nil {
			return scoring, fmt.Errorf("invalid DEFAULT_TIEBREAKERS: %w", err)
		}
		scoring.Tiebreakers = chain
	}
	return scoring, nil
}

func intOr(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func parseLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(raw) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", raw)
	}
}
