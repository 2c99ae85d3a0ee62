package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Discord Bot
	DiscordToken string

	// Database (empty = in-memory ledger, useful for local runs)
	DatabaseURL string

	// Web Server
	WebBind   string
	JWTSecret string

	// House edge
	Edge EdgeConfig

	// Spin rendering
	Spin SpinConfig
}

// EdgeConfig holds the outcome-selection knobs. They are read at selection
// time, so a restart is enough to apply new values.
type EdgeConfig struct {
	BaseEdge             float64
	ProgressiveThreshold int64
	ProgressiveStep      float64
	HighRollerThreshold  int64
	HighRollerPenalty    float64
	StreakSoftThreshold  int
	StreakStep           float64
	StreakTermCap        float64
	MaxConsecutiveWins   int
	ForcedLossProb       float64
	VIPBalanceThreshold  int64
	VIPEdgeReduction     float64
}

type SpinConfig struct {
	FPS            int
	DurationMs     int
	WheelRPM       float64
	BallRPM        float64
	WheelFriction  float64
	BallFriction   float64
	LapCount       int
	InitTimeout    time.Duration
	RenderTimeout  time.Duration
	MaxArtifactLen int
	MinPublishGap  time.Duration
}

func Load() (*Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := &Config{
		DiscordToken: os.Getenv("DISCORD_TOKEN"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		WebBind:      getEnvDefault("WEB_BIND", "0.0.0.0:3000"),
		JWTSecret:    getEnvDefault("JWT_SECRET", "dev-only-change-me"),
		Edge: EdgeConfig{
			BaseEdge:             getEnvFloat("BASE_EDGE", 0.05),
			ProgressiveThreshold: getEnvInt64("PROGRESSIVE_THRESHOLD", 1000),
			ProgressiveStep:      getEnvFloat("PROGRESSIVE_STEP", 0.02),
			HighRollerThreshold:  getEnvInt64("HIGH_ROLLER_THRESHOLD", 5000),
			HighRollerPenalty:    getEnvFloat("HIGH_ROLLER_PENALTY", 0.05),
			StreakSoftThreshold:  getEnvInt("STREAK_SOFT_THRESHOLD", 3),
			StreakStep:           getEnvFloat("STREAK_STEP", 0.04),
			StreakTermCap:        getEnvFloat("STREAK_TERM_CAP", 0.20),
			MaxConsecutiveWins:   getEnvInt("MAX_CONSECUTIVE_WINS", 6),
			ForcedLossProb:       getEnvFloat("FORCED_LOSS_PROB", 0.25),
			VIPBalanceThreshold:  getEnvInt64("VIP_BALANCE_THRESHOLD", 100000),
			VIPEdgeReduction:     getEnvFloat("VIP_EDGE_REDUCTION", 0.01),
		},
		Spin: SpinConfig{
			FPS:            getEnvInt("SPIN_FPS", 24),
			DurationMs:     getEnvInt("SPIN_DURATION_MS", 4000),
			WheelRPM:       getEnvFloat("SPIN_WHEEL_RPM", 18),
			BallRPM:        getEnvFloat("SPIN_BALL_RPM", 45),
			WheelFriction:  getEnvFloat("SPIN_WHEEL_FRICTION", 0.45),
			BallFriction:   getEnvFloat("SPIN_BALL_FRICTION", 0.85),
			LapCount:       getEnvInt("SPIN_LAP_COUNT", 4),
			InitTimeout:    getEnvDuration("RENDER_INIT_TIMEOUT", 3*time.Second),
			RenderTimeout:  getEnvDuration("RENDER_TIMEOUT", 10*time.Second),
			MaxArtifactLen: getEnvInt("MAX_ARTIFACT_BYTES", 8*1024*1024),
			MinPublishGap:  getEnvDuration("MIN_PUBLISH_GAP", 800*time.Millisecond),
		},
	}

	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is required")
	}

	return cfg, nil
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
