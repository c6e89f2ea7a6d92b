package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// StaticDir serves the client bundle when set.
	StaticDir string
	// LevelsDir is an optional on-disk level directory. When set it
	// overrides the bundled levels and is watched for changes.
	LevelsDir string

	AllowedOrigins []string

	AOIRadius      float64
	PlayerSpeed    float64
	GuardSpeed     float64
	DetectionRange float64
	ContactDamage  float64
	RespawnDelay   time.Duration
	TickInterval   time.Duration
}

// Load reads configuration from the environment, with a .env file picked up
// when present.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}
	return Config{
		Addr:           getEnv("ADDR", ":8080"),
		ReadTimeout:    parseDuration(getEnv("READ_TIMEOUT", "15s"), 15*time.Second),
		WriteTimeout:   parseDuration(getEnv("WRITE_TIMEOUT", "15s"), 15*time.Second),
		StaticDir:      getEnv("STATIC_DIR", ""),
		LevelsDir:      getEnv("LEVELS_DIR", ""),
		AllowedOrigins: []string{getEnv("ALLOWED_ORIGINS", "*")},
		AOIRadius:      parseFloat(getEnv("AOI_RADIUS", ""), DefaultAOIRadius),
		PlayerSpeed:    parseFloat(getEnv("PLAYER_SPEED", ""), DefaultPlayerSpeed),
		GuardSpeed:     parseFloat(getEnv("GUARD_SPEED", ""), DefaultGuardSpeed),
		DetectionRange: parseFloat(getEnv("DETECTION_RANGE", ""), DefaultDetectionRange),
		ContactDamage:  parseFloat(getEnv("CONTACT_DAMAGE", ""), DefaultContactDamage),
		RespawnDelay:   parseDuration(getEnv("RESPAWN_DELAY", ""), DefaultRespawnDelay),
		TickInterval:   parseDuration(getEnv("TICK_INTERVAL", ""), GameTickInterval),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

func parseFloat(s string, def float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}
