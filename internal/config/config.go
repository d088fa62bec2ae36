package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port           int
	DataPath       string
	DBPath         string
	JWTSecret      string
	AdminUsername  string
	AdminPassword  string
	CORSOrigins    []string
	TargetLangs    []string
	DebounceWindow time.Duration
}

func Load() *Config {
	port, _ := strconv.Atoi(getEnv("PORT", "8080"))
	dataPath := getEnv("DATA_PATH", "/data")

	// JWT secret: require explicit setting or generate random
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			log.Fatalf("Failed to generate random JWT secret: %v", err)
		}
		jwtSecret = hex.EncodeToString(b)
		log.Println("WARNING: JWT_SECRET not set, using random secret. Sessions will not survive restarts. Set JWT_SECRET env var for persistent sessions.")
	}

	// CORS origins: comma-separated list or "*" (default)
	corsOrigins := []string{"*"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		corsOrigins = splitList(v)
	}

	// Target languages: comma-separated ISO 639-1 codes
	targetLangs := []string{"es", "fr", "ja", "de"}
	if v := os.Getenv("TARGET_LANGS"); v != "" {
		targetLangs = splitList(v)
	}

	debounceMs, _ := strconv.Atoi(getEnv("DEBOUNCE_MS", "800"))
	if debounceMs <= 0 {
		debounceMs = 800
	}

	return &Config{
		Port:           port,
		DataPath:       dataPath,
		DBPath:         getEnv("DB_PATH", dataPath+"/polyglot.db"),
		JWTSecret:      jwtSecret,
		AdminUsername:  getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", "admin"),
		CORSOrigins:    corsOrigins,
		TargetLangs:    targetLangs,
		DebounceWindow: time.Duration(debounceMs) * time.Millisecond,
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
