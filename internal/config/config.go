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
	Port int

	// Directory layout: uploads are transient pre-pipeline, the audio dir holds
	// extracted WAVs while whisper runs, the gif dir is the public output with
	// time-bounded retention.
	UploadDir string
	AudioDir  string
	GifDir    string

	DBPath string

	WhisperBin   string
	WhisperModel string

	JWTSecret     string
	AdminUsername string
	AdminPassword string
	CORSOrigins   []string

	MaxUploadBytes int64

	// GifRetention drives both the sweep schedule and the age threshold.
	GifRetention time.Duration

	// MatchTolerance and MaxSegments are empirical; the observed values are
	// 0.5s and 5 with no documented rationale for either, so they stay
	// overridable rather than baked in.
	MatchTolerance float64
	MaxSegments    int

	// WrapWidth is the caption word-wrap limit in characters per line.
	WrapWidth int

	// MinSpeechDuration filters detected segments shorter than this (seconds)
	// from the default policy. Zero keeps every segment.
	MinSpeechDuration float64
}

func Load() *Config {
	port, _ := strconv.Atoi(getEnv("PORT", "8080"))
	dataPath := getEnv("DATA_PATH", "./data")

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
		origins := strings.Split(v, ",")
		corsOrigins = make([]string, 0, len(origins))
		for _, o := range origins {
			o = strings.TrimSpace(o)
			if o != "" {
				corsOrigins = append(corsOrigins, o)
			}
		}
	}

	return &Config{
		Port:              port,
		UploadDir:         getEnv("UPLOAD_DIR", "./uploads"),
		AudioDir:          getEnv("AUDIO_DIR", "./audio"),
		GifDir:            getEnv("GIF_DIR", "./gifs"),
		DBPath:            getEnv("DB_PATH", dataPath+"/capgif.db"),
		WhisperBin:        getEnv("WHISPER_BIN", "./whisper.cpp/build/bin/whisper-cli"),
		WhisperModel:      getEnv("WHISPER_MODEL", "./whisper.cpp/models/ggml-base.en.bin"),
		JWTSecret:         jwtSecret,
		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:     getEnv("ADMIN_PASSWORD", "admin"),
		CORSOrigins:       corsOrigins,
		MaxUploadBytes:    getEnvInt64("MAX_UPLOAD_BYTES", 500<<20),
		GifRetention:      getEnvDuration("GIF_RETENTION", 10*time.Minute),
		MatchTolerance:    getEnvFloat("MATCH_TOLERANCE", 0.5),
		MaxSegments:       int(getEnvInt64("MAX_SEGMENTS", 5)),
		WrapWidth:         int(getEnvInt64("CAPTION_WRAP_WIDTH", 30)),
		MinSpeechDuration: getEnvFloat("MIN_SPEECH_DURATION", 0),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
		log.Printf("WARNING: invalid %s=%q, using default %d", key, v, fallback)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("WARNING: invalid %s=%q, using default %g", key, v, fallback)
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		log.Printf("WARNING: invalid %s=%q, using default %s", key, v, fallback)
	}
	return fallback
}
