// Package config reads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the server configuration read by Load.
type Config struct {
	Port       string
	MongoURI   string
	MongoDB    string
	JWTSecret  string
	JWTTTL     time.Duration
	DBTimeout  time.Duration
	LogLevel   slog.Level
	RateLimits RateLimits

	// TrustedProxies are the proxy IPs or CIDRs whose X-Forwarded-For is
	// believed. Empty means the peer address is the client.
	TrustedProxies []string
}

// RateLimits are requests per minute per client IP.
type RateLimits struct {
	VotePerMinute  int
	SavePerMinute  int
	TokenPerMinute int
}

// Load reads the environment. A missing token secret is an error: tokens
// must never be signed with an empty key.
func Load() (Config, error) {
	cfg := Config{
		Port:      envString("PORT", "5000"),
		MongoURI:  mongoURI(),
		MongoDB:   envString("MONGO_DB", "codeStack"),
		JWTSecret: envString("JWT_SECRET", os.Getenv("Access_token_secret")),
		JWTTTL:    envDuration("JWT_TTL", 24*time.Hour),
		DBTimeout: envDuration("DB_TIMEOUT", 5*time.Second),
		LogLevel:  envLevel("LOG_LEVEL", slog.LevelInfo),
		RateLimits: RateLimits{
			VotePerMinute:  envInt("RL_VOTE_PER_MIN", 120),
			SavePerMinute:  envInt("RL_SAVE_PER_MIN", 60),
			TokenPerMinute: envInt("RL_TOKEN_PER_MIN", 30),
		},
		TrustedProxies: envList("TRUSTED_PROXIES"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET not set in env")
	}
	if cfg.JWTTTL <= 0 {
		return Config{}, fmt.Errorf("JWT_TTL must be positive, got %s", cfg.JWTTTL)
	}
	return cfg, nil
}

// mongoURI prefers MONGO_URI and otherwise assembles an Atlas URI from the
// DB_User/DB_Pass/DB_HOST credentials.
func mongoURI() string {
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		return uri
	}
	user, pass, host := os.Getenv("DB_User"), os.Getenv("DB_Pass"), os.Getenv("DB_HOST")
	if user == "" || pass == "" || host == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(user, pass),
		Host:     host,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority",
	}
	return u.String()
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envList splits a comma separated value, dropping blank entries.
func envList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envLevel(key string, def slog.Level) slog.Level {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(v)); err != nil {
		return def
	}
	return lvl
}
