package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// FromEnv overlays YALLA_* variables on base. GEMINI_API_KEY and API_KEY are
// accepted for the AI key when YALLA_AI_API_KEY is unset.
func FromEnv(base Config) Config {
	cfg := base
	if v, ok := getEnvString("YALLA_STORAGE_BACKEND"); ok {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v, ok := getEnvString("YALLA_STORAGE_PATH"); ok {
		cfg.Storage.Path = v
	}
	if v, ok := getEnvString("YALLA_REDIS_URL"); ok {
		cfg.Storage.RedisURL = v
	}
	if v, ok := getEnvDuration("YALLA_REMINDER_INTERVAL"); ok && v > 0 {
		cfg.Reminders.Interval = Duration{v}
	}
	if v, ok := getEnvBool("YALLA_DESKTOP_NOTIFICATIONS"); ok {
		cfg.Reminders.DesktopNotifications = v
	}
	if v, ok := getEnvInt("YALLA_REMINDER_BUFFER"); ok && v > 0 {
		cfg.Reminders.Buffer = v
	}
	if v, ok := firstEnv("YALLA_AI_API_KEY", "GEMINI_API_KEY", "API_KEY"); ok {
		cfg.AI.APIKey = v
	}
	if v, ok := getEnvString("YALLA_AI_BASE_URL"); ok {
		cfg.AI.BaseURL = v
	}
	if v, ok := getEnvString("YALLA_AI_TEXT_MODEL"); ok {
		cfg.AI.TextModel = v
	}
	if v, ok := getEnvString("YALLA_AI_TTS_MODEL"); ok {
		cfg.AI.TTSModel = v
	}
	if v, ok := getEnvString("YALLA_AI_VOICE"); ok {
		cfg.AI.Voice = v
	}
	if v, ok := getEnvString("YALLA_AI_LANGUAGE"); ok {
		cfg.AI.Language = v
	}
	if v, ok := getEnvDuration("YALLA_AI_TIMEOUT"); ok && v >= 0 {
		cfg.AI.Timeout = Duration{v}
	}
	if v, ok := getEnvString("YALLA_AUDIO_PLAYER"); ok {
		cfg.Audio.Player = v
	}
	if v, ok := getEnvString("YALLA_LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := getEnvString("YALLA_LOG_FILE"); ok {
		cfg.Log.File = v
	}
	if v, ok := getEnvString("YALLA_DEFAULT_CATEGORY"); ok {
		cfg.UI.DefaultCategory = v
	}
	return cfg
}

func firstEnv(names ...string) (string, bool) {
	for _, name := range names {
		if v, ok := getEnvString(name); ok {
			return v, true
		}
	}
	return "", false
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt(name string) (int, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvDuration(name string) (time.Duration, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
