package config

import (
	"os"
	"strconv"
	"strings"
)

// FromEnv returns a copy of base with PLANNERD_* overrides applied.
// Malformed values are ignored.
func FromEnv(base *Config) *Config {
	cfg := *base
	if v, ok := getEnvString("PLANNERD_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvString("PLANNERD_OWNER_ID"); ok {
		cfg.OwnerID = v
	}
	if v, ok := getEnvString("PLANNERD_LISTEN"); ok {
		cfg.Listen = v
	}
	if v, ok := getEnvString("PLANNERD_TIMEZONE"); ok {
		cfg.Timezone = v
	}
	if v, ok := getEnvString("PLANNERD_WEEK_START"); ok {
		cfg.WeekStart = v
	}
	if v, ok := getEnvInt("PLANNERD_HOUR_HEIGHT"); ok && v > 0 {
		cfg.HourHeight = v
	}
	if v, ok := getEnvString("PLANNERD_EXPORT_LABEL"); ok {
		cfg.ExportLabel = v
	}
	if v, ok := getEnvString("PLANNERD_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvString("PLANNERD_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := getEnvInt("PLANNERD_ALERT_LEAD_MINUTES"); ok && v >= 0 {
		cfg.AlertLeadMinutes = v
	}
	if v, ok := getEnvBool("PLANNERD_ALERTS"); ok {
		cfg.Alerts = v
	}
	if v, ok := getEnvInt("PLANNERD_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	cfg.Normalize()
	return &cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
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
