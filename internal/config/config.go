package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrEmptyPath = errors.New("config: path is empty")

// Config is the on-disk planner configuration. Zero values are replaced
// by Normalize so older or partial files keep working.
type Config struct {
	DBPath           string `yaml:"db_path"`
	OwnerID          string `yaml:"owner_id"`
	Listen           string `yaml:"listen"`
	Timezone         string `yaml:"timezone"`
	WeekStart        string `yaml:"week_start"`
	HourHeight       int    `yaml:"hour_height"`
	DayStartHour     int    `yaml:"day_start_hour"`
	DayEndHour       int    `yaml:"day_end_hour"`
	ExportLabel      string `yaml:"export_label"`
	LogLevel         string `yaml:"log_level"`
	LogFormat        string `yaml:"log_format"`
	LogFile          string `yaml:"log_file"`
	AlertLeadMinutes int    `yaml:"alert_lead_minutes"`
	Alerts           bool   `yaml:"alerts"`
	SchedulerBuffer  int    `yaml:"scheduler_buffer"`
}

func Default() *Config {
	return &Config{
		DBPath:           "plannerd.db",
		OwnerID:          "local",
		Listen:           "127.0.0.1:8080",
		Timezone:         "Local",
		WeekStart:        "monday",
		HourHeight:       4,
		DayStartHour:     7,
		DayEndHour:       22,
		ExportLabel:      "schedule",
		LogLevel:         "info",
		LogFormat:        "text",
		AlertLeadMinutes: 10,
		Alerts:           true,
		SchedulerBuffer:  64,
	}
}

func (c *Config) Normalize() {
	def := Default()
	if strings.TrimSpace(c.DBPath) == "" {
		c.DBPath = def.DBPath
	}
	if strings.TrimSpace(c.OwnerID) == "" {
		c.OwnerID = def.OwnerID
	}
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	switch strings.ToLower(c.WeekStart) {
	case "monday", "sunday":
		c.WeekStart = strings.ToLower(c.WeekStart)
	default:
		c.WeekStart = def.WeekStart
	}
	if c.HourHeight <= 0 {
		c.HourHeight = def.HourHeight
	}
	if c.DayStartHour < 0 || c.DayStartHour > 23 {
		c.DayStartHour = def.DayStartHour
	}
	if c.DayEndHour <= c.DayStartHour || c.DayEndHour > 24 {
		c.DayStartHour, c.DayEndHour = def.DayStartHour, def.DayEndHour
	}
	if strings.TrimSpace(c.ExportLabel) == "" {
		c.ExportLabel = def.ExportLabel
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = def.LogFormat
	}
	if c.AlertLeadMinutes < 0 {
		c.AlertLeadMinutes = def.AlertLeadMinutes
	}
	if c.SchedulerBuffer <= 0 {
		c.SchedulerBuffer = def.SchedulerBuffer
	}
}

func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) AlertLead() time.Duration {
	return time.Duration(c.AlertLeadMinutes) * time.Minute
}

// Load reads path, writing the defaults on first run, and then applies
// PLANNERD_* environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg := Default()
		if err := Save(path, cfg); err != nil {
			return cfg, err
		}
		return FromEnv(cfg), nil
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Normalize()
	return FromEnv(&cfg), nil
}

// Save writes cfg atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return ErrEmptyPath
	}
	if cfg == nil {
		return errors.New("config: nil config")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".plannerd-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
