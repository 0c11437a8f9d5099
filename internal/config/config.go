// Package config loads the garden configuration: a YAML file, an optional
// .env file, and GARDEN_* environment overrides, validated as a whole.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/secret-garden/garden/internal/breathing"
	"github.com/secret-garden/garden/internal/companion"
	"github.com/secret-garden/garden/internal/gamification"
)

const (
	appDirName     = "selfcare-garden"
	configFileName = "config.yaml"
)

type Config struct {
	Storage     StorageConfig     `yaml:"storage"`
	Log         LogConfig         `yaml:"log"`
	Timezone    string            `yaml:"timezone" env:"GARDEN_TIMEZONE" validate:"omitempty,timezone"`
	Breathing   BreathingConfig   `yaml:"breathing"`
	Progression ProgressionConfig `yaml:"progression"`
	Quests      []string          `yaml:"quests" validate:"min=1,dive,required"`
	Prompts     []string          `yaml:"prompts" validate:"min=1,dive,required"`
}

type StorageConfig struct {
	Backend string `yaml:"backend" env:"GARDEN_STORAGE_BACKEND" validate:"oneof=file sqlite memory"`
	// Path is a directory for the file backend and a database file for
	// sqlite. Empty selects the XDG state directory.
	Path string `yaml:"path" env:"GARDEN_STORAGE_PATH"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"GARDEN_LOG_LEVEL" validate:"oneof=debug info warn error off"`
	Format string `yaml:"format" env:"GARDEN_LOG_FORMAT" validate:"oneof=json console"`
	// File receives log output. Empty selects garden.log in the state dir.
	File string `yaml:"file" env:"GARDEN_LOG_FILE"`
}

type BreathingConfig struct {
	Pattern string        `yaml:"pattern" env:"GARDEN_BREATHING_PATTERN" validate:"breathing_pattern"`
	Tick    time.Duration `yaml:"tick" validate:"gt=0"`
}

type ProgressionConfig struct {
	Levels       []int               `yaml:"levels" validate:"min=2,ascending"`
	WeeklyTarget int                 `yaml:"weekly_target" validate:"gt=0"`
	Tasks        []TaskConfig        `yaml:"tasks" validate:"min=1,unique=ID,dive"`
	Awards       AwardsConfig        `yaml:"awards"`
	Moods        []string            `yaml:"moods" validate:"min=1,dive,required"`
	Achievements []AchievementConfig `yaml:"achievements" validate:"unique=ID,dive"`
}

type TaskConfig struct {
	ID    string `yaml:"id" validate:"required"`
	Label string `yaml:"label" validate:"required"`
	XP    int    `yaml:"xp" validate:"gt=0"`
}

type AwardsConfig struct {
	Breath  int `yaml:"breath" validate:"gte=0"`
	Journal int `yaml:"journal" validate:"gte=0"`
	Quest   int `yaml:"quest" validate:"gte=0"`
	Mood    int `yaml:"mood" validate:"gte=0"`
}

type AchievementConfig struct {
	ID       string `yaml:"id" validate:"required"`
	Icon     string `yaml:"icon"`
	Title    string `yaml:"title" validate:"required"`
	Desc     string `yaml:"desc"`
	Category string `yaml:"category"`
	Metric   string `yaml:"metric" validate:"metric"`
	Min      int    `yaml:"min" validate:"gte=0"`
}

// Default returns the stock configuration.
func Default() *Config {
	rules := gamification.DefaultRules()
	cfg := &Config{
		Storage:   StorageConfig{Backend: "file"},
		Log:       LogConfig{Level: "info", Format: "json"},
		Breathing: BreathingConfig{Pattern: breathing.DefaultPattern, Tick: 100 * time.Millisecond},
		Progression: ProgressionConfig{
			Levels:       rules.Levels,
			WeeklyTarget: rules.WeeklyTarget,
			Awards: AwardsConfig{
				Breath:  rules.Awards.Breath,
				Journal: rules.Awards.Journal,
				Quest:   rules.Awards.Quest,
				Mood:    rules.Awards.Mood,
			},
			Moods: rules.Moods,
		},
		Quests:  append([]string(nil), companion.DefaultQuests...),
		Prompts: append([]string(nil), companion.DefaultPrompts...),
	}
	for _, t := range rules.Tasks {
		cfg.Progression.Tasks = append(cfg.Progression.Tasks, TaskConfig{ID: t.ID, Label: t.Label, XP: t.XP})
	}
	for _, a := range rules.Achievements {
		cfg.Progression.Achievements = append(cfg.Progression.Achievements, AchievementConfig{
			ID: a.ID, Icon: a.Icon, Title: a.Title, Desc: a.Desc,
			Category: string(a.Category), Metric: string(a.Metric), Min: a.Min,
		})
	}
	return cfg
}

// DefaultPath returns ~/.config/selfcare-garden/config.yaml, respecting
// XDG_CONFIG_HOME if set.
func DefaultPath() string {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, appDirName, configFileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".config", appDirName, configFileName)
}

// Load reads path over the defaults, applies .env and GARDEN_* overrides and
// validates the result. A missing file is not an error. Lists given in the
// file replace the default list wholesale.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// A .env file only fills variables that are not already set.
	_ = godotenv.Load()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location returns the configured timezone, time.Local when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone: %w", err)
	}
	return loc, nil
}

// Rules converts the progression section into engine rules.
func (c *Config) Rules() gamification.Rules {
	p := c.Progression
	rules := gamification.Rules{
		Levels:       append([]int(nil), p.Levels...),
		WeeklyTarget: p.WeeklyTarget,
		Awards: gamification.Awards{
			Breath:  p.Awards.Breath,
			Journal: p.Awards.Journal,
			Quest:   p.Awards.Quest,
			Mood:    p.Awards.Mood,
		},
		Moods: append([]string(nil), p.Moods...),
	}
	for _, t := range p.Tasks {
		rules.Tasks = append(rules.Tasks, gamification.TaskDef{ID: t.ID, Label: t.Label, XP: t.XP})
	}
	for _, a := range p.Achievements {
		rules.Achievements = append(rules.Achievements, gamification.Achievement{
			ID: a.ID, Icon: a.Icon, Title: a.Title, Desc: a.Desc,
			Category: gamification.Category(a.Category),
			Metric:   gamification.Metric(a.Metric),
			Min:      a.Min,
		})
	}
	return rules
}

// BreathingPattern returns the parsed default breathing pattern.
func (c *Config) BreathingPattern() (breathing.Pattern, error) {
	return breathing.ParsePattern(c.Breathing.Pattern)
}
