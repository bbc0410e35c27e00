package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Surface names accepted by the "surface" preference.
const (
	SurfaceOverlay = "overlay"
	SurfacePanel   = "panel"
)

// DefaultOpenRouterURL is the OpenRouter API base used when none is configured.
const DefaultOpenRouterURL = "https://openrouter.ai/api/v1"

// Preferences holds user-configurable settings.
// Persisted to ~/.config/pinchat/config.yaml.
type Preferences struct {
	Model         string        `yaml:"model"`
	OpenRouterURL string        `yaml:"openrouter_url,omitempty"`
	Surface       string        `yaml:"surface"`
	DismissDelay  time.Duration `yaml:"dismiss_delay"`
	LogLevel      string        `yaml:"log_level"`
}

// PrefEntry holds a single key-value preference entry for display.
type PrefEntry struct {
	Key   string
	Value string
}

// ConfigGroup holds a named group of preference entries for display.
type ConfigGroup struct {
	Name    string
	Entries []PrefEntry
}

// ConfigGroupDef defines a single group with a name and its keys.
type ConfigGroupDef struct {
	Name string
	Keys []string
}

// ConfigGroupDefs defines the preference key groupings and their display order.
var ConfigGroupDefs = []ConfigGroupDef{
	{Name: "chat", Keys: []string{"model", "openrouter.url"}},
	{Name: "auth", Keys: []string{"surface", "dismiss_delay"}},
	{Name: "logging", Keys: []string{"log_level"}},
}

// ValidConfigKeys returns all config keys accepted by Set().
func ValidConfigKeys() []string {
	var keys []string
	for _, g := range ConfigGroupDefs {
		keys = append(keys, g.Keys...)
	}
	return keys
}

// DefaultPreferences returns the default set of preferences.
func DefaultPreferences() Preferences {
	return Preferences{
		Model:         "openai/gpt-4o-mini",
		OpenRouterURL: DefaultOpenRouterURL,
		Surface:       SurfaceOverlay,
		DismissDelay:  0,
		LogLevel:      "info",
	}
}

// ConfigFilePath returns the absolute path to config.yaml.
func ConfigFilePath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// LoadPreferences reads preferences from ~/.config/pinchat/config.yaml.
// Missing or unreadable files yield defaults; parse errors are reported on
// stderr and the defaults for unparsed fields are kept.
func LoadPreferences() Preferences {
	p := DefaultPreferences()
	path := ConfigFilePath()
	if path == "" {
		return p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "config: read %s: %v\n", path, err)
		}
		return p
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		fmt.Fprintf(os.Stderr, "config: parse %s: %v\n", path, err)
	}
	warnInsecurePermissions(path)

	if sanitizePreferences(&p) {
		if err := SavePreferences(p); err != nil {
			fmt.Fprintf(os.Stderr, "config: save sanitized config: %v\n", err)
		}
	}
	return p
}

// SavePreferences writes preferences to ~/.config/pinchat/config.yaml.
func SavePreferences(p Preferences) error {
	dir := ConfigDir()
	if dir == "" {
		return fmt.Errorf("could not determine config directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o600)
}

// warnInsecurePermissions prints a warning to stderr if the config file is
// readable by group or others. On Windows, file permission bits don't map
// to ACLs, so the check is skipped.
func warnInsecurePermissions(path string) {
	if runtime.GOOS == "windows" {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.Mode().Perm()&0o077 != 0 {
		fmt.Fprintf(os.Stderr, "WARNING: %s is readable by others (mode %o). Run: chmod 600 %s\n",
			path, info.Mode().Perm(), path)
	}
}

// Grouped returns all preferences organized into named groups.
func (p Preferences) Grouped() []ConfigGroup {
	var groups []ConfigGroup
	for _, def := range ConfigGroupDefs {
		var entries []PrefEntry
		for _, key := range def.Keys {
			entries = append(entries, PrefEntry{Key: key, Value: AnnotateValue(p.Get(key))})
		}
		groups = append(groups, ConfigGroup{Name: def.Name, Entries: entries})
	}
	return groups
}

// Get returns the display value for a single preference key.
func (p Preferences) Get(key string) string {
	switch key {
	case "model":
		return p.Model
	case "openrouter.url":
		return p.OpenRouterURL
	case "surface":
		return p.Surface
	case "dismiss_delay":
		return p.DismissDelay.String()
	case "log_level":
		return p.LogLevel
	default:
		return ""
	}
}

// Set updates a single preference key to the given value.
func (p *Preferences) Set(key, value string) error {
	value = SanitizeValue(value)
	switch key {
	case "model":
		p.Model = value
	case "openrouter.url":
		if value == "" {
			p.OpenRouterURL = DefaultOpenRouterURL
			return nil
		}
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid URL: %s", value)
		}
		p.OpenRouterURL = strings.TrimRight(value, "/")
	case "surface":
		s, err := ParseSurface(value)
		if err != nil {
			return err
		}
		p.Surface = s
	case "dismiss_delay":
		d, err := ParseDismissDelay(value)
		if err != nil {
			return err
		}
		p.DismissDelay = d
	case "log_level":
		lvl := strings.ToLower(value)
		switch lvl {
		case "debug", "info", "warn", "error":
			p.LogLevel = lvl
		default:
			return fmt.Errorf("invalid log level: %s (use debug, info, warn, error)", value)
		}
	default:
		return fmt.Errorf("unknown key: %s (valid: %s)", key, strings.Join(ValidConfigKeys(), ", "))
	}
	return nil
}

// ParseSurface normalises a surface name.
func ParseSurface(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", SurfaceOverlay:
		return SurfaceOverlay, nil
	case SurfacePanel:
		return SurfacePanel, nil
	default:
		return "", fmt.Errorf("invalid surface: %s (use %s or %s)", s, SurfaceOverlay, SurfacePanel)
	}
}

// ParseDismissDelay parses a non-negative Go duration. A bare number is
// read as seconds.
func ParseDismissDelay(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		d, err = time.ParseDuration(s + "s")
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
	}
	if d < 0 {
		return 0, fmt.Errorf("dismiss delay must not be negative: %s", s)
	}
	return d, nil
}

// SanitizeValue strips null bytes, ASCII control characters (< 32 except
// \n and \t), and DEL (0x7F) from a string value and trims surrounding
// whitespace. Keys and secrets should never contain control characters;
// these typically sneak in through clipboard paste artifacts.
func SanitizeValue(s string) string {
	return strings.Map(func(r rune) rune {
		if (r < 32 && r != '\n' && r != '\t') || r == 0x7F {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// sanitizePreferences strips control characters from all string fields in
// an already-loaded Preferences struct. Returns true if any field was modified.
func sanitizePreferences(p *Preferences) bool {
	changed := false
	sanitize := func(s *string) {
		cleaned := SanitizeValue(*s)
		if cleaned != *s {
			*s = cleaned
			changed = true
		}
	}
	sanitize(&p.Model)
	sanitize(&p.OpenRouterURL)
	sanitize(&p.Surface)
	sanitize(&p.LogLevel)
	return changed
}

// MaskKey masks an API key for display, showing only the last 4 characters.
func MaskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

// AnnotateValue returns a display string for a config value.
func AnnotateValue(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}

// FormatConfigGroups renders config groups as plain text (no ANSI styling).
func FormatConfigGroups(groups []ConfigGroup) string {
	var lines []string
	for i, g := range groups {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, strings.ToUpper(g.Name[:1])+g.Name[1:]+":")
		for _, e := range g.Entries {
			lines = append(lines, fmt.Sprintf("  %-16s %s", e.Key, e.Value))
		}
	}
	return strings.Join(lines, "\n")
}
