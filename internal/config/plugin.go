package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// PluginConfig is the externally mandated key=value camera-plugin file:
// enabled, height, width, quality (0-100), url (masked in logs), auth
// (masked in logs). The wire format is fixed by the external contract, so
// this is a small line parser rather than a general config format.
type PluginConfig struct {
	Enabled bool
	Height  int
	Width   int
	Quality int
	URL     string
	Auth    string
}

func defaultPluginConfig() PluginConfig {
	return PluginConfig{
		Enabled: true,
		Height:  720,
		Width:   1280,
		Quality: 95,
	}
}

// LoadPlugin reads the key=value plugin config file. Load failure is
// non-fatal per spec.md §7 ("Config: log-and-default") — defaults apply.
func LoadPlugin(path string) (PluginConfig, error) {
	cfg := defaultPluginConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open plugin config: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "enabled":
			if b, err := strconv.ParseBool(value); err == nil {
				cfg.Enabled = b
			}
		case "height":
			if n, err := strconv.Atoi(value); err == nil {
				cfg.Height = n
			}
		case "width":
			if n, err := strconv.Atoi(value); err == nil {
				cfg.Width = n
			}
		case "quality":
			if n, err := strconv.Atoi(value); err == nil {
				cfg.Quality = clampQuality(n)
			}
		case "url":
			cfg.URL = value
		case "auth":
			cfg.Auth = value
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("scan plugin config: %w", err)
	}

	return cfg, nil
}

func clampQuality(q int) int {
	if q < 0 {
		return 0
	}
	if q > 100 {
		return 100
	}
	return q
}

// LogFields returns the plugin config as structured log attributes with
// url and auth masked.
func (c PluginConfig) LogFields() map[string]any {
	return map[string]any{
		"enabled": c.Enabled,
		"height":  c.Height,
		"width":   c.Width,
		"quality": c.Quality,
		"url":     maskSecret(c.URL),
		"auth":    maskSecret(c.Auth),
	}
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return "****"
}
