package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type field struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringField(p func(c *Config) *string) field {
	return field{
		get: func(c *Config) string { return *p(c) },
		set: func(c *Config, v string) error { *p(c) = v; return nil },
	}
}

func intField(p func(c *Config) *int) field {
	return field{
		get: func(c *Config) string { return strconv.Itoa(*p(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("expected an integer, got %q", v)
			}
			if n < 0 {
				return fmt.Errorf("value must not be negative")
			}
			*p(c) = n
			return nil
		},
	}
}

func boolField(p func(c *Config) *bool) field {
	return field{
		get: func(c *Config) string { return strconv.FormatBool(*p(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("expected true or false, got %q", v)
			}
			*p(c) = b
			return nil
		},
	}
}

var fields = map[string]field{
	"server_url":                 stringField(func(c *Config) *string { return &c.ServerURL }),
	"listen_addr":                stringField(func(c *Config) *string { return &c.ListenAddr }),
	"data_file":                  stringField(func(c *Config) *string { return &c.DataFile }),
	"db_path":                    stringField(func(c *Config) *string { return &c.DBPath }),
	"tui_theme":                  stringField(func(c *Config) *string { return &c.TUITheme }),
	"log_level":                  stringField(func(c *Config) *string { return &c.LogLevel }),
	"log_format":                 stringField(func(c *Config) *string { return &c.LogFormat }),
	"log_file":                   stringField(func(c *Config) *string { return &c.LogFile }),
	"request_timeout_seconds":    intField(func(c *Config) *int { return &c.RequestTimeoutSeconds }),
	"copy_to_clipboard":          boolField(func(c *Config) *bool { return &c.CopyToClipboard }),
	"markdown.style":             stringField(func(c *Config) *string { return &c.Markdown.Style }),
	"markdown.enable_emoji":      boolField(func(c *Config) *bool { return &c.Markdown.EnableEmoji }),
	"markdown.preserve_newlines": boolField(func(c *Config) *bool { return &c.Markdown.PreserveNewLines }),
	"typing.mode":                stringField(func(c *Config) *string { return &c.Typing.Mode }),
	"typing.response_delay_ms":   intField(func(c *Config) *int { return &c.Typing.ResponseDelayMS }),
	"typing.think_min_ms":        intField(func(c *Config) *int { return &c.Typing.ThinkMinMS }),
	"typing.think_max_ms":        intField(func(c *Config) *int { return &c.Typing.ThinkMaxMS }),
	"typing.char_interval_ms":    intField(func(c *Config) *int { return &c.Typing.CharIntervalMS }),
	"typing.jitter_ms":           intField(func(c *Config) *int { return &c.Typing.JitterMS }),
	"typing.clause_pause_ms":     intField(func(c *Config) *int { return &c.Typing.ClausePauseMS }),
	"typing.sentence_pause_ms":   intField(func(c *Config) *int { return &c.Typing.SentencePauseMS }),
	"typing.tag_delay_ms":        intField(func(c *Config) *int { return &c.Typing.TagDelayMS }),
}

// Keys returns the settable keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of key formatted as a string.
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[strings.ToLower(key)]
	if !ok {
		return "", fmt.Errorf("unknown config key %q", key)
	}
	return f.get(c), nil
}

// Set parses value and assigns it to key, then validates the result. On error
// the config is left unchanged.
func (c *Config) Set(key, value string) error {
	f, ok := fields[strings.ToLower(key)]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	next := *c
	if err := f.set(&next, strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
