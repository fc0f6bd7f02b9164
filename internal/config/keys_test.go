package config

import (
	"sort"
	"testing"
)

func TestConfig_Set(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{key: "server_url", value: "http://example.com"},
		{key: "copy_to_clipboard", value: "true"},
		{key: "typing.mode", value: "uniform"},
		{key: "typing.jitter_ms", value: "0"},
		{key: "Markdown.Style", value: "light"},
		{key: "typing.mode", value: "sideways", wantErr: true},
		{key: "typing.jitter_ms", value: "-1", wantErr: true},
		{key: "request_timeout_seconds", value: "soon", wantErr: true},
		{key: "copy_to_clipboard", value: "maybe", wantErr: true},
		{key: "default_model", value: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if cfg != DefaultConfig() {
					t.Error("failed Set() modified the config")
				}
				return
			}
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got != tt.value {
				t.Errorf("Get() = %q, want %q", got, tt.value)
			}
		})
	}
}

func TestKeys(t *testing.T) {
	keys := Keys()
	if !sort.StringsAreSorted(keys) {
		t.Error("Keys() is not sorted")
	}
	cfg := DefaultConfig()
	for _, k := range keys {
		if _, err := cfg.Get(k); err != nil {
			t.Errorf("Get(%q) error = %v", k, err)
		}
	}
}
