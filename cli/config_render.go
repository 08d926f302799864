package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/adonese/hrportal/hr_fields"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

const redacted = "<redacted>"

// secretKeys are never printed by render-config.
var secretKeys = map[string]bool{
	"data_key":            true,
	"admin_key":           true,
	"admin_password":      true,
	"admin_password_hash": true,
	"admin_totp_secret":   true,
	"redis_password":      true,
	"db_url":              true,
}

// renderConfig writes the effective configuration, defaults applied and
// secrets redacted, as YAML under the `hrportal` key.
func renderConfig(w io.Writer) error {
	raw, err := loadConfig()
	if err != nil {
		return err
	}
	var cfg hr_fields.PortalConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	cfg.Defaults()

	out, err := redactedSection(cfg)
	if err != nil {
		return err
	}
	payload, err := yaml.Marshal(map[string]interface{}{configKey: out})
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err = w.Write(payload)
	return err
}

func redactedSection(cfg hr_fields.PortalConfig) (map[string]interface{}, error) {
	encoded, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	section := map[string]interface{}{}
	if err := json.Unmarshal(encoded, &section); err != nil {
		return nil, err
	}
	for key, value := range section {
		if !secretKeys[key] {
			continue
		}
		if s, ok := value.(string); ok && s != "" {
			section[key] = redacted
		}
	}
	return section, nil
}

// setKeys lists the config keys that differ from their zero value, for the
// startup log line.
func setKeys(section map[string]interface{}) string {
	keys := make([]string, 0, len(section))
	for key, value := range section {
		switch v := value.(type) {
		case string:
			if v == "" {
				continue
			}
		case bool:
			if !v {
				continue
			}
		case float64:
			if v == 0 {
				continue
			}
		case nil:
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}
