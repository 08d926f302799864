package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath  = "/app/config.yaml"
	defaultSecretsPath = "/app/secrets.yaml"

	// configEnv points at an explicit config.yaml; secrets.yaml is looked up
	// next to it.
	configEnv = "HRPORTAL_CONFIG"

	configKey = "hrportal"
)

func isTestRun() bool {
	return strings.HasSuffix(os.Args[0], ".test")
}

func configCandidates() []string {
	if p := os.Getenv(configEnv); p != "" {
		return []string{p}
	}
	return []string{defaultConfigPath, "./config.yaml", "../config.yaml"}
}

func secretsCandidates(configPath string) []string {
	if configPath != "" && os.Getenv(configEnv) != "" {
		return []string{strings.TrimSuffix(configPath, "config.yaml") + "secrets.yaml"}
	}
	return []string{defaultSecretsPath, "./secrets.yaml", "../secrets.yaml"}
}

// readMergedConfig returns the config.yaml tree with secrets.yaml laid over
// it. A missing secrets file is fine; one sops cannot decrypt is not.
func readMergedConfig() (map[string]interface{}, string, error) {
	configPath := firstExistingPath(configCandidates()...)
	if configPath == "" {
		if isTestRun() {
			return map[string]interface{}{}, "", nil
		}
		return nil, "", errors.New("config.yaml not found")
	}

	configData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, "", fmt.Errorf("read config: %w", err)
	}
	configMap := map[string]interface{}{}
	if err := yaml.Unmarshal(configData, &configMap); err != nil {
		return nil, "", fmt.Errorf("parse config yaml: %w", err)
	}

	secretsMap := map[string]interface{}{}
	if secretsPath := firstExistingPath(secretsCandidates(configPath)...); secretsPath != "" {
		decrypted, err := decryptSopsFile(secretsPath)
		if err != nil {
			return nil, "", err
		}
		if err := yaml.Unmarshal(decrypted, &secretsMap); err != nil {
			return nil, "", fmt.Errorf("parse secrets yaml: %w", err)
		}
		logrusLogger.Printf("Loaded secrets from %s", secretsPath)
	}

	merged, ok := mergeConfig(configMap, secretsMap).(map[string]interface{})
	if !ok {
		return nil, "", errors.New("merged config is not a map")
	}
	return merged, configPath, nil
}

// loadConfig returns the `hrportal` section as JSON, ready to decode into
// hr_fields.PortalConfig.
func loadConfig() ([]byte, error) {
	merged, configPath, err := readMergedConfig()
	if err != nil {
		return nil, err
	}
	section := getMap(merged, configKey)
	if section == nil {
		section = map[string]interface{}{}
	}
	payload, err := json.Marshal(section)
	if err != nil {
		return nil, fmt.Errorf("encode %s config: %w", configKey, err)
	}
	if configPath != "" {
		logrusLogger.Printf("Loaded config from %s", configPath)
	}
	return payload, nil
}

func firstExistingPath(paths ...string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func decryptSopsFile(path string) ([]byte, error) {
	cmd := exec.Command("sops", "-d", path)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("sops -d %s: %w", path, err)
	}
	return output, nil
}

// mergeConfig overlays override onto base. Maps merge key by key; empty
// strings and empty lists in override keep the base value.
func mergeConfig(base, override interface{}) interface{} {
	if override == nil {
		return base
	}

	switch overrideTyped := override.(type) {
	case map[string]interface{}:
		baseMap, ok := base.(map[string]interface{})
		if !ok {
			baseMap = map[string]interface{}{}
		}
		result := make(map[string]interface{}, len(baseMap))
		for key, value := range baseMap {
			result[key] = value
		}
		for key, value := range overrideTyped {
			result[key] = mergeConfig(result[key], value)
		}
		return result
	case []interface{}:
		if len(overrideTyped) == 0 {
			return base
		}
		return overrideTyped
	case string:
		if overrideTyped == "" {
			return base
		}
		return overrideTyped
	default:
		return override
	}
}

func getMap(source map[string]interface{}, key string) map[string]interface{} {
	if source == nil {
		return nil
	}
	if typed, ok := source[key].(map[string]interface{}); ok {
		return typed
	}
	return nil
}
