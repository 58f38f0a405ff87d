package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type stageFile struct {
	Model       string   `yaml:"model"`
	Temperature *float64 `yaml:"temperature"`
	MaxTokens   int      `yaml:"max_tokens"`
}

// fileConfig mirrors the optional YAML file. Every field is optional.
type fileConfig struct {
	LLM struct {
		Provider string    `yaml:"provider"`
		BaseURL  string    `yaml:"base_url"`
		Timeout  string    `yaml:"timeout"`
		Prompt   stageFile `yaml:"prompt"`
		Stack    stageFile `yaml:"stack"`
	} `yaml:"llm"`
	LogDir     string   `yaml:"log_dir"`
	RequestLog []string `yaml:"request_log"`
	RateLimit  struct {
		RPS   *float64 `yaml:"rps"`
		Burst int      `yaml:"burst"`
	} `yaml:"rate_limit"`
}

func loadFile(path string) (fileConfig, error) {
	var fc fileConfig
	if strings.TrimSpace(path) == "" {
		return fc, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fc, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return fc, nil
}
