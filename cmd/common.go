package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spigell/career-companion/internal/logger"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

// errFailed is returned by commands whose failure has already been logged.
var errFailed = errors.New("command failed")

// setup builds the logger and the effective configuration of a command.
func setup() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig(viper.GetViper())
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		logger.Fatal("config is required")
	}

	logger.Debug("starting", zap.String("version", version), zap.Any("config", redacted(config)))

	return logger, config
}

// redacted returns a copy of config that is safe to log.
func redacted(config *Config) Config {
	out := *config
	if out.OpenRouter != nil {
		or := *out.OpenRouter
		if or.APIKey != "" {
			or.APIKey = "***"
		}
		out.OpenRouter = &or
	}
	if out.Gemini != nil {
		g := *out.Gemini
		if g.APIKey != "" {
			g.APIKey = "***"
		}
		out.Gemini = &g
	}
	return out
}

// readResume returns the text of a plain-text resume file.
func readResume(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("--resume is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading resume %q: %w", path, err)
	}

	return string(data), nil
}

// render writes v to w as indented JSON or YAML.
func render(w io.Writer, v any, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q (use %s or %s)", format, outputJSON, outputYAML)
	}
}

// IsReported reports whether err was already logged by the failing command.
func IsReported(err error) bool {
	return errors.Is(err, errFailed)
}
