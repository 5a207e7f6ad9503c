package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/career-companion/internal/pipeline"
)

const (
	app = "career-companion"

	providerOpenRouter = "openrouter"
	providerGemini     = "gemini"

	defaultModels = "meta-llama/llama-3.3-70b-instruct:free," +
		"google/gemini-2.0-flash-exp:free," +
		"mistralai/mistral-small-3.1-24b-instruct:free," +
		"google/gemma-3-27b-it:free"
)

type Config struct {
	Provider     string            `mapstructure:"provider"`
	Models       string            `mapstructure:"models"`
	Temperature  float64           `mapstructure:"temperature"`
	MaxLogLength int               `mapstructure:"max-log-length"`
	Pipeline     pipeline.Options  `mapstructure:"pipeline"`
	OpenRouter   *OpenRouterConfig `mapstructure:"openrouter"`
	Gemini       *GeminiConfig     `mapstructure:"gemini"`
}

type OpenRouterConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	BaseURL    string `mapstructure:"base-url"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "career-companion turns a resume and a target role into skill gaps, a learning roadmap and interview questions",
		// Failures are reported by the commands themselves.
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	setDefaults(viper.GetViper())

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is career-companion.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", providerOpenRouter)
	v.SetDefault("models", defaultModels)
	v.SetDefault("temperature", 0.1)
	v.SetDefault("max-log-length", 200)
	v.SetDefault("pipeline.parallel-intake", false)
	v.SetDefault("openrouter.api-key", "")
	v.SetDefault("openrouter.api-key-file", "")
	v.SetDefault("openrouter.base-url", "https://openrouter.ai/api/v1")
	v.SetDefault("gemini.api-key", "")
	v.SetDefault("gemini.api-key-file", "")

	envs := map[string]string{
		"provider":                "AI_PROVIDER",
		"models":                  "MODEL_IDS",
		"openrouter.api-key":      "OPENROUTER_API_KEY",
		"openrouter.api-key-file": "OPENROUTER_API_KEY_FILE",
		"gemini.api-key":          "GEMINI_API_KEY",
		"gemini.api-key-file":     "GEMINI_API_KEY_FILE",
	}
	for key, env := range envs {
		if err := v.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}
}

func initConfig() {
	// The version command works without any configuration.
	if versionCmd.CalledAs() != "" {
		return
	}

	if err := readConfig(viper.GetViper(), cfgFile); err != nil {
		log.Fatal(err)
	}
}

// readConfig loads the config file. A missing default file is fine since
// every key has a default or an environment binding; an explicit --config
// must exist.
func readConfig(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
		return v.ReadInConfig()
	}

	v.AddConfigPath(".")
	v.SetConfigName(app)
	v.SetConfigType("yaml")

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}

func getConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	err := v.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
