// Command analyze runs the document analysis pipeline against local files and
// prints the structured result as JSON.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"resume-matcher/internal/shared/config"
	"resume-matcher/internal/shared/telemetry"
)

var (
	cfgFile string
	outPath string

	rootCmd = &cobra.Command{
		Use:           "analyze",
		Short:         "Run the resume/job analysis pipeline on local files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return initConfig()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "optional config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVarP(&outPath, "out", "o", "", "write JSON output to this file instead of stdout")
	rootCmd.PersistentFlags().String("provider", "", "model provider: gemini or openai")
	rootCmd.PersistentFlags().String("model", "", "model name")
	rootCmd.PersistentFlags().String("api-key", "", "API key for the selected provider")
	rootCmd.PersistentFlags().Duration("timeout", 0, "model call timeout")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level")

	for _, name := range []string{"provider", "model", "api-key", "timeout", "log-level"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
	_ = viper.BindEnv("provider", "LLM_PROVIDER")
	_ = viper.BindEnv("model", "LLM_MODEL")
	_ = viper.BindEnv("log-level", "LOG_LEVEL")
}

func initConfig() error {
	if cfgFile == "" {
		return nil
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", cfgFile, err)
	}
	return nil
}

// loadConfig merges the environment config with flag, env and file overrides.
func loadConfig() config.Config {
	cfg := config.Load()
	if v := viper.GetString("provider"); v != "" {
		cfg.LLMProvider = config.NormalizeProvider(v)
	}
	if v := viper.GetString("model"); v != "" {
		cfg.LLMModel = v
	}
	if v := viper.GetString("api-key"); v != "" {
		cfg.GeminiAPIKey = v
		cfg.OpenAIAPIKey = v
	}
	if v := viper.GetDuration("timeout"); v > 0 {
		cfg.LLMTimeout = v
	}
	if v := viper.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	telemetry.Init(cfg.LogLevel)
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
