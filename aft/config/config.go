package config

import (
	"errors"
	"fmt"
	"strings"

	internal "github.com/ZanzyTHEbar/arith-finetune/aft"

	"github.com/spf13/viper"
)

// ErrInvalidConfig indicates a malformed configuration value.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Corpus    CorpusConfig    `mapstructure:"corpus"`
	Tokenizer TokenizerConfig `mapstructure:"tokenizer"`
	Split     SplitConfig     `mapstructure:"split"`
	Training  TrainingConfig  `mapstructure:"training"`
	Model     ModelConfig     `mapstructure:"model"`
	Eval      EvalConfig      `mapstructure:"eval"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts"`
}

// CorpusConfig locates the raw question/answer line file or directory.
type CorpusConfig struct {
	Path string `mapstructure:"path"`
}

// TokenizerConfig selects and bounds the tokenizer.
type TokenizerConfig struct {
	Provider  string `mapstructure:"provider"`
	VocabPath string `mapstructure:"vocabPath"`
	MaxSeqLen int    `mapstructure:"maxSeqLen"`
}

// SplitConfig holds the partition fractions and seed. The fractions are
// configuration on purpose; no document's percentages are authoritative.
type SplitConfig struct {
	TestFraction float64 `mapstructure:"testFraction"`
	ValFraction  float64 `mapstructure:"valFraction"`
	Seed         int64   `mapstructure:"seed"`
}

// TrainingConfig is handed through to the external trainer.
type TrainingConfig struct {
	Epochs       int     `mapstructure:"epochs"`
	BatchSize    int     `mapstructure:"batchSize"`
	LearningRate float64 `mapstructure:"learningRate"`
	LogInterval  int     `mapstructure:"logInterval"`
}

// ModelConfig selects the generation backend.
type ModelConfig struct {
	Provider     string `mapstructure:"provider"`
	Path         string `mapstructure:"path"`
	MaxNewTokens int    `mapstructure:"maxNewTokens"`
}

// EvalConfig bounds the evaluation pass.
type EvalConfig struct {
	Samples int `mapstructure:"samples"`
}

// ArtifactsConfig names the persisted outputs.
type ArtifactsConfig struct {
	LossPath string `mapstructure:"lossPath"`
	RunDB    string `mapstructure:"runDB"`
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(internal.DefaultConfigPath)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Set default values
	v.SetDefault("tokenizer.provider", "word")
	v.SetDefault("tokenizer.maxSeqLen", 512)
	v.SetDefault("split.testFraction", 0.2)
	v.SetDefault("split.valFraction", 0.1)
	v.SetDefault("split.seed", 42)
	v.SetDefault("training.epochs", 3)
	v.SetDefault("training.batchSize", 16)
	v.SetDefault("training.learningRate", 5e-5)
	v.SetDefault("training.logInterval", 10)
	v.SetDefault("model.provider", "echo")
	v.SetDefault("model.maxNewTokens", 16)
	v.SetDefault("eval.samples", 10)
	v.SetDefault("artifacts.lossPath", internal.DefaultLossTracePath)
	v.SetDefault("artifacts.runDB", internal.DefaultRunDBPath)

	v.SetEnvPrefix(strings.ToUpper(internal.DefaultAppName))
	v.AutomaticEnv() // Read in environment variables that match
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; defaults will be used.
	}

	if err := v.Unmarshal(&AppConfig); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := AppConfig.Validate(); err != nil {
		return nil, err
	}
	return &AppConfig, nil
}

// Validate surfaces malformed values immediately at construction.
func (c *Config) Validate() error {
	if c.Tokenizer.MaxSeqLen <= 0 {
		return fmt.Errorf("%w: tokenizer.maxSeqLen must be positive, got %d", ErrInvalidConfig, c.Tokenizer.MaxSeqLen)
	}
	if c.Split.TestFraction <= 0 || c.Split.TestFraction >= 1 {
		return fmt.Errorf("%w: split.testFraction must be inside (0, 1), got %v", ErrInvalidConfig, c.Split.TestFraction)
	}
	if c.Split.ValFraction <= 0 || c.Split.ValFraction >= 1 {
		return fmt.Errorf("%w: split.valFraction must be inside (0, 1), got %v", ErrInvalidConfig, c.Split.ValFraction)
	}
	if c.Training.Epochs <= 0 || c.Training.BatchSize <= 0 || c.Training.LearningRate <= 0 || c.Training.LogInterval <= 0 {
		return fmt.Errorf("%w: training parameters must be positive", ErrInvalidConfig)
	}
	if c.Model.MaxNewTokens <= 0 {
		return fmt.Errorf("%w: model.maxNewTokens must be positive, got %d", ErrInvalidConfig, c.Model.MaxNewTokens)
	}
	if c.Eval.Samples < 0 {
		return fmt.Errorf("%w: eval.samples must not be negative, got %d", ErrInvalidConfig, c.Eval.Samples)
	}
	return nil
}
