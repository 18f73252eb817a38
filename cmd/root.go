package cmd

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/jale-assistant/internal/discovery"
	"github.com/spigell/jale-assistant/internal/reminder"
	"github.com/spigell/jale-assistant/internal/threadlock"
)

const (
	app = "jale-assistant"
)

type Config struct {
	Store         *StoreConfig      `mapstructure:"store"`
	Redis         *RedisConfig      `mapstructure:"redis"`
	Language      string            `mapstructure:"language"`
	KnowledgeFile string            `mapstructure:"knowledge-file"`
	Interview     *InterviewConfig  `mapstructure:"interview"`
	Lock          *LockConfig       `mapstructure:"lock"`
	State         *StateConfig      `mapstructure:"state"`
	Discovery     *discovery.Config `mapstructure:"discovery"`
	Reminder      *reminder.Config  `mapstructure:"reminder"`
	AI            *AIConfig         `mapstructure:"ai"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// RedisConfig switches dialogue state and thread locks to Redis when URL is set.
type RedisConfig struct {
	URL          string `mapstructure:"url"`
	PasswordFile string `mapstructure:"password-file"`
}

type InterviewConfig struct {
	Duration int `mapstructure:"duration"`
}

// LockConfig bounds waiting for a busy thread. TTL only applies to Redis locks, which
// are extended while held.
type LockConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type StateConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type AIConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Gemini  *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jale-assistant matches trade workers with jobs and books their interviews from chat",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"store.path":             "JALE_DB",
		"redis.url":              "JALE_REDIS_URL",
		"redis.password-file":    "JALE_REDIS_PASSWORD_FILE",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"language":               "JALE_LANGUAGE",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("store.path", "data/jale.db")
	viper.SetDefault("language", "en")
	viper.SetDefault("interview.duration", 30)
	viper.SetDefault("lock.timeout", 30*time.Second)
	viper.SetDefault("lock.ttl", threadlock.DefaultTTL)
	viper.SetDefault("state.ttl", 24*time.Hour)
	viper.SetDefault("discovery.job-status", "open")
	viper.SetDefault("discovery.minimum-score", 50)
	viper.SetDefault("reminder.schedule", reminder.DefaultSchedule)
	viper.SetDefault("reminder.lead-time", reminder.DefaultLeadTime)
	viper.SetDefault("ai.gemini.max-retries", 3)
	viper.SetDefault("ai.gemini.max-log-length", 200)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jale-assistant.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("db", "", "path to the record store (overrides store.path)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("db"))
}

func initConfig() {
	// A missing .env is normal; a broken one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	// Without an explicit --config the file is optional: defaults and env cover everything.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
