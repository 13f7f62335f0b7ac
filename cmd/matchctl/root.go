package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/logger"
)

const (
	app = "matchctl"
)

// Config is the matchctl configuration file. Every key can also be set from
// the environment, e.g. MATCHCTL_DATABASE_HOST.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Matching MatchingConfig `mapstructure:"matching"`
}

type DatabaseConfig struct {
	Host      string `mapstructure:"host"`
	Port      string `mapstructure:"port"`
	Namespace string `mapstructure:"namespace"`
	Database  string `mapstructure:"database"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
}

type JWTConfig struct {
	PrivateKey     string `mapstructure:"private-key"`
	PublicKey      string `mapstructure:"public-key"`
	Issuer         string `mapstructure:"issuer"`
	ExpirationMins int    `mapstructure:"expiration-mins"`
}

type MatchingConfig struct {
	MaxDistanceKm        float64 `mapstructure:"max-distance-km"`
	TopN                 int     `mapstructure:"top-n"`
	Concurrency          int     `mapstructure:"concurrency"`
	NeutralEmptyBehavior bool    `mapstructure:"neutral-empty-behavior"`
	ActivityWindowDays   int     `mapstructure:"activity-window-days"`
	CandidatePool        int     `mapstructure:"candidate-pool"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "matchctl inspects and operates the LoveConnect compatibility scorer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is matchctl.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", "8000")
	viper.SetDefault("database.namespace", "loveconnect")
	viper.SetDefault("database.database", "main")
	viper.SetDefault("database.user", "root")
	viper.SetDefault("database.password", "root")

	viper.SetDefault("jwt.private-key", "./keys/private.pem")
	viper.SetDefault("jwt.public-key", "./keys/public.pem")
	viper.SetDefault("jwt.issuer", "api.loveconnect.app")
	viper.SetDefault("jwt.expiration-mins", 60*24)

	viper.SetDefault("matching.max-distance-km", 50.0)
	viper.SetDefault("matching.top-n", 20)
	viper.SetDefault("matching.concurrency", 8)
	viper.SetDefault("matching.activity-window-days", 30)
	viper.SetDefault("matching.candidate-pool", 200)
}

func initConfig() {
	viper.SetEnvPrefix(app)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless given explicitly
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			cobra.CheckErr(fmt.Errorf("reading config: %w", err))
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

func newLogger() *zap.Logger {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		cobra.CheckErr(fmt.Errorf("creating logger: %w", err))
	}
	return log
}
