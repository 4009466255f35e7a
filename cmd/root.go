package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Bitlatte/docnav/internal/config"
)

var (
	cfgFile   string
	envFile   string
	verbose   bool
	appConfig config.Config
	logger    = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "docnav",
	Short: "docnav - navigation config for Markdown documentation sites",
	Long: `docnav reads a docs tree and a site definition (navbar, sidebar groups,
head defaults) and writes the navigation configuration consumed by a
static-site generator.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeLogger(); err != nil {
			return err
		}
		return initializeConfig(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./docnav.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("docs", "", "documentation root (default is ./docs)")
	rootCmd.PersistentFlags().String("out", "", "output directory (default is ./public)")
	rootCmd.PersistentFlags().Bool("production", false, "production build: publish search settings")
}

func initializeLogger() error {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l
	return nil
}

func initializeConfig(cmd *cobra.Command) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	v := viper.New()

	v.SetDefault("docsRoot", "docs")
	v.SetDefault("siteFile", "site.yaml")
	v.SetDefault("outputDir", "public")
	v.SetDefault("baseURL", "")
	v.SetDefault("production", false)
	v.SetDefault("cacheSize", 1024)
	v.SetDefault("search.appId", "")
	v.SetDefault("search.apiKey", "")
	v.SetDefault("search.indexName", "")

	for key, flag := range map[string]string{"docsRoot": "docs", "outputDir": "out", "production": "production"} {
		if f := cmd.Flag(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind flag --%s: %w", flag, err)
			}
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("docnav")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("DOCNAV")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// search credentials are also read under the names hosted search
	// providers hand out
	for key, envs := range map[string][]string{
		"search.appId":     {"DOCNAV_SEARCH_APPID", "ALGOLIA_APP_ID"},
		"search.apiKey":    {"DOCNAV_SEARCH_APIKEY", "ALGOLIA_API_KEY"},
		"search.indexName": {"DOCNAV_SEARCH_INDEXNAME", "ALGOLIA_INDEX_NAME"},
	} {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		if cfgFile != "" {
			return fmt.Errorf("config file %s not found: %w", cfgFile, err)
		}
		logger.Debug("no config file found, using defaults and environment")
	} else {
		logger.Info("using config file", zap.String("file", v.ConfigFileUsed()))
	}

	if err := v.Unmarshal(&appConfig); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	return nil
}
