package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/doesmyresumematch/internal/api"
	"github.com/spigell/doesmyresumematch/internal/tracing"
)

const (
	app = "doesmyresumematch"
)

type Config struct {
	APIURL           string          `mapstructure:"api-url"`
	AnalyticsEnabled bool            `mapstructure:"analytics-enabled"`
	ExportBasePath   string          `mapstructure:"export-base-path"`
	StorageDir       string          `mapstructure:"storage-dir"`
	ConsentSave      bool            `mapstructure:"consent-save"`
	RequestTimeout   time.Duration   `mapstructure:"request-timeout"`
	Server           *ServerConfig   `mapstructure:"server"`
	PDF              *PDFConfig      `mapstructure:"pdf"`
	Tracing          *tracing.Config `mapstructure:"tracing"`
}

type ServerConfig struct {
	Listen      string   `mapstructure:"listen"`
	CORSOrigins []string `mapstructure:"cors-origins"`
}

type PDFConfig struct {
	ChromeURL string        `mapstructure:"chrome-url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

var envBindings = map[string]string{
	"api-url":           "API_BASE",
	"analytics-enabled": "ANALYTICS_ENABLED",
	"export-base-path":  "BASE_PATH",
	"storage-dir":       "STORAGE_DIR",
	"server.listen":     "LISTEN_ADDR",
	"pdf.chrome-url":    "CHROME_WS_URL",
	"tracing.enabled":   "TRACING_ENABLED",
	"tracing.protocol":  "OTEL_EXPORTER_OTLP_PROTOCOL",
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "doesmyresumematch scores a resume against a job description and exports the report",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	setDefaults()

	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is doesmyresumematch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("api-url", "", "base address of the scoring service")
	rootCmd.PersistentFlags().String("storage-dir", "", "directory for local results (default is the user config dir)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("api-url", rootCmd.PersistentFlags().Lookup("api-url"))
	viper.BindPFlag("storage-dir", rootCmd.PersistentFlags().Lookup("storage-dir"))
}

func setDefaults() {
	viper.SetDefault("api-url", api.DefaultAPIURL)
	viper.SetDefault("analytics-enabled", false)
	viper.SetDefault("export-base-path", "")
	viper.SetDefault("consent-save", false)
	viper.SetDefault("request-timeout", 30*time.Second)
	viper.SetDefault("server.listen", ":3000")
	viper.SetDefault("server.cors-origins", []string{})
	viper.SetDefault("pdf.chrome-url", "")
	viper.SetDefault("pdf.timeout", 60*time.Second)
	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("tracing.protocol", tracing.ProtocolGRPC)
	viper.SetDefault("tracing.service-name", app)
}

func initConfig() {
	// .env is optional
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit config file must exist; the default one is optional.
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

	if config.Server == nil {
		config.Server = &ServerConfig{}
	}
	if config.PDF == nil {
		config.PDF = &PDFConfig{}
	}
	if config.Tracing == nil {
		config.Tracing = &tracing.Config{}
	}

	return config, nil
}
