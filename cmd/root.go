package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cris/internal/careers"
	"github.com/spigell/cris/internal/logger"
)

const (
	app       = "cris"
	envPrefix = "CRIS"
)

type Config struct {
	Career      string        `mapstructure:"career"`
	CareersFile string        `mapstructure:"careers-file"`
	Plan        *PlanConfig   `mapstructure:"plan"`
	Resume      *ResumeConfig `mapstructure:"resume"`
	Report      *ReportConfig `mapstructure:"report"`
}

type PlanConfig struct {
	Subjects     []string `mapstructure:"subjects"`
	OtherSubject string   `mapstructure:"other-subject"`
	DailyHours   float64  `mapstructure:"daily-hours"`
	ExamDate     string   `mapstructure:"exam-date"`
	// Confidence holds "Subject=level" pairs.
	Confidence []string `mapstructure:"confidence"`
}

type ResumeConfig struct {
	File string `mapstructure:"file"`
	Text string `mapstructure:"text"`
	Demo bool   `mapstructure:"demo"`
}

type ReportConfig struct {
	Output string `mapstructure:"output"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cris estimates career readiness from a study plan, a resume and a career skill table",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cris.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("career", "c", "", "target career (default is the first career in the catalog)")
	rootCmd.PersistentFlags().String("careers-file", "", "a YAML file that replaces the built-in career catalog")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("career", rootCmd.PersistentFlags().Lookup("career"))
	viper.BindPFlag("careers-file", rootCmd.PersistentFlags().Lookup("careers-file"))
}

func initConfig() {
	// .env is optional and only feeds CRIS_* variables.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// An explicit config must exist; the default one is optional.
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

	if config == nil {
		config = &Config{}
	}

	return config, nil
}

// setup builds the logger, the config and the career catalog shared by all
// commands. Any failure here is fatal.
func setup() (*zap.Logger, *Config, *careers.Catalog) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	catalog, err := loadCatalog(config)
	if err != nil {
		logger.Fatal("loading the career catalog", zap.Error(err))
	}

	if strings.TrimSpace(config.Career) == "" {
		config.Career = catalog.DefaultCareer()
	}

	if _, err := catalog.Profile(config.Career); err != nil {
		logger.Fatal("selecting the target career", zap.Error(err))
	}

	return logger, config, catalog
}

func loadCatalog(config *Config) (*careers.Catalog, error) {
	if path := strings.TrimSpace(config.CareersFile); path != "" {
		return careers.LoadFile(path)
	}

	return careers.Default()
}
