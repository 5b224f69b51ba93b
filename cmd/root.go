/*
Copyright © 2025 EmbedCreativity
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/embedcreativity/go-ecserial"
	"github.com/embedcreativity/go-ecserial/internal/tui/styles"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// logger is shared by the commands and handed to the serial package
var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix:          "ecserial",
	ReportTimestamp: true,
	TimeFormat:      time.TimeOnly,
})

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ecserial",
	Short: "Talk to serial devices in raw 8N1 mode",
	Long: `ecserial opens serial devices in raw 8N1 mode with no flow control and
moves bytes to and from them.

Settings come from flags, ECSERIAL_* environment variables or a YAML config
file ($HOME/.ecserial.yaml), in that order of precedence:

  baud: 115200
  poll-interval: 2ms
  verbose: true`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		if viper.GetBool("verbose") {
			logger.SetLevel(log.DebugLevel)
		} else {
			logger.SetLevel(log.InfoLevel)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen once
// to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", styles.ErrorStyle.Render("✗"), err)
		os.Exit(exitCode(err))
	}
}

// exitCode keeps the legacy split between a timeout and every other failure
func exitCode(err error) int {
	if errors.Is(err, serial.ErrTimeout) {
		return 2
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ecserial.yaml)")
	rootCmd.PersistentFlags().IntP("baud", "b", serial.DefaultConfig().BaudRate, "Baud rate")
	rootCmd.PersistentFlags().Duration("poll-interval", serial.DefaultConfig().PollInterval, "Sleep between empty polls while waiting for data")
	rootCmd.PersistentFlags().Bool("baud-fallback", false, "Hang up (0 baud) instead of failing on an unsupported rate")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug details to stderr")

	bindSettings()
}

// bindSettings wires the persistent flags and ECSERIAL_* variables into viper
func bindSettings() {
	for _, name := range []string{"baud", "poll-interval", "baud-fallback", "verbose"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("ECSERIAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// initConfig reads in config file if one is set or found in $HOME
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ecserial")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	logger.Debug("using config file", "path", viper.ConfigFileUsed())
	return nil
}

// portOptions turns the resolved settings into serial options
func portOptions() []serial.Option {
	opts := []serial.Option{
		serial.WithBaudRate(viper.GetInt("baud")),
		serial.WithPollInterval(viper.GetDuration("poll-interval")),
		serial.WithLogger(logger),
	}
	if viper.GetBool("baud-fallback") {
		opts = append(opts, serial.WithBaudFallback())
	}
	return opts
}

// openPort opens path with the resolved settings
func openPort(path string) (serial.Port, error) {
	port, err := serial.Open(path, portOptions()...)
	if err != nil {
		return nil, err
	}
	logger.Debug("port ready", "port", path, "baud", viper.GetInt("baud"))
	return port, nil
}
