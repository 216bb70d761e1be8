package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/brickchat/brickchat/pkg/config"
	"github.com/brickchat/brickchat/pkg/logger"
	"github.com/brickchat/brickchat/pkg/settings"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "brickchat",
	Short: "BrickChat terminal client",
	Long:  `Terminal client for the BrickChat backend: streaming chat, history browsing, and text-to-speech.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := viper.GetString("prompt")
		if prompt == "" {
			return cmd.Help()
		}
		return runChat(context.Background(), prompt)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is .brickchat/settings.yaml)")

	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().String("backend", "", "backend base URL")
	viper.BindPFlag("backend.url", rootCmd.PersistentFlags().Lookup("backend"))

	rootCmd.PersistentFlags().String("user", "", "user id sent with requests")
	viper.BindPFlag("user.id", rootCmd.PersistentFlags().Lookup("user"))

	rootCmd.Flags().StringP("prompt", "p", "", "message to send")
	viper.BindPFlag("prompt", rootCmd.Flags().Lookup("prompt"))

	rootCmd.Flags().String("thread", "", "continue an existing server thread")
	viper.BindPFlag("thread", rootCmd.Flags().Lookup("thread"))

	rootCmd.Flags().Bool("stream", false, "render the reply delta by delta (disables eager mode)")
	viper.BindPFlag("chat.stream_results", rootCmd.Flags().Lookup("stream"))

	rootCmd.Flags().Bool("eager", false, "speak the reply when it finalizes (disables streaming display)")
	viper.BindPFlag("chat.eager_mode", rootCmd.Flags().Lookup("eager"))

	viper.SetDefault("backend.url", "http://localhost:8000")
	viper.SetDefault("backend.timeout", "90s")
	viper.SetDefault("user.id", "dev_user")

	viper.SetDefault("chat.stream_results", true)
	viper.SetDefault("chat.eager_mode", false)
	viper.SetDefault("chat.history_file", "chat_history.json")

	viper.SetDefault("tts.voice", "aura-2-thalia-en")

	viper.SetDefault("logging.log_file", "system.log")
	viper.SetDefault("logging.persist", true)
	viper.SetDefault("logging.level", "info")
}

func initConfig() {
	if _, err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
}

// newSettingsStore builds the runtime settings store from the loaded config.
// The store, not viper, is what the chat pipeline consults; it enforces the
// stream/eager exclusion on every toggle.
func newSettingsStore() *settings.Store {
	cfg := config.Get()
	return settings.NewStore(settings.Snapshot{
		StreamResults: cfg.Chat.StreamResults,
		EagerMode:     cfg.Chat.EagerMode,
		Voice:         cfg.TTS.Voice,
		UserID:        cfg.User.ID,
	})
}
