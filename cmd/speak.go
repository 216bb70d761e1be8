package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/brickchat/brickchat/pkg/config"
	"github.com/brickchat/brickchat/pkg/tts"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var speakCmd = &cobra.Command{
	Use:   "speak <text>",
	Short: "Synthesize text to speech",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		speech := tts.NewClient(cfg.Backend.URL)

		text := strings.Join(args, " ")
		voice := viper.GetString("tts.voice")

		if _, err := tts.Speak(context.Background(), speech, player(), text, voice); err != nil {
			return fmt.Errorf("speech failed: %w", err)
		}
		return nil
	},
}

func init() {
	speakCmd.Flags().String("voice", "", "TTS voice")
	viper.BindPFlag("tts.voice", speakCmd.Flags().Lookup("voice"))

	rootCmd.AddCommand(speakCmd)
}
