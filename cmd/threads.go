package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/brickchat/brickchat/pkg/client"
	"github.com/brickchat/brickchat/pkg/config"
	"github.com/brickchat/brickchat/pkg/render"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var threadsCmd = &cobra.Command{
	Use:   "threads [thread-id]",
	Short: "Browse chat history",
	Long:  `List your chat threads, or show the messages of one thread.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg := config.Get()
		api := client.NewClientWithTimeout(cfg.Backend.URL, cfg.Backend.Timeout)
		renderer := render.New(os.Stdout)

		if len(args) == 1 {
			msgs, err := api.ThreadMessages(ctx, args[0])
			if err != nil {
				return err
			}
			for _, tm := range msgs {
				renderer.Message(tm.AsMessage())
			}
			return nil
		}

		threads, err := api.Threads(ctx, viper.GetString("user.id"))
		if err != nil {
			return err
		}
		if len(threads) == 0 {
			fmt.Println("No threads yet.")
			return nil
		}
		for _, t := range threads {
			renderer.Thread(t)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(threadsCmd)
}
