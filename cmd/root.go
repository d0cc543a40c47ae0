package cmd

import (
	"fmt"
	"os"

	"github.com/loomchat/loom/pkg/api"
	"github.com/loomchat/loom/pkg/config"
	"github.com/loomchat/loom/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "loom",
	Short: "Streaming chat client",
	Long:  `Terminal client for a streaming chat backend: send a prompt, watch the reply stream in, pick up persisted conversations where you left off.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if prompt := viper.GetString("prompt"); prompt != "" {
			return runOneShot(cmd.Context(), prompt)
		}
		return runRepl(cmd.Context())
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default .loom/settings.yaml)")

	rootCmd.PersistentFlags().StringP("server", "s", "", "chat backend base URL")
	viper.BindPFlag("server.url", rootCmd.PersistentFlags().Lookup("server"))

	rootCmd.PersistentFlags().StringP("model", "m", "", "model id for new messages")
	viper.BindPFlag("chat.default_model", rootCmd.PersistentFlags().Lookup("model"))

	rootCmd.PersistentFlags().String("token", "", "bearer token for the backend")
	viper.BindPFlag("auth.token", rootCmd.PersistentFlags().Lookup("token"))

	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.Flags().StringP("prompt", "p", "", "send a single prompt and exit")
	viper.BindPFlag("prompt", rootCmd.Flags().Lookup("prompt"))

	rootCmd.Flags().String("thread", "", "continue an existing thread")
	viper.BindPFlag("thread", rootCmd.Flags().Lookup("thread"))
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

// newAPIClient builds the backend client from the loaded config.
func newAPIClient() *api.Client {
	settings := config.Get()
	auth := api.NewStaticTokenProvider(settings.Auth.BearerToken())
	return api.NewClientWithTimeout(settings.Server.URL, auth, settings.Server.Timeout)
}
