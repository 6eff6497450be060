package cli

import (
	"bot-companion-web/config"
	"bot-companion-web/logging"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// RootOptions holds flags shared by every command.
type RootOptions struct {
	EnvFile string
	Config  *config.Config
}

// NewRootCommand builds the command tree. Running it without a subcommand serves.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	root := &cobra.Command{
		Use:   "bot-companion-web",
		Short: "Companion web surface for the bot's Christmas sock event",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(opts.EnvFile); err != nil {
				log.Debugf("No %s file found, reading environment variables directly", opts.EnvFile)
			}
			opts.Config = config.Load()
			logging.Init(opts.Config.IsProduction(), opts.Config.LogLevel)
			return nil
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file to load before reading the environment")

	serve := NewServeCommand(opts)
	root.RunE = serve.RunE

	root.AddCommand(
		serve,
		NewStatsCommand(opts),
		NewGenerateCommand(opts),
		NewLookupCommand(opts),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}
