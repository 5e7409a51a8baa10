// Command lineupctl runs the poster and lineup pipeline from a terminal,
// without the HTTP service or a signed-in user.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/lineup/internal/logging"
)

var cmdRoot = &cobra.Command{
	Use:          "lineupctl",
	Short:        "Read festival posters and match their lineups to Spotify",
	SilenceUsage: true,
}

func main() {
	_ = godotenv.Load()

	cmdRoot.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	cmdRoot.AddCommand(cmdExtract(), cmdResolve())

	if err := cmdRoot.Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newLogger(cmd *cobra.Command) zerolog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return logging.New(logging.Config{Level: level, Format: "text", Output: cmd.ErrOrStderr()})
}
