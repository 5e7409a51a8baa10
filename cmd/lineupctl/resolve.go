package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	zspotify "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/ewilliams-labs/lineup/internal/adapters/spotify"
	"github.com/ewilliams-labs/lineup/internal/core/services"
)

func cmdResolve() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <artist>...",
		Short: "Match artist names to Spotify artists and their top tracks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				market, _      = cmd.Flags().GetString("market")
				threshold, _   = cmd.Flags().GetFloat64("threshold")
				concurrency, _ = cmd.Flags().GetInt("concurrency")
			)
			logger := newLogger(cmd)

			config := &clientcredentials.Config{
				ClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
				ClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
				TokenURL:     spotifyauth.TokenURL,
			}
			if config.ClientID == "" || config.ClientSecret == "" {
				return errors.New("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET are required")
			}

			api := zspotify.New(config.Client(cmd.Context()), zspotify.WithRetry(true))
			catalog := spotify.NewClient(api, market)

			assembler := services.NewLineupAssembler(concurrency, logger, services.WithThreshold(threshold))
			artists, err := assembler.ResolveLineup(cmd.Context(), catalog, args)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(artists, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().String("market", envOr("SPOTIFY_MARKET", "US"), "market for top tracks")
	cmd.Flags().Float64("threshold", services.DefaultSimilarityThreshold, "minimum name similarity to accept a match")
	cmd.Flags().Int("concurrency", 4, "artists resolved at once")
	return cmd
}
