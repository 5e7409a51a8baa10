package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/lineup/internal/adapters/filecache"
	"github.com/ewilliams-labs/lineup/internal/adapters/gemini"
	"github.com/ewilliams-labs/lineup/internal/adapters/ollama"
	"github.com/ewilliams-labs/lineup/internal/core/ports"
	"github.com/ewilliams-labs/lineup/internal/core/services"
)

func cmdExtract() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <poster>",
		Short: "Print the festival details read off a poster image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				provider, _ = cmd.Flags().GetString("provider")
				model, _    = cmd.Flags().GetString("model")
				cacheDir, _ = cmd.Flags().GetString("cache-dir")
			)
			logger := newLogger(cmd)

			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read poster: %w", err)
			}

			var reader ports.PosterReader
			switch provider {
			case "gemini":
				reader, err = gemini.NewClient(cmd.Context(), gemini.Config{
					APIKey: os.Getenv("GOOGLE_API_KEY"),
					Model:  model,
				})
				if err != nil {
					return err
				}
			case "ollama":
				reader = ollama.NewClient(os.Getenv("OLLAMA_HOST"), model)
			default:
				return fmt.Errorf("unknown provider %q", provider)
			}

			cache, err := filecache.New(cacheDir, logger)
			if err != nil {
				return err
			}

			info, ok := services.NewPosterExtractor(reader, cache, logger).
				Extract(cmd.Context(), image, filepath.Base(args[0]))
			if !ok {
				return errors.New("could not extract festival info")
			}

			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().String("provider", envOr("VISION_PROVIDER", "gemini"), "vision model provider (gemini, ollama)")
	cmd.Flags().String("model", "", "model name; empty uses the provider default")
	cmd.Flags().String("cache-dir", envOr("CACHE_DIR", "cache"), "poster extraction cache directory")
	return cmd
}
