package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/lineup/internal/core/domain"
	"github.com/ewilliams-labs/lineup/internal/core/ports"
	"github.com/ewilliams-labs/lineup/internal/logging"
)

const posterInstruction = `
Analyze the provided image, which is a music festival poster.
Extract the following information:
1. The name of the festival.
2. The location of the festival (e.g., city, country).
3. All artist and band names visible on the poster.
4. Try to guess the year of the festival.

Return the information as a JSON object with the following structure:
{
  "festival_name": "Name of the Festival",
  "festival_location": "City, Country",
  "festival_year": 2024,
  "artists": ["Artist One", "Band Two", "DJ Three"]
}

If any information cannot be found, return null for that field.
If no artists are found, return an empty list for the "artists" field.
`

// PosterExtractor reads festival details off poster images, memoising
// results in a FestivalCache keyed by upload filename.
type PosterExtractor struct {
	reader ports.PosterReader
	cache  ports.FestivalCache
	logger zerolog.Logger
}

// NewPosterExtractor constructs a PosterExtractor.
func NewPosterExtractor(reader ports.PosterReader, cache ports.FestivalCache, logger zerolog.Logger) *PosterExtractor {
	return &PosterExtractor{reader: reader, cache: cache, logger: logger}
}

// Extract returns the festival info for a poster. ok is false when the model
// failed or replied with something that is not a festival record; an
// unsupported image type or an empty upload yields an empty-artist record.
func (e *PosterExtractor) Extract(ctx context.Context, image []byte, filename string) (domain.FestivalInfo, bool) {
	log := logging.FromContext(ctx, e.logger).With().Str("filename", filename).Logger()
	key := domain.CacheKey(filename)

	if cached, ok := e.cache.Get(key); ok {
		log.Info().Str("cache_key", key).Msg("poster extraction loaded from cache")
		return cached, true
	}

	if len(image) == 0 {
		return domain.EmptyFestivalInfo(), true
	}

	mimeType, err := MimeTypeFor(filename)
	if err != nil {
		log.Error().Err(err).Msg("poster not sent to model")
		return domain.EmptyFestivalInfo(), true
	}

	info, err := e.extract(ctx, image, mimeType)
	if err != nil {
		log.Error().Err(err).Msg("poster extraction failed")
		return domain.FestivalInfo{}, false
	}

	if err := e.cache.Put(key, info); err != nil {
		log.Warn().Err(err).Str("cache_key", key).Msg("failed to write poster cache entry")
	} else {
		log.Info().Str("cache_key", key).Msg("poster extraction saved to cache")
	}

	return info, true
}

func (e *PosterExtractor) extract(ctx context.Context, image []byte, mimeType string) (domain.FestivalInfo, error) {
	reply, err := e.reader.ReadPoster(ctx, posterInstruction, image, mimeType)
	if err != nil {
		return domain.FestivalInfo{}, fmt.Errorf("service: read poster: %w: %w", domain.ErrCollaboratorUnavailable, err)
	}
	logging.FromContext(ctx, e.logger).Debug().Str("reply", reply).Msg("vision model replied")

	info, err := domain.ParseFestivalInfo([]byte(ExtractJSON(reply)))
	if err != nil {
		return domain.FestivalInfo{}, fmt.Errorf("service: parse model reply: %w", err)
	}
	return info, nil
}

// MimeTypeFor maps a poster filename extension to the MIME type sent to the
// model, or returns ErrUnsupportedMediaType.
func MimeTypeFor(filename string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	switch ext {
	case "jpg", "jpeg":
		return "image/jpeg", nil
	case "png":
		return "image/png", nil
	case "heic", "heif":
		return "image/heic", nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedMediaType, ext)
}

// ExtractJSON pulls the JSON payload out of a model reply. A ```json fenced
// block wins; otherwise the whole trimmed reply is returned.
func ExtractJSON(reply string) string {
	const fence = "```"
	_, after, found := strings.Cut(reply, fence+"json")
	if !found {
		return strings.TrimSpace(reply)
	}
	body, _, _ := strings.Cut(after, fence)
	return strings.TrimSpace(body)
}
