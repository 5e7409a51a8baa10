package spotify

import (
	"github.com/zmb3/spotify/v2"

	"github.com/ewilliams-labs/lineup/internal/core/domain"
)

// mapArtistHits converts search hits, keeping at most limit in catalog order.
func mapArtistHits(items []spotify.FullArtist, limit int) []domain.CatalogArtist {
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	hits := make([]domain.CatalogArtist, 0, len(items))
	for _, a := range items {
		hits = append(hits, domain.CatalogArtist{ID: a.ID.String(), Name: a.Name})
	}
	return hits
}

func mapArtistDetail(a *spotify.FullArtist) domain.ArtistDetail {
	followers := int(a.Followers.Count)
	return domain.ArtistDetail{
		Genres:    append([]string{}, a.Genres...),
		Followers: &followers,
	}
}

func mapTracks(items []spotify.FullTrack) []domain.Track {
	tracks := make([]domain.Track, 0, len(items))
	for _, t := range items {
		tracks = append(tracks, domain.Track{ID: t.ID.String(), Title: t.Name})
	}
	return tracks
}
