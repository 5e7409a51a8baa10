package domain

// Track is one catalog track offered for a festival playlist.
type Track struct {
	ID    string `json:"id"`
	Title string `json:"name"`
}

// CatalogArtist is a raw search hit from the music catalog.
type CatalogArtist struct {
	ID   string
	Name string
}

// ArtistDetail holds the metadata fetched for an accepted artist.
type ArtistDetail struct {
	Genres    []string
	Followers *int // nil when the catalog does not report a total
}

// CandidateArtist is a search hit scored against the query name.
type CandidateArtist struct {
	ID          string
	DisplayName string
	Similarity  float64
}

// MaxTracksPerArtist caps the top tracks kept for each resolved artist.
const MaxTracksPerArtist = 3

// ResolvedArtist is an artist name from a poster confidently matched to the catalog.
type ResolvedArtist struct {
	ID          string   `json:"artist_id"`
	DisplayName string   `json:"artist_name"`
	Genres      []string `json:"genres"`
	Followers   *int     `json:"followers"`
	Tracks      []Track  `json:"tracks"`
}
