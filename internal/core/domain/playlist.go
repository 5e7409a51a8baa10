package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PlaylistRequest is what a caller submits once tracks have been picked.
type PlaylistRequest struct {
	FestivalName string   `json:"festival_name"`
	FestivalGeo  string   `json:"festival_geo"`
	FestivalYear *int     `json:"festival_year"`
	TrackIDs     []string `json:"track_ids"`
	UserIP       string   `json:"user_ip"`
}

// Validate reports ErrInvalidArgument when a required field is missing.
func (r PlaylistRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.FestivalName) == "" {
		missing = append(missing, "festival_name")
	}
	if strings.TrimSpace(r.FestivalGeo) == "" {
		missing = append(missing, "festival_geo")
	}
	if len(r.TrackIDs) == 0 {
		missing = append(missing, "track_ids")
	}
	if strings.TrimSpace(r.UserIP) == "" {
		missing = append(missing, "user_ip")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidArgument, strings.Join(missing, ", "))
	}
	return nil
}

// PlaylistName formats "<name> <year> - <geo>", dropping the year when unknown.
func (r PlaylistRequest) PlaylistName() string {
	if r.FestivalYear != nil && *r.FestivalYear != 0 {
		return fmt.Sprintf("%s %d - %s", r.FestivalName, *r.FestivalYear, r.FestivalGeo)
	}
	return fmt.Sprintf("%s - %s", r.FestivalName, r.FestivalGeo)
}

// PlaylistRecord is one ledger entry for a created playlist.
type PlaylistRecord struct {
	UserID       string
	FestivalName string
	FestivalGeo  string
	FestivalYear *int
	PlaylistURL  string
	UserIP       string
	UserGeo      string
	CreatedAt    time.Time
}

// Row lays the record out in ledger column order.
func (p PlaylistRecord) Row() []string {
	year := ""
	if p.FestivalYear != nil {
		year = strconv.Itoa(*p.FestivalYear)
	}
	return []string{
		p.UserID,
		p.FestivalName,
		year,
		p.FestivalGeo,
		p.PlaylistURL,
		p.CreatedAt.Format(time.RFC3339),
		p.UserIP,
		p.UserGeo,
		p.CreatedAt.Format(time.DateOnly),
	}
}
