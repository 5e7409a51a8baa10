package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// FestivalInfo is what the vision model could read off a festival poster.
// Artists is always present; the other fields are nil when unknown.
type FestivalInfo struct {
	FestivalName     *string  `json:"festival_name"`
	FestivalLocation *string  `json:"festival_location"`
	FestivalYear     *int     `json:"festival_year"`
	Artists          []string `json:"artists"`
}

// EmptyFestivalInfo is the "nothing extractable" record.
func EmptyFestivalInfo() FestivalInfo {
	return FestivalInfo{Artists: []string{}}
}

// MarshalJSON keeps artists as [] rather than null.
func (f FestivalInfo) MarshalJSON() ([]byte, error) {
	type alias FestivalInfo
	out := alias(f)
	if out.Artists == nil {
		out.Artists = []string{}
	}
	return json.Marshal(out)
}

// ParseFestivalInfo decodes a JSON object and checks that it carries an
// "artists" list. Optional fields of an unexpected type are treated as unknown
// and non-string artist entries are dropped.
func ParseFestivalInfo(data []byte) (FestivalInfo, error) {
	var raw struct {
		Name     json.RawMessage   `json:"festival_name"`
		Location json.RawMessage   `json:"festival_location"`
		Year     json.RawMessage   `json:"festival_year"`
		Artists  []json.RawMessage `json:"artists"`
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return FestivalInfo{}, fmt.Errorf("%w: %v", ErrExtractionParse, err)
	}
	artists, ok := fields["artists"]
	if !ok {
		return FestivalInfo{}, fmt.Errorf("%w: missing artists field", ErrExtractionParse)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(artists)), "[") {
		return FestivalInfo{}, fmt.Errorf("%w: artists is not a list", ErrExtractionParse)
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return FestivalInfo{}, fmt.Errorf("%w: %v", ErrExtractionParse, err)
	}

	info := FestivalInfo{
		FestivalName:     optionalString(raw.Name),
		FestivalLocation: optionalString(raw.Location),
		FestivalYear:     optionalYear(raw.Year),
		Artists:          make([]string, 0, len(raw.Artists)),
	}
	for _, a := range raw.Artists {
		var name string
		if isNull(a) || json.Unmarshal(a, &name) != nil {
			continue
		}
		info.Artists = append(info.Artists, name)
	}
	return info, nil
}

func optionalString(raw json.RawMessage) *string {
	var s string
	if isNull(raw) || json.Unmarshal(raw, &s) != nil {
		return nil
	}
	return &s
}

func optionalYear(raw json.RawMessage) *int {
	if isNull(raw) {
		return nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		year := int(n)
		return &year
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if year, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return &year
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}

// CacheKey turns an upload filename into a filesystem-safe key: every rune
// that is not a letter, digit, '.' or '_' becomes '_'.
func CacheKey(filename string) string {
	var b strings.Builder
	b.Grow(len(filename))
	for _, r := range filename {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	return b.String()
}
