package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/lineup/internal/core/domain"
)

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

func TestPosterExtractor_Extract(t *testing.T) {
	fenced := "Here you go:\n```json\n{\"festival_name\":\"X\",\"festival_location\":\"Y\",\"festival_year\":2024,\"artists\":[\"A\",\"B\"]}\n```"
	cachedInfo := domain.FestivalInfo{FestivalName: strPtr("Cached Fest"), Artists: []string{"Cached Artist"}}

	tests := []struct {
		name      string
		filename  string
		image     []byte
		reader    mockReader
		seedCache map[string]domain.FestivalInfo
		putErr    error

		wantOK        bool
		wantInfo      domain.FestivalInfo
		wantCalls     int
		wantMimeType  string
		wantCachePuts int
		wantCachedKey string
	}{
		{
			name:          "fenced json reply",
			filename:      "poster.jpg",
			image:         []byte("img"),
			reader:        mockReader{reply: fenced},
			wantOK:        true,
			wantInfo:      domain.FestivalInfo{FestivalName: strPtr("X"), FestivalLocation: strPtr("Y"), FestivalYear: intPtr(2024), Artists: []string{"A", "B"}},
			wantCalls:     1,
			wantMimeType:  "image/jpeg",
			wantCachePuts: 1,
			wantCachedKey: "poster.jpg",
		},
		{
			name:          "bare json reply",
			filename:      "Line Up.PNG",
			image:         []byte("img"),
			reader:        mockReader{reply: "  {\"festival_name\":null,\"artists\":[\"Bicep\"]}\n"},
			wantOK:        true,
			wantInfo:      domain.FestivalInfo{Artists: []string{"Bicep"}},
			wantCalls:     1,
			wantMimeType:  "image/png",
			wantCachePuts: 1,
			wantCachedKey: "Line_Up.PNG",
		},
		{
			name:          "heif maps to heic",
			filename:      "IMG_0001.heif",
			image:         []byte("img"),
			reader:        mockReader{reply: `{"artists":[]}`},
			wantOK:        true,
			wantInfo:      domain.FestivalInfo{Artists: []string{}},
			wantCalls:     1,
			wantMimeType:  "image/heic",
			wantCachePuts: 1,
			wantCachedKey: "IMG_0001.heif",
		},
		{
			name:      "cache hit skips the model",
			filename:  "poster.jpg",
			image:     []byte("different bytes"),
			reader:    mockReader{reply: fenced},
			seedCache: map[string]domain.FestivalInfo{"poster.jpg": cachedInfo},
			wantOK:    true,
			wantInfo:  cachedInfo,
			wantCalls: 0,
		},
		{
			name:      "unsupported extension",
			filename:  "poster.gif",
			image:     []byte("img"),
			reader:    mockReader{reply: fenced},
			wantOK:    true,
			wantInfo:  domain.EmptyFestivalInfo(),
			wantCalls: 0,
		},
		{
			name:      "empty upload",
			filename:  "poster.jpg",
			image:     nil,
			reader:    mockReader{reply: fenced},
			wantOK:    true,
			wantInfo:  domain.EmptyFestivalInfo(),
			wantCalls: 0,
		},
		{
			name:      "unparseable reply",
			filename:  "poster.jpg",
			image:     []byte("img"),
			reader:    mockReader{reply: "I could not find a festival here."},
			wantOK:    false,
			wantCalls: 1,
		},
		{
			name:      "reply without artists",
			filename:  "poster.jpg",
			image:     []byte("img"),
			reader:    mockReader{reply: `{"festival_name":"X"}`},
			wantOK:    false,
			wantCalls: 1,
		},
		{
			name:      "model error",
			filename:  "poster.jpg",
			image:     []byte("img"),
			reader:    mockReader{err: errors.New("quota exceeded")},
			wantOK:    false,
			wantCalls: 1,
		},
		{
			name:          "cache write failure still returns the record",
			filename:      "poster.jpg",
			image:         []byte("img"),
			reader:        mockReader{reply: fenced},
			putErr:        errors.New("read-only filesystem"),
			wantOK:        true,
			wantInfo:      domain.FestivalInfo{FestivalName: strPtr("X"), FestivalLocation: strPtr("Y"), FestivalYear: intPtr(2024), Artists: []string{"A", "B"}},
			wantCalls:     1,
			wantMimeType:  "image/jpeg",
			wantCachePuts: 1,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			cache := newMockCache()
			for k, v := range tc.seedCache {
				cache.entries[k] = v
			}
			cache.putErr = tc.putErr
			reader := tc.reader

			e := NewPosterExtractor(&reader, cache, zerolog.Nop())
			got, ok := e.Extract(context.Background(), tc.image, tc.filename)

			if ok != tc.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tc.wantOK)
			}
			if tc.wantOK && !reflect.DeepEqual(got, tc.wantInfo) {
				t.Fatalf("info: got %+v, want %+v", got, tc.wantInfo)
			}
			if reader.calls != tc.wantCalls {
				t.Fatalf("model calls: got %d, want %d", reader.calls, tc.wantCalls)
			}
			if tc.wantCalls > 0 {
				if reader.gotInstruction != posterInstruction {
					t.Fatalf("instruction mismatch")
				}
				if reader.gotImageByteLen != len(tc.image) {
					t.Fatalf("image bytes: got %d, want %d", reader.gotImageByteLen, len(tc.image))
				}
			}
			if tc.wantMimeType != "" && reader.gotMimeType != tc.wantMimeType {
				t.Fatalf("mime type: got %q, want %q", reader.gotMimeType, tc.wantMimeType)
			}
			if cache.puts != tc.wantCachePuts {
				t.Fatalf("cache puts: got %d, want %d", cache.puts, tc.wantCachePuts)
			}
			if tc.wantCachedKey != "" {
				if _, ok := cache.entries[tc.wantCachedKey]; !ok {
					t.Fatalf("expected cache entry under %q", tc.wantCachedKey)
				}
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{name: "fenced", reply: "text\n```json\n{\"a\":1}\n```\nmore", want: `{"a":1}`},
		{name: "unterminated fence", reply: "```json\n{\"a\":1}\n", want: `{"a":1}`},
		{name: "bare", reply: "\n {\"a\":1} \n", want: `{"a":1}`},
		{name: "plain fence is not json marker", reply: "```\n{\"a\":1}\n```", want: "```\n{\"a\":1}\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSON(tt.reply); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMimeTypeFor(t *testing.T) {
	tests := []struct {
		filename string
		want     string
		wantErr  bool
	}{
		{filename: "a.jpg", want: "image/jpeg"},
		{filename: "a.JPEG", want: "image/jpeg"},
		{filename: "a.png", want: "image/png"},
		{filename: "a.heic", want: "image/heic"},
		{filename: "a.HEIF", want: "image/heic"},
		{filename: "a.gif", wantErr: true},
		{filename: "noextension", wantErr: true},
		{filename: "archive.png.zip", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := MimeTypeFor(tt.filename)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrUnsupportedMediaType) {
					t.Fatalf("expected ErrUnsupportedMediaType, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}
