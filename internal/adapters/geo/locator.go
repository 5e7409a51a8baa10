// Package geo resolves caller IP addresses to a coarse location via ip-api.com.
package geo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/lineup/internal/core/ports"
)

const (
	defaultBaseURL = "http://ip-api.com"
	unknown        = "Unknown"
	localhost      = "Localhost"
)

// Locator implements the geo locator port.
type Locator struct {
	client *resty.Client
	logger zerolog.Logger
}

var _ ports.GeoLocator = (*Locator)(nil)

type lookupResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	City       string `json:"city"`
	RegionName string `json:"regionName"`
	Country    string `json:"country"`
}

// NewLocator constructs a Locator against baseURL (ip-api.com when empty).
func NewLocator(baseURL string, logger zerolog.Logger) *Locator {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(5 * time.Second).
		SetHeader("Accept", "application/json")
	return &Locator{client: client, logger: logger}
}

// Lookup returns "city, region, country" for ip. Loopback is "Localhost";
// any failure is "Unknown".
func (l *Locator) Lookup(ctx context.Context, ip string) string {
	if ip == "127.0.0.1" || ip == "::1" {
		return localhost
	}
	if strings.TrimSpace(ip) == "" {
		return unknown
	}

	var out lookupResponse
	resp, err := l.client.R().
		SetContext(ctx).
		SetPathParam("ip", ip).
		SetResult(&out).
		Get("/json/{ip}")
	if err != nil {
		l.logger.Warn().Err(err).Str("ip", ip).Msg("geo lookup failed")
		return unknown
	}
	if resp.IsError() {
		l.logger.Warn().Int("status", resp.StatusCode()).Str("ip", ip).Msg("geo lookup failed")
		return unknown
	}
	if out.Status != "success" {
		l.logger.Debug().Str("ip", ip).Str("message", out.Message).Msg("geo lookup returned no location")
		return unknown
	}
	return fmt.Sprintf("%s, %s, %s", out.City, out.RegionName, out.Country)
}
