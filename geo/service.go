// Package geo wraps the public geodata APIs the timeline view depends on:
// geocoding with a fallback chain, current weather and nearby points of
// interest. Responses are cached briefly since the timeline refetches on
// every render.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	"unicode"

	gocache "github.com/patrickmn/go-cache"
	"github.com/ringsaturn/tzf"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Service struct {
	http  *http.Client
	cache *gocache.Cache
	tz    tzf.F
}

func NewService() (*Service, error) {
	finder, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("init timezone finder: %w", err)
	}
	return &Service{
		http:  &http.Client{Timeout: 20 * time.Second},
		cache: gocache.New(10*time.Minute, 5*time.Minute),
		tz:    finder,
	}, nil
}

// TimezoneName resolves the IANA timezone at a coordinate.
func (s *Service) TimezoneName(lat, lon float64) string {
	return s.tz.GetTimezoneName(lon, lat)
}

func (s *Service) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "trip-planner-backend/1.0")

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var diacriticRemover = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldDiacritics strips combining marks ("São Paulo" -> "Sao Paulo"); some
// geocoders match the folded form better.
func foldDiacritics(s string) string {
	folded, _, err := transform.String(diacriticRemover, s)
	if err != nil {
		return s
	}
	return folded
}
