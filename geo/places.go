package geo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"

	gocache "github.com/patrickmn/go-cache"
)

const (
	CategoryAttraction  = "Tourist attraction"
	CategoryRestaurant  = "Restaurant"
	CategoryPharmacy    = "Pharmacy"
	CategorySupermarket = "Supermarket"
)

type Place struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	DistanceKm float64 `json:"distanceKm"`
}

// NearbyPlaces lists up to ten named places around a coordinate, nearest
// first. Wikipedia's geosearch is tried first for landmarks; Overpass fills
// in restaurants, pharmacies and supermarkets when Wikipedia has nothing.
func (s *Service) NearbyPlaces(ctx context.Context, lat, lon float64) ([]Place, error) {
	key := fmt.Sprintf("places:%.3f:%.3f", lat, lon)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]Place), nil
	}

	if places := s.wikipediaPlaces(ctx, lat, lon); len(places) > 0 {
		s.cache.Set(key, places, gocache.DefaultExpiration)
		return places, nil
	}

	places, err := s.overpassPlaces(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, places, gocache.DefaultExpiration)
	return places, nil
}

func (s *Service) wikipediaPlaces(ctx context.Context, lat, lon float64) []Place {
	endpoint := fmt.Sprintf(
		"https://en.wikipedia.org/w/api.php?action=query&list=geosearch&gscoord=%f%%7C%f&gsradius=3000&gslimit=20&format=json",
		lat, lon,
	)

	var data struct {
		Query struct {
			Geosearch []struct {
				Title string  `json:"title"`
				Dist  float64 `json:"dist"`
			} `json:"geosearch"`
		} `json:"query"`
	}
	if err := s.getJSON(ctx, endpoint, &data); err != nil {
		return nil
	}

	places := make([]Place, 0, len(data.Query.Geosearch))
	for _, item := range data.Query.Geosearch {
		places = append(places, Place{
			Name:       item.Title,
			Category:   CategoryAttraction,
			DistanceKm: item.Dist / 1000,
		})
	}
	if len(places) > 10 {
		places = places[:10]
	}
	return places
}

type overpassElement struct {
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Center *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"center"`
	Tags struct {
		Name    string `json:"name"`
		Amenity string `json:"amenity"`
		Tourism string `json:"tourism"`
		Shop    string `json:"shop"`
	} `json:"tags"`
}

func (s *Service) overpassPlaces(ctx context.Context, lat, lon float64) ([]Place, error) {
	query := fmt.Sprintf(`
[out:json][timeout:25];
(
  nwr["tourism"~"attraction|museum"](around:3000,%f,%f);
  nwr["amenity"="restaurant"](around:3000,%f,%f);
  nwr["amenity"="pharmacy"](around:3000,%f,%f);
  nwr["shop"="supermarket"](around:3000,%f,%f);
);
out center 80;
`, lat, lon, lat, lon, lat, lon, lat, lon)

	endpoints := []string{
		"https://overpass-api.de/api/interpreter?data=" + url.QueryEscape(query),
		"https://overpass.kumi.systems/api/interpreter?data=" + url.QueryEscape(query),
	}

	var data struct {
		Elements []overpassElement `json:"elements"`
	}
	for _, endpoint := range endpoints {
		if err := s.getJSON(ctx, endpoint, &data); err == nil && len(data.Elements) > 0 {
			break
		}
	}
	if len(data.Elements) == 0 {
		return nil, errors.New("places api failed")
	}

	places := make([]Place, 0, len(data.Elements))
	for _, el := range data.Elements {
		if el.Tags.Name == "" {
			continue
		}
		elLat, elLon := el.Lat, el.Lon
		if elLat == 0 && elLon == 0 && el.Center != nil {
			elLat, elLon = el.Center.Lat, el.Center.Lon
		}
		places = append(places, Place{
			Name:       el.Tags.Name,
			Category:   resolveCategory(el),
			DistanceKm: haversineKm(lat, lon, elLat, elLon),
		})
	}

	sort.Slice(places, func(i, j int) bool { return places[i].DistanceKm < places[j].DistanceKm })
	if len(places) > 10 {
		places = places[:10]
	}
	return places, nil
}

func resolveCategory(el overpassElement) string {
	switch {
	case el.Tags.Amenity == "restaurant":
		return CategoryRestaurant
	case el.Tags.Amenity == "pharmacy":
		return CategoryPharmacy
	case el.Tags.Shop == "supermarket":
		return CategorySupermarket
	default:
		return CategoryAttraction
	}
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
