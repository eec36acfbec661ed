package service

import (
	"context"
	"fmt"
	"os"

	"googlemaps.github.io/maps"
)

const maxSuggestions = 5

// SuggestService resolves partial street addresses against the Google Places
// autocomplete API, scoped to the destination city. It backs the wizard's
// Suggester contract.
type SuggestService struct {
	client *maps.Client
}

func NewSuggestService() (*SuggestService, error) {
	apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_MAPS_API_KEY not set")
	}
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &SuggestService{client: client}, nil
}

func (s *SuggestService) Suggest(ctx context.Context, city, partial string) ([]string, error) {
	req := &maps.PlaceAutocompleteRequest{
		Input: fmt.Sprintf("%s, %s", partial, city),
		Types: maps.AutocompletePlaceTypeAddress,
	}
	resp, err := s.client.PlaceAutocomplete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("place autocomplete failed: %w", err)
	}

	suggestions := make([]string, 0, maxSuggestions)
	for _, prediction := range resp.Predictions {
		suggestions = append(suggestions, prediction.Description)
		if len(suggestions) == maxSuggestions {
			break
		}
	}
	return suggestions, nil
}
