package dto

import "github.com/skillanthropy/skillanthropy-api/internal/search"

// SearchResponse lists search hits. Each hit names the collection it came from.
type SearchResponse struct {
	Query string       `json:"query"`
	Hits  []search.Hit `json:"hits"`
}

func ToSearchResponse(query string, hits []search.Hit) SearchResponse {
	if hits == nil {
		hits = []search.Hit{}
	}
	return SearchResponse{Query: query, Hits: hits}
}
