package api

// GenerateCandyRequest is the body of POST /api/candies.
type GenerateCandyRequest struct {
	Keywords string `json:"keywords" validate:"required"`

	// CandyType is optional and defaults to Gummy.
	CandyType string `json:"candyType"`
}

// CandyResponse is a generated candy.
type CandyResponse struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// CandyTypesResponse lists the selectable candy types.
type CandyTypesResponse struct {
	Types   []string `json:"types"`
	Default string   `json:"default"`
}

// DownloadCandyRequest is the body of POST /api/candies/download.
type DownloadCandyRequest struct {
	Name     string `json:"name" validate:"required"`
	ImageURL string `json:"imageUrl" validate:"required"`
}
