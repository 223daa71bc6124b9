package models

// PlaceSuggestion is one ranked result from a free-text place search.
type PlaceSuggestion struct {
	ID            string `json:"id"`
	Description   string `json:"description"`
	MainText      string `json:"mainText"`
	SecondaryText string `json:"secondaryText"`
}

// PlaceDetails is the resolved detail record for a suggestion ID.
type PlaceDetails struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}
