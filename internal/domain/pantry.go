package domain

// Location is where a pantry item is stored
type Location string

const (
	LocationPantry  Location = "pantry"
	LocationFridge  Location = "fridge"
	LocationFreezer Location = "freezer"
)

// PantryItem is an ingredient the user has on hand. ExpiryDate is kept as the
// raw YYYY-MM-DD string; a malformed value only means "no urgency signal".
type PantryItem struct {
	Name       string   `json:"name"`
	Quantity   float64  `json:"quantity"`
	Unit       string   `json:"unit"`
	ExpiryDate *string  `json:"expiry_date,omitempty"`
	Location   Location `json:"location,omitempty"`
}

// MatchRequest is the body of a recipe match request
type MatchRequest struct {
	Items            []PantryItem `json:"items"`
	MaxMissing       *int         `json:"max_missing,omitempty"`
	TimeLimitMinutes *int         `json:"time_limit_minutes,omitempty"`

	// Preferences accepted from clients; they are logged but not scored.
	Cuisine    *string `json:"cuisine,omitempty"`
	SpiceLevel *string `json:"spice_level,omitempty"`
	BudgetMode bool    `json:"budget_mode,omitempty"`
}

// DefaultMaxMissing is the missing-ingredient cap used when a request omits it
const DefaultMaxMissing = 2

// MaxMissingOrDefault returns the requested cap or DefaultMaxMissing
func (r *MatchRequest) MaxMissingOrDefault() int {
	if r.MaxMissing == nil {
		return DefaultMaxMissing
	}
	return *r.MaxMissing
}

// Normalize fills in defaulted fields
func (r *MatchRequest) Normalize() {
	for i := range r.Items {
		if r.Items[i].Location == "" {
			r.Items[i].Location = LocationPantry
		}
	}
}
