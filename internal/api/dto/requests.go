package dto

// OptimizeRequest is the body of POST /api/optimize.
type OptimizeRequest struct {
	Towns        []string       `json:"towns"`
	Quantities   map[string]int `json:"quantities"`
	ValhallaOnly bool           `json:"valhalla_only"`
	Strategy     string         `json:"strategy,omitempty"`
	ProfileID    string         `json:"profile_id,omitempty"`
}

// ProfileRequest is the body of POST /api/profiles and PUT /api/profiles/{id}.
type ProfileRequest struct {
	Name         string         `json:"name"`
	Towns        []string       `json:"towns"`
	Quantities   map[string]int `json:"quantities"`
	ValhallaOnly bool           `json:"valhalla_only"`
	Strategy     string         `json:"strategy,omitempty"`
}
