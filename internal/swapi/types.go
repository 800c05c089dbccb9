package swapi

// Page is one page of the expanded starship listing.
type Page struct {
	Results []Record `json:"results"`
	// Next is nil or empty on the last page.
	Next *string `json:"next"`
}

// NextURL returns the next page URL, or "" when pagination is over.
func (p *Page) NextURL() string {
	if p.Next == nil {
		return ""
	}
	return *p.Next
}

// Record is a single starship as returned with expanded=true.
type Record struct {
	UID        string     `json:"uid"`
	Properties Properties `json:"properties"`
}

// Properties carries the upstream property bag. Keys keep upstream spelling,
// including the all-caps MGLT. Fields this service does not mirror (films,
// pilots, timestamps) are ignored by the decoder.
type Properties struct {
	Name                 string `json:"name"`
	Model                string `json:"model"`
	Manufacturer         string `json:"manufacturer"`
	CostInCredits        string `json:"cost_in_credits"`
	Length               string `json:"length"`
	MaxAtmospheringSpeed string `json:"max_atmosphering_speed"`
	Crew                 string `json:"crew"`
	Passengers           string `json:"passengers"`
	CargoCapacity        string `json:"cargo_capacity"`
	Consumables          string `json:"consumables"`
	HyperdriveRating     string `json:"hyperdrive_rating"`
	MGLT                 string `json:"MGLT"`
	StarshipClass        string `json:"starship_class"`
	URL                  string `json:"url"`
}
