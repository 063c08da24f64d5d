package domain

// CardRecord is a card as described by the external catalog.
type CardRecord struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Set             string     `json:"set"`
	SetName         string     `json:"set_name"`
	CollectorNumber string     `json:"collector_number"`
	Lang            string     `json:"lang"`
	Rarity          string     `json:"rarity"`
	TypeLine        string     `json:"type_line"`
	Foil            bool       `json:"foil"`
	Nonfoil         bool       `json:"nonfoil"`
	Prices          CardPrices `json:"prices"`
	ImageURL        string     `json:"image_url,omitempty"`
}

type CardPrices struct {
	USD     *string `json:"usd"`
	USDFoil *string `json:"usd_foil"`
	EUR     *string `json:"eur"`
}

// CardIdentifier is one key of a bulk lookup.
type CardIdentifier struct {
	ID              string `json:"id,omitempty"`
	MultiverseID    int64  `json:"multiverse_id,omitempty"`
	MtgoID          int64  `json:"mtgo_id,omitempty"`
	OracleID        string `json:"oracle_id,omitempty"`
	IllustrationID  string `json:"illustration_id,omitempty"`
	Name            string `json:"name,omitempty"`
	Set             string `json:"set,omitempty"`
	CollectorNumber string `json:"collector_number,omitempty"`
}

// Valid reports whether the identifier names a card in a shape the catalog accepts.
func (c CardIdentifier) Valid() bool {
	return c.ID != "" ||
		c.MultiverseID > 0 ||
		c.MtgoID > 0 ||
		c.OracleID != "" ||
		c.IllustrationID != "" ||
		c.Name != "" ||
		(c.Set != "" && c.CollectorNumber != "")
}
