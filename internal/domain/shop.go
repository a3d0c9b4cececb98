package domain

// ShopItem is an upgrade definition from the shop catalog
type ShopItem struct {
	ID          ItemType `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	BaseCost    int64    `json:"base_cost" yaml:"base_cost"`
	MaxLevel    int      `json:"max_level" yaml:"max_level"`
	Effect      string   `json:"effect" yaml:"effect"`
}

// ShopOffer is a catalog item priced for a specific user
type ShopOffer struct {
	ShopItem
	CurrentLevel int   `json:"current_level"`
	NextCost     int64 `json:"next_cost"`
	MaxedOut     bool  `json:"maxed_out"`
	Affordable   bool  `json:"affordable"`
}

// PurchaseResult is returned after a successful upgrade purchase
type PurchaseResult struct {
	Success bool         `json:"success"`
	Cost    int64        `json:"cost"`
	User    UserProgress `json:"user"`
}
