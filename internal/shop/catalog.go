package shop

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/osse101/TapQuest_Go/internal/domain"
)

// Catalog is the immutable set of upgrades on sale, in file order
type Catalog struct {
	Version string
	items   []domain.ShopItem
	byID    map[domain.ItemType]domain.ShopItem
}

type catalogFile struct {
	Version string            `yaml:"version"`
	Items   []domain.ShopItem `yaml:"items"`
}

// LoadCatalog reads a YAML catalog from disk
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", ErrMsgReadCatalog, path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and checks a YAML catalog.
// Every entry must name a known upgrade exactly once; names are title-cased for display.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgParseCatalog, err)
	}
	if len(file.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgEmptyCatalog)
	}

	title := cases.Title(language.English)
	c := &Catalog{
		Version: file.Version,
		items:   make([]domain.ShopItem, 0, len(file.Items)),
		byID:    make(map[domain.ItemType]domain.ShopItem, len(file.Items)),
	}
	for _, item := range file.Items {
		if !item.ID.Valid() {
			return nil, fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, ErrMsgUnknownItem, item.ID)
		}
		if _, dup := c.byID[item.ID]; dup {
			return nil, fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, ErrMsgDuplicateItem, item.ID)
		}
		if item.BaseCost <= 0 || item.MaxLevel <= 0 || item.MaxLevel > domain.MaxItemLevel {
			return nil, fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, ErrMsgInvalidItem, item.ID)
		}
		item.Name = title.String(strings.TrimSpace(item.Name))
		c.items = append(c.items, item)
		c.byID[item.ID] = item
	}
	return c, nil
}

// Items returns a copy of the catalog entries
func (c *Catalog) Items() []domain.ShopItem {
	out := make([]domain.ShopItem, len(c.items))
	copy(out, c.items)
	return out
}

// Item looks up an entry by type
func (c *Catalog) Item(t domain.ItemType) (domain.ShopItem, bool) {
	item, ok := c.byID[t]
	return item, ok
}

// Offer prices an item for a user
func Offer(item domain.ShopItem, user domain.UserProgress) domain.ShopOffer {
	level := user.ItemLevels.Level(item.ID)
	offer := domain.ShopOffer{
		ShopItem:     item,
		CurrentLevel: level,
		MaxedOut:     level >= item.MaxLevel,
	}
	if !offer.MaxedOut {
		offer.NextCost = domain.UpgradeCost(item.BaseCost, level)
		offer.Affordable = user.Balance >= offer.NextCost
	}
	return offer
}
