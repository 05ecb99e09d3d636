// Package catalog seeds the menu and the rewards catalogue from a YAML file.
package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/polkiloo/gopherbistro/internal/domain/model"
	"github.com/polkiloo/gopherbistro/internal/domain/repository"
)

// File is the on-disk catalog document.
type File struct {
	Menu    []MenuEntry   `yaml:"menu"`
	Rewards []RewardEntry `yaml:"rewards"`
}

// MenuEntry describes a dish. Price is a decimal string to avoid float rounding.
type MenuEntry struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Price string `yaml:"price"`
}

// RewardEntry describes a redeemable item.
type RewardEntry struct {
	ID         int64  `yaml:"id"`
	Name       string `yaml:"name"`
	PointsCost int64  `yaml:"points_cost"`
	Category   string `yaml:"category"`
	InStock    *bool  `yaml:"in_stock"`
}

// Load reads and validates a catalog file.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(bytes.NewReader(raw))
}

// Parse decodes and validates a catalog document.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	menuIDs := make(map[string]struct{}, len(f.Menu))
	for i, m := range f.Menu {
		if m.ID == "" || m.Name == "" {
			return fmt.Errorf("menu[%d]: id and name are required", i)
		}
		if _, dup := menuIDs[m.ID]; dup {
			return fmt.Errorf("menu[%d]: duplicate id %q", i, m.ID)
		}
		menuIDs[m.ID] = struct{}{}
		price, err := decimal.NewFromString(m.Price)
		if err != nil {
			return fmt.Errorf("menu[%d]: invalid price %q: %w", i, m.Price, err)
		}
		if price.IsNegative() {
			return fmt.Errorf("menu[%d]: price must not be negative", i)
		}
	}

	rewardIDs := make(map[int64]struct{}, len(f.Rewards))
	for i, r := range f.Rewards {
		if r.ID <= 0 || r.Name == "" {
			return fmt.Errorf("rewards[%d]: positive id and name are required", i)
		}
		if _, dup := rewardIDs[r.ID]; dup {
			return fmt.Errorf("rewards[%d]: duplicate id %d", i, r.ID)
		}
		rewardIDs[r.ID] = struct{}{}
		if r.PointsCost <= 0 {
			return fmt.Errorf("rewards[%d]: points_cost must be positive", i)
		}
		switch model.RewardCategory(r.Category) {
		case model.RewardCategoryMerchandise, model.RewardCategoryGiftCard:
		default:
			return fmt.Errorf("rewards[%d]: unknown category %q", i, r.Category)
		}
	}
	return nil
}

// MenuItems converts menu entries to domain items.
func (f *File) MenuItems() []model.MenuItem {
	items := make([]model.MenuItem, 0, len(f.Menu))
	for _, m := range f.Menu {
		items = append(items, model.MenuItem{ID: m.ID, Name: m.Name, Price: decimal.RequireFromString(m.Price)})
	}
	return items
}

// RewardItems converts reward entries to domain items. Stock defaults to true.
func (f *File) RewardItems() []model.RedeemableItem {
	items := make([]model.RedeemableItem, 0, len(f.Rewards))
	for _, r := range f.Rewards {
		inStock := true
		if r.InStock != nil {
			inStock = *r.InStock
		}
		items = append(items, model.RedeemableItem{
			ID:         r.ID,
			Name:       r.Name,
			PointsCost: r.PointsCost,
			Category:   model.RewardCategory(r.Category),
			InStock:    inStock,
		})
	}
	return items
}

// Seeder upserts a catalog file into storage.
type Seeder struct {
	tx      repository.Transactor
	menu    repository.MenuCatalog
	rewards repository.RewardRepository
}

// NewSeeder constructs a Seeder.
func NewSeeder(tx repository.Transactor, menu repository.MenuCatalog, rewards repository.RewardRepository) *Seeder {
	return &Seeder{tx: tx, menu: menu, rewards: rewards}
}

// Apply writes every entry of f in a single transaction and evicts cached
// menu entries after it commits.
func (s *Seeder) Apply(ctx context.Context, f *File) error {
	menu := f.MenuItems()
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, item := range menu {
			if err := s.menu.UpsertMenuItem(ctx, item); err != nil {
				return fmt.Errorf("seed menu item %s: %w", item.ID, err)
			}
		}
		for _, item := range f.RewardItems() {
			if err := s.rewards.Upsert(ctx, item); err != nil {
				return fmt.Errorf("seed reward %d: %w", item.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if inv, ok := s.menu.(repository.MenuInvalidator); ok && len(menu) > 0 {
		ids := make([]string, 0, len(menu))
		for _, item := range menu {
			ids = append(ids, item.ID)
		}
		inv.InvalidateMenu(ctx, ids...)
	}
	return nil
}
