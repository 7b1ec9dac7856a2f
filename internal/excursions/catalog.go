package excursions

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var ErrNotFound = errors.New("excursion not found")

type Excursion struct {
	ID          string  `yaml:"id"`
	Category    string  `yaml:"category"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	Photo       string  `yaml:"photo"`
	Popular     bool    `yaml:"popular"`
	Available   bool    `yaml:"available"`
}

type catalogFile struct {
	Excursions []Excursion `yaml:"excursions"`
}

// Catalog is loaded once and read-only afterwards.
type Catalog struct {
	items []Excursion
	byID  map[string]int
}

// Load reads a YAML catalog. A missing file yields an empty catalog so the
// bot keeps running; the menu reports excursions as unavailable.
func Load(path string, logger *zap.Logger) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn("Excursion catalog not found", zap.String("path", path))
		return New(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read excursion catalog: %w", err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded excursion catalog",
		zap.String("path", path),
		zap.Int("excursions", len(c.items)),
		zap.Strings("categories", c.Categories()))
	return c, nil
}

func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse excursion catalog: %w", err)
	}
	return New(file.Excursions)
}

// New validates items and indexes them by id.
func New(items []Excursion) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]int, len(items))}
	for i, item := range items {
		item.ID = strings.TrimSpace(item.ID)
		item.Category = strings.TrimSpace(item.Category)
		if item.ID == "" || item.Category == "" || item.Name == "" {
			return nil, fmt.Errorf("excursion #%d: id, category and name are required", i+1)
		}
		if _, dup := c.byID[item.ID]; dup {
			return nil, fmt.Errorf("excursion #%d: duplicate id %q", i+1, item.ID)
		}
		c.byID[item.ID] = len(c.items)
		c.items = append(c.items, item)
	}
	return c, nil
}

// Categories returns unique category names sorted alphabetically.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, item := range c.items {
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		out = append(out, item.Category)
	}
	sort.Strings(out)
	return out
}

// ByCategory keeps catalog order.
func (c *Catalog) ByCategory(category string) []Excursion {
	var out []Excursion
	for _, item := range c.items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

func (c *Catalog) ByID(id string) (Excursion, error) {
	idx, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return Excursion{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.items[idx], nil
}
