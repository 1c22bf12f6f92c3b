// internal/weapons/catalog.go
package weapons

import (
	"fmt"

	"github.com/jason-s-yu/halo/internal/models"
)

// Catalog is a read-only weapon registry. It is never mutated after New
// returns, so every method is safe for concurrent use without locking.
type Catalog struct {
	weapons []models.Weapon
	byID    map[string]int
}

// New builds a catalog from the given definitions, rejecting empty or
// duplicate ids.
func New(defs []models.Weapon) (*Catalog, error) {
	c := &Catalog{
		weapons: make([]models.Weapon, 0, len(defs)),
		byID:    make(map[string]int, len(defs)),
	}
	for _, w := range defs {
		if w.ID == "" {
			return nil, fmt.Errorf("weapon %q has no id: %w", w.Name, models.ErrValidation)
		}
		if _, dup := c.byID[w.ID]; dup {
			return nil, fmt.Errorf("duplicate weapon id %q: %w", w.ID, models.ErrValidation)
		}
		c.byID[w.ID] = len(c.weapons)
		c.weapons = append(c.weapons, w)
	}
	return c, nil
}

// Default returns the catalog of the shipped sandbox.
func Default() *Catalog {
	c, err := New(haloWeapons)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Get(id string) (models.Weapon, error) {
	i, ok := c.byID[id]
	if !ok {
		return models.Weapon{}, fmt.Errorf("weapon %q: %w", id, models.ErrNotFound)
	}
	return c.weapons[i], nil
}

// List returns every weapon in catalog order.
func (c *Catalog) List() []models.Weapon {
	return c.filter(func(models.Weapon) bool { return true })
}

// ListByType accepts the type name in any casing.
func (c *Catalog) ListByType(typ string) ([]models.Weapon, error) {
	t, err := models.ParseWeaponType(typ)
	if err != nil {
		return nil, err
	}
	return c.filter(func(w models.Weapon) bool { return w.Type == t }), nil
}

func (c *Catalog) ListPower() []models.Weapon {
	return c.filter(func(w models.Weapon) bool { return w.PowerWeapon })
}

func (c *Catalog) Len() int { return len(c.weapons) }

func (c *Catalog) filter(keep func(models.Weapon) bool) []models.Weapon {
	out := make([]models.Weapon, 0, len(c.weapons))
	for _, w := range c.weapons {
		if keep(w) {
			out = append(out, w)
		}
	}
	return out
}
