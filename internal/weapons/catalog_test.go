package weapons

import (
	"fmt"
	"testing"

	"github.com/jason-s-yu/halo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	assert.Equal(t, 28, c.Len())
	assert.Len(t, c.ListPower(), 9)
}

func TestGetReturnsMatchingID(t *testing.T) {
	c := Default()
	for _, w := range c.List() {
		got, err := c.Get(w.ID)
		require.NoError(t, err)
		assert.Equal(t, w.ID, got.ID)
	}

	_, err := c.Get("halo_ce_pistol")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListPowerIsSubsetOfList(t *testing.T) {
	c := Default()
	all := map[string]bool{}
	for _, w := range c.List() {
		all[w.ID] = w.PowerWeapon
	}

	power := c.ListPower()
	assert.LessOrEqual(t, len(power), len(all))
	flagged := 0
	for _, isPower := range all {
		if isPower {
			flagged++
		}
	}
	assert.Equal(t, flagged, len(power))
	for _, w := range power {
		assert.True(t, all[w.ID], "%s should be in List()", w.ID)
	}
}

func TestFixtureCatalogWithFivePowerWeapons(t *testing.T) {
	defs := make([]models.Weapon, 0, 28)
	for i := 0; i < 28; i++ {
		defs = append(defs, models.Weapon{
			ID:          fmt.Sprintf("w%02d", i),
			Type:        models.WeaponKinetic,
			PowerWeapon: i%6 == 0 && i < 25,
		})
	}
	c, err := New(defs)
	require.NoError(t, err)
	assert.Len(t, c.List(), 28)
	assert.Len(t, c.ListPower(), 5)
}

func TestListByType(t *testing.T) {
	c := Default()

	melee, err := c.ListByType("melee")
	require.NoError(t, err)
	require.Len(t, melee, 2)
	assert.Equal(t, "energy_sword", melee[0].ID)
	assert.Equal(t, "gravity_hammer", melee[1].ID)

	vehicle, err := c.ListByType("VEHICLE")
	require.NoError(t, err)
	assert.Len(t, vehicle, 3)

	_, err = c.ListByType("laser")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New([]models.Weapon{{ID: "a"}, {ID: "a"}})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = New([]models.Weapon{{Name: "nameless"}})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCallersCannotMutateCatalog(t *testing.T) {
	c := Default()
	list := c.List()
	list[0].Name = "changed"

	w, err := c.Get(list[0].ID)
	require.NoError(t, err)
	assert.NotEqual(t, "changed", w.Name)
}
