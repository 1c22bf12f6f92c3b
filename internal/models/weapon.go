package models

import (
	"fmt"
	"strings"
)

type WeaponType string

const (
	WeaponKinetic   WeaponType = "KINETIC"
	WeaponPlasma    WeaponType = "PLASMA"
	WeaponHardlight WeaponType = "HARDLIGHT"
	WeaponExplosive WeaponType = "EXPLOSIVE"
	WeaponMelee     WeaponType = "MELEE"
	WeaponSniper    WeaponType = "SNIPER"
	WeaponVehicle   WeaponType = "VEHICLE"
)

var weaponTypes = []WeaponType{
	WeaponKinetic, WeaponPlasma, WeaponHardlight, WeaponExplosive,
	WeaponMelee, WeaponSniper, WeaponVehicle,
}

// ParseWeaponType accepts any casing of a known weapon type.
func ParseWeaponType(s string) (WeaponType, error) {
	up := WeaponType(strings.ToUpper(strings.TrimSpace(s)))
	for _, t := range weaponTypes {
		if t == up {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown weapon type %q: %w", s, ErrValidation)
}

type Weapon struct {
	ID                 string     `json:"weaponId"`
	Name               string     `json:"name"`
	Type               WeaponType `json:"type"`
	Damage             float64    `json:"damage"`
	HeadshotMultiplier float64    `json:"headshotMultiplier"`
	FireRate           float64    `json:"fireRate"`
	MagazineSize       int        `json:"magazineSize"`
	ReserveAmmo        int        `json:"reserveAmmo"`
	ReloadTime         float64    `json:"reloadTime"`
	Range              float64    `json:"range"`
	Automatic          bool       `json:"isAutomatic"`
	PowerWeapon        bool       `json:"isPowerWeapon"`
	RespawnTime        int        `json:"respawnTime,omitempty"`
	BurstCount         int        `json:"burstCount,omitempty"`
	HasScope           bool       `json:"hasScope"`
	ZoomLevel          float64    `json:"zoomLevel,omitempty"`
}
