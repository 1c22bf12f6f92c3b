package weapons

import "github.com/jason-s-yu/halo/internal/models"

// haloWeapons is the shipped sandbox. Nine entries carry the power-weapon flag.
var haloWeapons = []models.Weapon{
	// UNSC kinetic
	{ID: "assault_rifle", Name: "MA5B Assault Rifle", Type: models.WeaponKinetic, Damage: 8.5, HeadshotMultiplier: 1.5, FireRate: 10.0, MagazineSize: 32, ReserveAmmo: 128, ReloadTime: 2.3, Range: 50, Automatic: true},
	{ID: "battle_rifle", Name: "BR55 Battle Rifle", Type: models.WeaponKinetic, Damage: 6.0, HeadshotMultiplier: 2.0, FireRate: 2.4, MagazineSize: 36, ReserveAmmo: 144, ReloadTime: 2.8, Range: 100, BurstCount: 3, HasScope: true, ZoomLevel: 2.0},
	{ID: "dmr", Name: "M392 DMR", Type: models.WeaponKinetic, Damage: 15.0, HeadshotMultiplier: 2.5, FireRate: 3.0, MagazineSize: 15, ReserveAmmo: 60, ReloadTime: 2.5, Range: 150, HasScope: true, ZoomLevel: 3.0},
	{ID: "smg", Name: "M7S SMG", Type: models.WeaponKinetic, Damage: 4.0, HeadshotMultiplier: 1.25, FireRate: 15.0, MagazineSize: 60, ReserveAmmo: 240, ReloadTime: 2.0, Range: 25, Automatic: true},
	{ID: "magnum", Name: "M6D Magnum", Type: models.WeaponKinetic, Damage: 18.0, HeadshotMultiplier: 2.0, FireRate: 4.0, MagazineSize: 12, ReserveAmmo: 48, ReloadTime: 1.8, Range: 75, HasScope: true, ZoomLevel: 2.0},
	{ID: "shotgun", Name: "M90 Shotgun", Type: models.WeaponKinetic, Damage: 120.0, HeadshotMultiplier: 1.0, FireRate: 1.0, MagazineSize: 6, ReserveAmmo: 30, ReloadTime: 4.0, Range: 10},

	// Sniper
	{ID: "sniper_rifle", Name: "SRS99D Sniper Rifle", Type: models.WeaponSniper, Damage: 80.0, HeadshotMultiplier: 2.5, FireRate: 0.5, MagazineSize: 4, ReserveAmmo: 20, ReloadTime: 3.5, Range: 300, PowerWeapon: true, RespawnTime: 180, HasScope: true, ZoomLevel: 5.0},

	// Covenant plasma
	{ID: "plasma_rifle", Name: "Type-25 Plasma Rifle", Type: models.WeaponPlasma, Damage: 5.0, HeadshotMultiplier: 1.0, FireRate: 12.0, MagazineSize: 100, ReserveAmmo: 0, Range: 50, Automatic: true},
	{ID: "plasma_pistol", Name: "Type-25 Plasma Pistol", Type: models.WeaponPlasma, Damage: 7.0, HeadshotMultiplier: 1.0, FireRate: 6.0, MagazineSize: 100, ReserveAmmo: 0, Range: 40},
	{ID: "needler", Name: "Type-33 Needler", Type: models.WeaponPlasma, Damage: 3.0, HeadshotMultiplier: 1.0, FireRate: 10.0, MagazineSize: 30, ReserveAmmo: 90, ReloadTime: 2.0, Range: 30, Automatic: true},
	{ID: "carbine", Name: "Type-51 Carbine", Type: models.WeaponPlasma, Damage: 14.0, HeadshotMultiplier: 2.0, FireRate: 4.0, MagazineSize: 18, ReserveAmmo: 72, ReloadTime: 2.5, Range: 120, HasScope: true, ZoomLevel: 2.0},
	{ID: "beam_rifle", Name: "Type-50 Beam Rifle", Type: models.WeaponPlasma, Damage: 75.0, HeadshotMultiplier: 2.5, FireRate: 0.75, MagazineSize: 10, ReserveAmmo: 0, Range: 300, PowerWeapon: true, RespawnTime: 180, HasScope: true, ZoomLevel: 5.0},

	// Explosive power weapons
	{ID: "rocket_launcher", Name: "M41 SPNKr Rocket Launcher", Type: models.WeaponExplosive, Damage: 200.0, HeadshotMultiplier: 1.0, FireRate: 0.75, MagazineSize: 2, ReserveAmmo: 6, ReloadTime: 3.0, Range: 200, PowerWeapon: true, RespawnTime: 180},
	{ID: "fuel_rod", Name: "Type-33 Fuel Rod Gun", Type: models.WeaponExplosive, Damage: 150.0, HeadshotMultiplier: 1.0, FireRate: 1.0, MagazineSize: 5, ReserveAmmo: 20, ReloadTime: 3.5, Range: 150, PowerWeapon: true, RespawnTime: 180},

	// Spartan laser
	{ID: "spartan_laser", Name: "M6 Spartan Laser", Type: models.WeaponHardlight, Damage: 300.0, HeadshotMultiplier: 1.0, FireRate: 0.2, MagazineSize: 4, ReserveAmmo: 0, Range: 500, PowerWeapon: true, RespawnTime: 240, HasScope: true, ZoomLevel: 3.0},

	// Melee
	{ID: "energy_sword", Name: "Type-1 Energy Sword", Type: models.WeaponMelee, Damage: 150.0, HeadshotMultiplier: 1.0, FireRate: 1.5, MagazineSize: 100, ReserveAmmo: 0, Range: 5, PowerWeapon: true, RespawnTime: 120},
	{ID: "gravity_hammer", Name: "Type-2 Gravity Hammer", Type: models.WeaponMelee, Damage: 175.0, HeadshotMultiplier: 1.0, FireRate: 1.0, MagazineSize: 100, ReserveAmmo: 0, Range: 8, PowerWeapon: true, RespawnTime: 120},

	// Forerunner hardlight
	{ID: "lightrifle", Name: "Z-250 LightRifle", Type: models.WeaponHardlight, Damage: 16.0, HeadshotMultiplier: 2.25, FireRate: 3.5, MagazineSize: 12, ReserveAmmo: 48, ReloadTime: 2.7, Range: 125, HasScope: true, ZoomLevel: 3.0},
	{ID: "suppressor", Name: "Z-130 Suppressor", Type: models.WeaponHardlight, Damage: 5.5, HeadshotMultiplier: 1.5, FireRate: 13.0, MagazineSize: 48, ReserveAmmo: 192, ReloadTime: 2.2, Range: 40, Automatic: true},
	{ID: "boltshot", Name: "Z-110 Boltshot", Type: models.WeaponHardlight, Damage: 10.0, HeadshotMultiplier: 1.75, FireRate: 5.0, MagazineSize: 10, ReserveAmmo: 40, ReloadTime: 1.8, Range: 30},
	{ID: "binary_rifle", Name: "Z-750 Binary Rifle", Type: models.WeaponHardlight, Damage: 200.0, HeadshotMultiplier: 1.0, FireRate: 0.4, MagazineSize: 2, ReserveAmmo: 8, ReloadTime: 3.0, Range: 400, PowerWeapon: true, RespawnTime: 180, HasScope: true, ZoomLevel: 5.0},
	{ID: "incineration_cannon", Name: "Z-390 Incineration Cannon", Type: models.WeaponHardlight, Damage: 250.0, HeadshotMultiplier: 1.0, FireRate: 0.5, MagazineSize: 1, ReserveAmmo: 4, ReloadTime: 4.0, Range: 100, PowerWeapon: true, RespawnTime: 240},

	// Grenades
	{ID: "frag_grenade", Name: "M9 Frag Grenade", Type: models.WeaponExplosive, Damage: 100.0, HeadshotMultiplier: 1.0, FireRate: 1.0, MagazineSize: 4, ReserveAmmo: 0, Range: 30},
	{ID: "plasma_grenade", Name: "Type-1 Plasma Grenade", Type: models.WeaponExplosive, Damage: 110.0, HeadshotMultiplier: 1.0, FireRate: 1.0, MagazineSize: 4, ReserveAmmo: 0, Range: 25},
	{ID: "spike_grenade", Name: "Type-2 Spike Grenade", Type: models.WeaponExplosive, Damage: 90.0, HeadshotMultiplier: 1.0, FireRate: 1.0, MagazineSize: 4, ReserveAmmo: 0, Range: 20},

	// Vehicle mounted
	{ID: "warthog_turret", Name: "M46 LAAG", Type: models.WeaponVehicle, Damage: 12.0, HeadshotMultiplier: 1.0, FireRate: 8.0, MagazineSize: 999, ReserveAmmo: 0, Range: 150, Automatic: true},
	{ID: "gauss_cannon", Name: "M68 Gauss Cannon", Type: models.WeaponVehicle, Damage: 150.0, HeadshotMultiplier: 1.0, FireRate: 0.75, MagazineSize: 999, ReserveAmmo: 0, Range: 300},
	{ID: "scorpion_cannon", Name: "M512 90mm Cannon", Type: models.WeaponVehicle, Damage: 400.0, HeadshotMultiplier: 1.0, FireRate: 0.33, MagazineSize: 999, ReserveAmmo: 0, Range: 500},
}
