package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// GET /halo/weapons
func (a *API) listWeapons(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, a.Weapons.List())
}

// GET /halo/weapons/power
func (a *API) listPowerWeapons(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, a.Weapons.ListPower())
}

// GET /halo/weapons/type/{type}
func (a *API) listWeaponsByType(w http.ResponseWriter, r *http.Request) {
	list, err := a.Weapons.ListByType(mux.Vars(r)["type"])
	if err != nil {
		writeServiceError(w, r, a.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, list)
}

// GET /halo/weapons/{id}
func (a *API) getWeapon(w http.ResponseWriter, r *http.Request) {
	weapon, err := a.Weapons.Get(mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, a.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, weapon)
}
