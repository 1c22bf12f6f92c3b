package models

import "time"

type SpawnPoint struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
	Team string  `json:"team,omitempty"`
}

type MapObject struct {
	Type     string     `json:"type"`
	Position [3]float64 `json:"position"`
	Rotation [3]float64 `json:"rotation"`
}

// MapData is the forge payload of a custom map. It lives in the blob store and
// is only returned on download.
type MapData struct {
	Objects  []MapObject       `json:"objects,omitempty"`
	Spawns   []SpawnPoint      `json:"spawns"`
	Weapons  []MapObject       `json:"weapons,omitempty"`
	Vehicles []MapObject       `json:"vehicles,omitempty"`
	Settings map[string]string `json:"settings,omitempty"`
}

type CustomMap struct {
	ID             string    `json:"id"`
	Name           string    `json:"mapName"`
	AuthorID       int64     `json:"authorId"`
	AuthorGamertag string    `json:"authorGamertag"`
	BaseMap        string    `json:"baseMap"`
	GameModes      []string  `json:"gameModes"`
	Tags           []string  `json:"tags"`
	Description    string    `json:"description,omitempty"`
	Custom         bool      `json:"custom"`
	DownloadCount  int64     `json:"downloadCount"`
	Rating         float64   `json:"rating"`
	CreatedAt      time.Time `json:"createdAt"`
}
