package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleSatisfies(t *testing.T) {
	assert.True(t, RoleAdmin.Satisfies(RoleGuest))
	assert.True(t, RoleAdmin.Satisfies(RolePlayer))
	assert.True(t, RolePlayer.Satisfies(RoleUser))
	assert.False(t, RoleUser.Satisfies(RolePlayer))
	assert.False(t, RoleGuest.Satisfies(RoleUser))
	assert.False(t, Role(42).Satisfies(RoleGuest))
}

func TestRoleJSON(t *testing.T) {
	b, err := json.Marshal(RolePlayer)
	require.NoError(t, err)
	assert.Equal(t, `"PLAYER"`, string(b))

	var r Role
	require.NoError(t, json.Unmarshal([]byte(`"admin"`), &r))
	assert.Equal(t, RoleAdmin, r)

	assert.ErrorIs(t, json.Unmarshal([]byte(`"root"`), &r), ErrValidation)
}

func TestPlayerStatsJSONIncludesRatios(t *testing.T) {
	b, err := json.Marshal(PlayerStats{PlayerID: 1, Kills: 10, Deaths: 2, Wins: 1, MatchesPlayed: 2})
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, 5.0, out["kdRatio"])
	assert.Equal(t, 0.5, out["winRatio"])
	assert.Equal(t, 10.0, out["totalKills"])
}

func TestMatchIsWin(t *testing.T) {
	m := Match{WinningTeam: "red"}
	assert.True(t, m.IsWin(PlayerResult{Team: "red"}))
	assert.False(t, m.IsWin(PlayerResult{Team: "blue"}))
	assert.True(t, Match{}.IsWin(PlayerResult{Won: true}))
	assert.False(t, Match{}.IsWin(PlayerResult{}))
}
