package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "bastion", normalizeTitle("Bastion™"))
	assert.Equal(t, "pokemon snap", normalizeTitle("Pokémon Snap!"))
	assert.Equal(t, "half life 2", normalizeTitle("Half-Life 2"))
	assert.Equal(t, "", normalizeTitle("..."))
}

func TestTitlesMatch(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Hades", "Hades", true},
		{"HADES", "hades", true},
		{"Bastion™", "Bastion", true},
		{"Pokémon Snap", "Pokemon Snap", true},
		{"Half-Life 2", "Half Life 2", true},
		// One-character typo within the edit budget
		{"Celeste", "Celesta", true},
		{"Hades", "Hades II", false},
		{"Portal", "Outward", false},
		{"", "Hades", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, titlesMatch(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}
