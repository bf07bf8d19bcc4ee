package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVolumeTargets_ValidInput(t *testing.T) {
	targets, err := ParseVolumeTargets("quadriceps:3,chest:4.5,back:2")
	require.NoError(t, err)
	assert.Len(t, targets, 3)
	assert.Equal(t, 3.0, targets[MuscleQuadriceps])
	assert.Equal(t, 4.5, targets[MuscleChest])
	assert.Equal(t, 2.0, targets[MuscleBack])
}

func TestParseVolumeTargets_EmptyString_ReturnsNil(t *testing.T) {
	targets, err := ParseVolumeTargets("")
	require.NoError(t, err)
	assert.Nil(t, targets)
}

func TestParseVolumeTargets_WhitespaceHandling(t *testing.T) {
	targets, err := ParseVolumeTargets(" quadriceps : 3 , chest : 2 ")
	require.NoError(t, err)
	assert.Len(t, targets, 2)
	assert.Equal(t, 3.0, targets[MuscleQuadriceps])
}

func TestParseVolumeTargets_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing volume", "quadriceps"},
		{"empty muscle", ":3"},
		{"non-numeric volume", "quadriceps:abc"},
		{"zero volume", "quadriceps:0"},
		{"negative volume", "quadriceps:-2"},
		{"NaN volume", "quadriceps:NaN"},
		{"Inf volume", "quadriceps:Inf"},
		{"duplicate muscle", "quadriceps:3,quadriceps:4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVolumeTargets(tt.input)
			assert.Error(t, err)
		})
	}
}
