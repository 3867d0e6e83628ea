package glossary

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "hola", NormalizeName("  HoLa "))
	require.Equal(t, "", NormalizeName("   "))
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "Buenos Días", DisplayName("buenos días"))
	require.Equal(t, "Árbol", DisplayName("árbol"))
}

func TestSortWords(t *testing.T) {
	now := time.Now()
	words := []*Word{
		{Name: "zapato"},
		{Name: "árbol"},
		{Name: "casa", Signs: []Sign{
			{ID: "old", CreatedAt: now.Add(-time.Hour)},
			{ID: "new", CreatedAt: now},
		}},
	}
	SortWords(words)

	require.Equal(t, "árbol", words[0].Name)
	require.Equal(t, "casa", words[1].Name)
	require.Equal(t, "zapato", words[2].Name)
	require.Equal(t, "new", words[1].Signs[0].ID)
	require.Equal(t, "old", words[1].Signs[1].ID)
}

func TestLocationValid(t *testing.T) {
	require.True(t, Location{Latitude: 4.6097, Longitude: -74.0817}.Valid())
	require.True(t, Location{Latitude: -90, Longitude: 180}.Valid())
	require.False(t, Location{Latitude: 91, Longitude: 0}.Valid())
	require.False(t, Location{Latitude: 0, Longitude: -180.5}.Valid())
	require.False(t, Location{Latitude: math.NaN(), Longitude: 0}.Valid())
	require.False(t, Location{Latitude: 0, Longitude: math.NaN()}.Valid())
	require.False(t, Location{Latitude: math.Inf(1), Longitude: 0}.Valid())
	require.False(t, Location{Latitude: 0, Longitude: math.Inf(-1)}.Valid())
}
