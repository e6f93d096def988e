package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogSlots(t *testing.T) {
	c := Default()
	slots := c.Slots()
	require.Len(t, slots, 12)
	assert.Equal(t, "18:00", slots[0])
	assert.Equal(t, "23:30", slots[len(slots)-1])
	assert.True(t, c.HasSlot("20:30"))
	assert.False(t, c.HasSlot("17:30"))
	assert.False(t, c.HasSlot("20:15"))
}

func TestDefaultCatalogTypes(t *testing.T) {
	c := Default()
	require.Len(t, c.TableTypes(), 4)

	vip, ok := c.TableType("vip")
	require.True(t, ok)
	assert.Equal(t, 4, vip.MinParty)
	assert.Equal(t, 12, vip.MaxParty)
	assert.Equal(t, 5000, vip.PriceDeltaCents)
	assert.Equal(t, 4, vip.TotalCount)

	_, ok = c.TableType("cabana")
	assert.False(t, ok)

	assert.Equal(t, 26, c.TotalTables())
}

func TestTableCountOverrides(t *testing.T) {
	c, err := New(Options{TableCounts: map[string]int{"standard": 3, "vip": 1}})
	require.NoError(t, err)

	std, _ := c.TableType("standard")
	assert.Equal(t, 3, std.TotalCount)
	vip, _ := c.TableType("vip")
	assert.Equal(t, 1, vip.TotalCount)

	lounge, _ := c.TableType("lounge")
	assert.Equal(t, 6, lounge.TotalCount)
}

func TestCustomWindow(t *testing.T) {
	c, err := New(Options{Open: "17:00", Close: "19:00", Interval: time.Hour})
	require.NoError(t, err)
	assert.Equal(t, []string{"17:00", "18:00", "19:00"}, c.Slots())
}

func TestMalformedWindow(t *testing.T) {
	_, err := New(Options{Open: "6pm"})
	assert.Error(t, err)

	_, err = New(Options{Open: "22:00", Close: "18:00"})
	assert.Error(t, err)
}
