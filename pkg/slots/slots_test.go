package slots_test

import (
	"fmt"
	"testing"

	"github.com/arthur-debert/beastpak/pkg/errors"
	"github.com/arthur-debert/beastpak/pkg/slots"
	"github.com/arthur-debert/beastpak/pkg/state"
	"github.com/arthur-debert/beastpak/pkg/testutil"
	"github.com/arthur-debert/beastpak/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAllocator(t *testing.T) (*slots.Allocator, state.Store) {
	t.Helper()
	store := state.New(testutil.NewMemoryFS(), "/state/beastpak")
	return slots.New(store), store
}

func TestAllocateFirstFit(t *testing.T) {
	allocator, _ := newAllocator(t)

	slot, err := allocator.Allocate(types.CategoryVisualBundle, "better-lighting")
	require.NoError(t, err)
	assert.Equal(t, 0, slot.Index)
	assert.Equal(t, types.CategoryVisualBundle, slot.Category)
	assert.Equal(t, "better-lighting", slot.Occupant)

	slot, err = allocator.Allocate(types.CategoryVisualBundle, "texture-pack")
	require.NoError(t, err)
	assert.Equal(t, 1, slot.Index)
}

func TestAllocateFillsLowestGap(t *testing.T) {
	allocator, store := newAllocator(t)

	require.NoError(t, store.SaveSlot(types.CategoryDataPackage, 0, "quests"))
	require.NoError(t, store.SaveSlot(types.CategoryDataPackage, 1, "weapons"))
	require.NoError(t, store.SaveSlot(types.CategoryDataPackage, 3, "audio"))

	slot, err := allocator.Allocate(types.CategoryDataPackage, "newcomer")
	require.NoError(t, err)
	assert.Equal(t, 2, slot.Index)
}

func TestAllocateIdempotentPerMod(t *testing.T) {
	allocator, store := newAllocator(t)

	first, err := allocator.Allocate(types.CategoryVisualBundle, "better-lighting")
	require.NoError(t, err)

	again, err := allocator.Allocate(types.CategoryVisualBundle, "better-lighting")
	require.NoError(t, err)
	assert.Equal(t, first, again)

	occupied, err := store.LoadSlots(types.CategoryVisualBundle)
	require.NoError(t, err)
	assert.Len(t, occupied, 1)
}

func TestAllocateExhaustion(t *testing.T) {
	allocator, store := newAllocator(t)

	for i := 0; i < types.CategoryVisualBundle.Capacity(); i++ {
		_, err := allocator.Allocate(types.CategoryVisualBundle, fmt.Sprintf("mod-%d", i))
		require.NoError(t, err)
	}

	before, err := store.LoadSlots(types.CategoryVisualBundle)
	require.NoError(t, err)

	_, err = allocator.Allocate(types.CategoryVisualBundle, "one-too-many")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSlotExhausted))

	// A failed allocation changes nothing
	after, err := store.LoadSlots(types.CategoryVisualBundle)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAllocateNativePluginsNeverExhaust(t *testing.T) {
	allocator, _ := newAllocator(t)

	// Far past every bounded capacity
	for i := 0; i < 20; i++ {
		slot, err := allocator.Allocate(types.CategoryNativePlugin, fmt.Sprintf("plugin-%d", i))
		require.NoError(t, err)
		assert.Equal(t, i, slot.Index)
	}
}

func TestAllocateRejectsEmptyModID(t *testing.T) {
	allocator, _ := newAllocator(t)

	_, err := allocator.Allocate(types.CategoryVisualBundle, "")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestFreeReleasesSlot(t *testing.T) {
	allocator, _ := newAllocator(t)

	_, err := allocator.Allocate(types.CategoryVisualBundle, "better-lighting")
	require.NoError(t, err)
	_, err = allocator.Allocate(types.CategoryVisualBundle, "texture-pack")
	require.NoError(t, err)

	require.NoError(t, allocator.Free(types.CategoryVisualBundle, "better-lighting"))

	// The freed index is the lowest again
	slot, err := allocator.Allocate(types.CategoryVisualBundle, "reshade")
	require.NoError(t, err)
	assert.Equal(t, 0, slot.Index)
}

func TestFreeUnknownModIsNoOp(t *testing.T) {
	allocator, store := newAllocator(t)

	_, err := allocator.Allocate(types.CategoryVisualBundle, "better-lighting")
	require.NoError(t, err)

	require.NoError(t, allocator.Free(types.CategoryVisualBundle, "never-installed"))

	occupied, err := store.LoadSlots(types.CategoryVisualBundle)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{0: "better-lighting"}, occupied)
}

func TestAllocationsSurviveRestart(t *testing.T) {
	fs := testutil.NewMemoryFS()
	store := state.New(fs, "/state/beastpak")

	first := slots.New(store)
	slot, err := first.Allocate(types.CategoryDataPackage, "extra-quests")
	require.NoError(t, err)

	// A new allocator over the same store sees the assignment
	second := slots.New(state.New(fs, "/state/beastpak"))
	again, err := second.Allocate(types.CategoryDataPackage, "extra-quests")
	require.NoError(t, err)
	assert.Equal(t, slot, again)
}

func TestOccupancyTable(t *testing.T) {
	allocator, _ := newAllocator(t)

	_, err := allocator.Allocate(types.CategoryVisualBundle, "better-lighting")
	require.NoError(t, err)
	_, err = allocator.Allocate(types.CategoryVisualBundle, "texture-pack")
	require.NoError(t, err)
	require.NoError(t, allocator.Free(types.CategoryVisualBundle, "better-lighting"))

	table, err := allocator.Occupancy(types.CategoryVisualBundle)
	require.NoError(t, err)
	require.Len(t, table, types.CategoryVisualBundle.Capacity())

	assert.False(t, table[0].Occupied())
	assert.Equal(t, "texture-pack", table[1].Occupant)
	for _, slot := range table[2:] {
		assert.False(t, slot.Occupied())
	}
}
