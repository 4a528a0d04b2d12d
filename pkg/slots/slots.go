// Package slots assigns numbered deployment targets to mods. The game
// engine only loads bundle and package files at fixed, numbered paths, so
// every deployed mod has to claim one of the scarce indices. Assignments
// are persisted through the state store and survive across builds.
package slots

import (
	"github.com/arthur-debert/beastpak/pkg/errors"
	"github.com/arthur-debert/beastpak/pkg/logging"
	"github.com/arthur-debert/beastpak/pkg/state"
	"github.com/arthur-debert/beastpak/pkg/types"
)

// Allocator hands out deployment slots first-fit from index zero.
type Allocator struct {
	store state.Store
}

// New creates an Allocator backed by the given state store.
func New(store state.Store) *Allocator {
	return &Allocator{store: store}
}

// Allocate returns modID's slot in category, claiming the lowest free
// index when the mod does not hold one yet. Allocating again for the same
// mod returns the slot it already holds. When every index of a bounded
// category is taken the call fails with a slot exhaustion error and the
// occupancy table is left untouched.
func (a *Allocator) Allocate(category types.SlotCategory, modID string) (types.DeploySlot, error) {
	logger := logging.GetLogger("slots")

	if modID == "" {
		return types.DeploySlot{}, errors.New(errors.ErrInvalidInput, "empty mod id")
	}

	occupied, err := a.store.LoadSlots(category)
	if err != nil {
		return types.DeploySlot{}, errors.Wrapf(err, errors.ErrIOFailure,
			"failed to load slot records for %s", category)
	}

	if index, ok := heldSlot(occupied, modID); ok {
		logger.Debug().
			Str("category", string(category)).
			Int("slot", index).
			Str("mod", modID).
			Msg("mod already holds a slot")
		return types.DeploySlot{Category: category, Index: index, Occupant: modID}, nil
	}

	limit := category.Capacity()
	if limit == types.UnboundedCapacity {
		// Scanning one past the occupied count always finds a free index
		limit = len(occupied) + 1
	}

	for index := 0; index < limit; index++ {
		if _, taken := occupied[index]; taken {
			continue
		}

		if err := a.store.SaveSlot(category, index, modID); err != nil {
			return types.DeploySlot{}, errors.Wrapf(err, errors.ErrIOFailure,
				"failed to record slot %s/%d", category, index)
		}

		logger.Info().
			Str("category", string(category)).
			Int("slot", index).
			Str("mod", modID).
			Msg("slot assigned")
		return types.DeploySlot{Category: category, Index: index, Occupant: modID}, nil
	}

	return types.DeploySlot{}, errors.Newf(errors.ErrSlotExhausted,
		"all %d %s slots are taken", category.Capacity(), category).
		WithDetail("category", string(category)).
		WithDetail("capacity", category.Capacity()).
		WithDetail("mod", modID)
}

// Free releases every slot modID holds in category. Freeing a mod that
// holds nothing is a no-op.
func (a *Allocator) Free(category types.SlotCategory, modID string) error {
	logger := logging.GetLogger("slots")

	occupied, err := a.store.LoadSlots(category)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIOFailure,
			"failed to load slot records for %s", category)
	}

	for index, occupant := range occupied {
		if occupant != modID {
			continue
		}

		if err := a.store.ClearSlot(category, index); err != nil {
			return errors.Wrapf(err, errors.ErrIOFailure,
				"failed to release slot %s/%d", category, index)
		}

		logger.Info().
			Str("category", string(category)).
			Int("slot", index).
			Str("mod", modID).
			Msg("slot released")
	}

	return nil
}

// Occupancy returns every index of a bounded category in order, free
// slots included. Unbounded categories are listed up to their highest
// occupied index.
func (a *Allocator) Occupancy(category types.SlotCategory) ([]types.DeploySlot, error) {
	occupied, err := a.store.LoadSlots(category)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIOFailure,
			"failed to load slot records for %s", category)
	}

	limit := category.Capacity()
	if limit == types.UnboundedCapacity {
		limit = maxIndex(occupied) + 1
	}

	table := make([]types.DeploySlot, 0, limit)
	for index := 0; index < limit; index++ {
		table = append(table, types.DeploySlot{
			Category: category,
			Index:    index,
			Occupant: occupied[index],
		})
	}

	return table, nil
}

// heldSlot finds the lowest slot index occupied by modID.
func heldSlot(occupied map[int]string, modID string) (int, bool) {
	held := -1
	for index, occupant := range occupied {
		if occupant != modID {
			continue
		}
		if held == -1 || index < held {
			held = index
		}
	}
	return held, held != -1
}

// maxIndex returns the highest occupied index, or -1 when empty.
func maxIndex(occupied map[int]string) int {
	max := -1
	for index := range occupied {
		if index > max {
			max = index
		}
	}
	return max
}
