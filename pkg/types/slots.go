package types

// SlotCategory identifies a class of numbered deployment targets the game
// engine recognizes.
type SlotCategory string

const (
	// CategoryVisualBundle maps to work/data_platform/pc/assets/assets_<n>_pc.rpack
	CategoryVisualBundle SlotCategory = "visual_bundle"

	// CategoryDataPackage maps to source/data<n>.pak
	CategoryDataPackage SlotCategory = "data_package"

	// CategoryNativePlugin maps to loose files under work/bin/x64
	CategoryNativePlugin SlotCategory = "native_plugin"
)

// UnboundedCapacity marks a category without a slot limit.
const UnboundedCapacity = -1

// Capacity returns the fixed slot count for the category, or
// UnboundedCapacity for native plugins.
func (c SlotCategory) Capacity() int {
	switch c {
	case CategoryVisualBundle:
		return 5
	case CategoryDataPackage:
		return 7
	case CategoryNativePlugin:
		return UnboundedCapacity
	default:
		return 0
	}
}

// Slotted reports whether the category uses numbered slots at all.
func (c SlotCategory) Slotted() bool {
	return c.Capacity() != UnboundedCapacity
}

// SlotCategories lists the categories that use numbered slots, in display order.
func SlotCategories() []SlotCategory {
	return []SlotCategory{CategoryVisualBundle, CategoryDataPackage}
}

// DeploySlot is one numbered deployment target and its current occupant.
type DeploySlot struct {
	// Category the slot belongs to
	Category SlotCategory

	// Index within the category, unique per category
	Index int

	// Occupant is the owning mod id, empty when free
	Occupant string
}

// Occupied reports whether the slot is held by a mod.
func (s DeploySlot) Occupied() bool {
	return s.Occupant != ""
}
