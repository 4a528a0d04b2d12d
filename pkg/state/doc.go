// Package state persists beastpak's bookkeeping between runs: slot
// assignments, merge-helper sentinels, and deployed-artifact records.
package state
