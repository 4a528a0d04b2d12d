package state

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/arthur-debert/beastpak/pkg/types"
)

// Directory names under the state root
const (
	slotsDirName    = "slots"
	helperDirName   = "helper"
	deployedDirName = "deployed"
)

// Store is the interface for beastpak's persistent state. Every record is
// a small file under the state root, so state survives process restarts
// and can be inspected or repaired with ordinary shell tools.
type Store interface {
	// Slot records

	// SaveSlot records modID as the occupant of a slot
	SaveSlot(category types.SlotCategory, index int, modID string) error

	// LoadSlots returns the occupied slots of a category, keyed by index
	LoadSlots(category types.SlotCategory) (map[int]string, error)

	// ClearSlot releases a slot record; clearing a free slot is a no-op
	ClearSlot(category types.SlotCategory, index int) error

	// Merge-helper sentinels

	// RecordHelperRun marks the merge helper as completed for a
	// fragment-set checksum
	RecordHelperRun(checksum string) error

	// HelperRan reports whether the merge helper already completed for a
	// fragment-set checksum
	HelperRan(checksum string) (bool, error)

	// Deployed-artifact records

	// RecordDeployed notes that a mod's artifact was placed at destPath.
	// The name must be a bare file name, not a path.
	RecordDeployed(modID, name, destPath string) error

	// DeployedArtifacts returns a mod's deployed artifacts keyed by
	// artifact name, with destination paths as values
	DeployedArtifacts(modID string) (map[string]string, error)

	// ClearDeployed removes every deployed-artifact record of a mod
	ClearDeployed(modID string) error
}

// filesystemStore implements Store using the filesystem
type filesystemStore struct {
	fs   types.FS
	root string
}

// New creates a Store rooted at dir, typically Paths.StateDir()
func New(fs types.FS, dir string) Store {
	return &filesystemStore{
		fs:   fs,
		root: dir,
	}
}

// SaveSlot records modID as the occupant of a slot
func (s *filesystemStore) SaveSlot(category types.SlotCategory, index int, modID string) error {
	if modID == "" {
		return fmt.Errorf("empty mod id for slot %s/%d", category, index)
	}

	dir := filepath.Join(s.root, slotsDirName, string(category))
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create slot directory for %s: %w", category, err)
	}

	path := filepath.Join(dir, strconv.Itoa(index))
	if err := s.fs.WriteFile(path, []byte(modID), 0644); err != nil {
		return fmt.Errorf("failed to write slot record %s/%d: %w", category, index, err)
	}

	return nil
}

// LoadSlots returns the occupied slots of a category, keyed by index.
// A missing category directory means no slots are taken.
func (s *filesystemStore) LoadSlots(category types.SlotCategory) (map[int]string, error) {
	dir := filepath.Join(s.root, slotsDirName, string(category))

	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[int]string{}, nil
		}
		return nil, fmt.Errorf("failed to read slot records for %s: %w", category, err)
	}

	occupied := make(map[int]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		// Record names are slot indices; anything else is not ours
		index, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}

		content, err := s.fs.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read slot record %s/%d: %w", category, index, err)
		}

		modID := strings.TrimSpace(string(content))
		if modID == "" {
			continue
		}
		occupied[index] = modID
	}

	return occupied, nil
}

// ClearSlot releases a slot record; clearing a free slot is a no-op
func (s *filesystemStore) ClearSlot(category types.SlotCategory, index int) error {
	path := filepath.Join(s.root, slotsDirName, string(category), strconv.Itoa(index))

	if _, err := s.fs.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to check slot record %s/%d: %w", category, index, err)
	}

	if err := s.fs.Remove(path); err != nil {
		return fmt.Errorf("failed to clear slot record %s/%d: %w", category, index, err)
	}

	return nil
}

// RecordHelperRun marks the merge helper as completed for a fragment-set
// checksum
func (s *filesystemStore) RecordHelperRun(checksum string) error {
	if checksum == "" {
		return fmt.Errorf("empty helper checksum")
	}

	dir := filepath.Join(s.root, helperDirName)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create helper sentinel directory: %w", err)
	}

	content := fmt.Sprintf("completed|%s", time.Now().Format(time.RFC3339))
	path := filepath.Join(dir, checksum)
	if err := s.fs.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write helper sentinel %s: %w", checksum, err)
	}

	return nil
}

// HelperRan reports whether the merge helper already completed for a
// fragment-set checksum
func (s *filesystemStore) HelperRan(checksum string) (bool, error) {
	path := filepath.Join(s.root, helperDirName, checksum)

	if _, err := s.fs.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check helper sentinel %s: %w", checksum, err)
	}

	return true, nil
}

// RecordDeployed notes that a mod's artifact was placed at destPath
func (s *filesystemStore) RecordDeployed(modID, name, destPath string) error {
	if modID == "" || name == "" {
		return fmt.Errorf("empty mod id or artifact name for deployed record")
	}

	dir := filepath.Join(s.root, deployedDirName, modID)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create deployed directory for %s: %w", modID, err)
	}

	path := filepath.Join(dir, name)
	if err := s.fs.WriteFile(path, []byte(destPath), 0644); err != nil {
		return fmt.Errorf("failed to write deployed record %s/%s: %w", modID, name, err)
	}

	return nil
}

// DeployedArtifacts returns a mod's deployed artifacts keyed by artifact
// name. A mod with no records yields an empty map.
func (s *filesystemStore) DeployedArtifacts(modID string) (map[string]string, error) {
	dir := filepath.Join(s.root, deployedDirName, modID)

	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read deployed records for %s: %w", modID, err)
	}

	deployed := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		content, err := s.fs.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read deployed record %s/%s: %w", modID, entry.Name(), err)
		}
		deployed[entry.Name()] = strings.TrimSpace(string(content))
	}

	return deployed, nil
}

// ClearDeployed removes every deployed-artifact record of a mod
func (s *filesystemStore) ClearDeployed(modID string) error {
	dir := filepath.Join(s.root, deployedDirName, modID)

	if _, err := s.fs.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to check deployed records for %s: %w", modID, err)
	}

	if err := s.fs.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to clear deployed records for %s: %w", modID, err)
	}

	return nil
}
