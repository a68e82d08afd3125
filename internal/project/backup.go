package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/model"
)

const backupVersion = "1.0.0"

// ProfileBackup is the file format for exporting and importing profiles.
type ProfileBackup struct {
	Version   string         `json:"version"`
	CreatedAt string         `json:"created_at"`
	Settings  GlobalSettings `json:"settings"`
	Profiles  []NamedProfile `json:"profiles"`
}

// NamedProfile pairs a profile name with its parameters.
type NamedProfile struct {
	Name   string              `json:"name"`
	Params model.JobParameters `json:"params"`
}

// ExportProfiles writes every registered profile and the global settings to
// a JSON file at exportPath.
func ExportProfiles(exportPath string, s *ProfileStore) error {
	backup := ProfileBackup{
		Version:   backupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Settings:  s.LoadGlobalSettings(),
		Profiles:  []NamedProfile{},
	}
	for _, name := range s.List() {
		params, found := s.Load(name, model.DefaultJobParameters())
		if !found {
			continue
		}
		params.BusinessName = ""
		backup.Profiles = append(backup.Profiles, NamedProfile{Name: name, Params: params})
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}

	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ReadProfileBackup parses a backup file without applying it.
func ReadProfileBackup(importPath string) (ProfileBackup, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return ProfileBackup{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup ProfileBackup
	if err := json.Unmarshal(data, &backup); err != nil {
		return ProfileBackup{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return ProfileBackup{}, fmt.Errorf("invalid backup file: missing version field")
	}
	return backup, nil
}

// ImportProfiles saves the profiles of a backup file into s and returns the
// names written. Existing profiles are skipped unless overwrite is set.
// Global settings are only restored when the store has none.
func ImportProfiles(importPath string, s *ProfileStore, overwrite bool) ([]string, error) {
	backup, err := ReadProfileBackup(importPath)
	if err != nil {
		return nil, err
	}

	imported := []string{}
	for _, p := range backup.Profiles {
		if !overwrite && s.Exists(p.Name) {
			continue
		}
		if err := s.Save(p.Name, p.Params); err != nil {
			return imported, fmt.Errorf("failed to import profile %q: %w", p.Name, err)
		}
		imported = append(imported, p.Name)
	}

	current := s.LoadGlobalSettings()
	if current == (GlobalSettings{}) && backup.Settings != (GlobalSettings{}) {
		if err := s.SaveGlobalSettings(backup.Settings); err != nil {
			return imported, err
		}
	}
	return imported, nil
}
