package project

import (
	"fmt"

	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/model"
)

// Global invoice settings, shared by every profile.
const (
	BusinessNameKey = "invoice_business_name"
	LastProfileKey  = "invoice_last_profile"
)

// GlobalSettings holds the values that persist across sessions independently
// of the selected profile.
type GlobalSettings struct {
	BusinessName string `json:"business_name"`
	LastProfile  string `json:"last_profile"`
}

// LoadGlobalSettings reads the global settings. Absent values are empty.
func (s *ProfileStore) LoadGlobalSettings() GlobalSettings {
	return GlobalSettings{
		BusinessName: s.store.Get(BusinessNameKey),
		LastProfile:  s.store.Get(LastProfileKey),
	}
}

// SaveGlobalSettings writes the global settings and flushes the store.
func (s *ProfileStore) SaveGlobalSettings(gs GlobalSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Set(BusinessNameKey, gs.BusinessName)
	s.store.Set(LastProfileKey, gs.LastProfile)
	if err := s.store.Save(); err != nil {
		return fmt.Errorf("failed to save global settings: %w", err)
	}
	return nil
}

// RestoreSession returns the parameters a new session starts with: the
// stored business name applied to current, and the last used profile loaded
// on top when it is still registered.
func (s *ProfileStore) RestoreSession(current model.JobParameters) (model.JobParameters, GlobalSettings) {
	gs := s.LoadGlobalSettings()
	if gs.BusinessName != "" {
		current.BusinessName = gs.BusinessName
	}
	params, _ := s.Load(gs.LastProfile, current)
	return params, gs
}
