package project

import (
	"testing"

	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/kvstore"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/model"
)

func TestGlobalSettingsRoundTrip(t *testing.T) {
	mem := kvstore.NewMemory()
	s := NewProfileStore(mem)

	if gs := s.LoadGlobalSettings(); gs != (GlobalSettings{}) {
		t.Errorf("expected empty settings, got %+v", gs)
	}

	want := GlobalSettings{BusinessName: "Print Co", LastProfile: "Acme"}
	if err := s.SaveGlobalSettings(want); err != nil {
		t.Fatal(err)
	}
	if got := s.LoadGlobalSettings(); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if mem.Get(BusinessNameKey) != "Print Co" {
		t.Errorf("unexpected business name key %q", mem.Get(BusinessNameKey))
	}
}

func TestRestoreSession(t *testing.T) {
	s := NewProfileStore(kvstore.NewMemory())
	if err := s.Save("Acme", sampleParams()); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveGlobalSettings(GlobalSettings{BusinessName: "Print Co", LastProfile: "Acme"}); err != nil {
		t.Fatal(err)
	}

	params, gs := s.RestoreSession(model.DefaultJobParameters())
	if gs.LastProfile != "Acme" {
		t.Errorf("expected last profile Acme, got %q", gs.LastProfile)
	}
	if params.CustomerName != "Jane Doe" {
		t.Errorf("expected last profile loaded, got customer %q", params.CustomerName)
	}
	if params.BusinessName != "Print Co" {
		t.Errorf("expected business name applied, got %q", params.BusinessName)
	}
}

func TestRestoreSessionWithDeletedLastProfile(t *testing.T) {
	s := NewProfileStore(kvstore.NewMemory())
	if err := s.SaveGlobalSettings(GlobalSettings{BusinessName: "Print Co", LastProfile: "Gone"}); err != nil {
		t.Fatal(err)
	}

	params, _ := s.RestoreSession(model.DefaultJobParameters())
	if params.CustomerName != "" || params.BusinessName != "Print Co" {
		t.Errorf("expected defaults with business name, got %+v", params)
	}
}
