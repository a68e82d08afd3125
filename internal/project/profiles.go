package project

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/kvstore"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/model"
)

// Store keys. Every profile field lives under
// "invoice_job_<name>_<field>"; the registry lists the profile names.
const (
	ProfileRegistryKey = "invoice_profiles"
	profileKeyPrefix   = "invoice_job_"
	registrySeparator  = ";"
	filamentCostField  = "filament_cost_"
	filamentIDsField   = "filament_cost_ids"
)

var (
	// ErrEmptyProfileName is returned when saving under an empty name.
	ErrEmptyProfileName = errors.New("profile name is empty")
	// ErrInvalidProfileName is returned for names containing the registry separator.
	ErrInvalidProfileName = errors.New("profile name must not contain ';'")
	// ErrProfileNotFound is returned when a profile is not in the registry.
	ErrProfileNotFound = errors.New("profile not found")
)

type textField struct {
	key string
	ptr func(*model.JobParameters) *string
}

type intField struct {
	key string
	ptr func(*model.JobParameters) *int
}

type floatField struct {
	key string
	ptr func(*model.JobParameters) *float64
}

// The business name is a global setting, not part of a profile.
var textFields = []textField{
	{"customer_name", func(p *model.JobParameters) *string { return &p.CustomerName }},
	{"customer_email", func(p *model.JobParameters) *string { return &p.CustomerEmail }},
	{"customer_phone", func(p *model.JobParameters) *string { return &p.CustomerPhone }},
	{"job_name", func(p *model.JobParameters) *string { return &p.JobName }},
	{"job_description", func(p *model.JobParameters) *string { return &p.JobDescription }},
}

var intFields = []intField{
	{"parts_per_plate", func(p *model.JobParameters) *int { return &p.PartsPerPlate }},
	{"num_plates", func(p *model.JobParameters) *int { return &p.NumPlates }},
}

var floatFields = []floatField{
	{"failure_rate", func(p *model.JobParameters) *float64 { return &p.FailureRate }},
	{"labor_rate", func(p *model.JobParameters) *float64 { return &p.LaborRate }},
	{"prep_time", func(p *model.JobParameters) *float64 { return &p.PrepTime }},
	{"setup_time", func(p *model.JobParameters) *float64 { return &p.SetupTime }},
	{"finishing_per_part", func(p *model.JobParameters) *float64 { return &p.FinishingPerPart }},
	{"finishing_per_plate", func(p *model.JobParameters) *float64 { return &p.FinishingPerPlate }},
	{"printer_cost", func(p *model.JobParameters) *float64 { return &p.PrinterCost }},
	{"printer_lifespan", func(p *model.JobParameters) *float64 { return &p.PrinterLifespan }},
	{"maintenance_cost", func(p *model.JobParameters) *float64 { return &p.MaintenanceCost }},
	{"power_watts", func(p *model.JobParameters) *float64 { return &p.PowerWatts }},
	{"electricity_cost", func(p *model.JobParameters) *float64 { return &p.ElectricityCost }},
	{"bed_cost", func(p *model.JobParameters) *float64 { return &p.BedCost }},
	{"bed_lifespan", func(p *model.JobParameters) *float64 { return &p.BedLifespan }},
	{"nozzle_cost", func(p *model.JobParameters) *float64 { return &p.NozzleCost }},
	{"nozzle_lifespan_kg", func(p *model.JobParameters) *float64 { return &p.NozzleLifespanKg }},
	{"solvent_cost", func(p *model.JobParameters) *float64 { return &p.SolventCost }},
	{"solving_time", func(p *model.JobParameters) *float64 { return &p.SolvingTime }},
	{"tank_power", func(p *model.JobParameters) *float64 { return &p.TankPower }},
	{"finishing_materials", func(p *model.JobParameters) *float64 { return &p.FinishingMaterials }},
	{"markup_percent", func(p *model.JobParameters) *float64 { return &p.MarkupPercent }},
}

// ProfileStore saves named JobParameters snapshots into a kvstore.Store.
// Writes through one ProfileStore are serialized; separate processes sharing
// a store are not coordinated.
type ProfileStore struct {
	mu    sync.Mutex
	store kvstore.Store
}

// NewProfileStore wraps a settings store.
func NewProfileStore(store kvstore.Store) *ProfileStore {
	return &ProfileStore{store: store}
}

func profileKey(name, field string) string {
	return profileKeyPrefix + name + "_" + field
}

// ValidateProfileName reports whether name can be stored in the registry.
func ValidateProfileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyProfileName
	}
	if strings.Contains(name, registrySeparator) {
		return ErrInvalidProfileName
	}
	return nil
}

// Save writes every field of params under name, registers the name if it is
// new and flushes the store.
func (s *ProfileStore) Save(name string, params model.JobParameters) error {
	if err := ValidateProfileName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range textFields {
		s.store.Set(profileKey(name, f.key), *f.ptr(&params))
	}
	for _, f := range intFields {
		s.store.Set(profileKey(name, f.key), strconv.Itoa(*f.ptr(&params)))
	}
	for _, f := range floatFields {
		s.store.Set(profileKey(name, f.key), formatFloat(*f.ptr(&params)))
	}
	s.saveFilamentCosts(name, params.FilamentCosts)

	names := s.List()
	if !contains(names, name) {
		s.writeRegistry(append(names, name))
	}

	if err := s.store.Save(); err != nil {
		return fmt.Errorf("failed to save profile %q: %w", name, err)
	}
	return nil
}

func (s *ProfileStore) saveFilamentCosts(name string, costs map[int]float64) {
	ids := make([]int, 0, len(costs))
	for id := range costs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = strconv.Itoa(id)
		s.store.Set(profileKey(name, filamentCostField+idStrs[i]), formatFloat(costs[id]))
	}
	s.store.Set(profileKey(name, filamentIDsField), strings.Join(idStrs, ","))
}

// Load returns the parameters stored under name. When name is not a
// registered profile, current is returned unchanged with found=false.
// Absent or unparsable numbers load as their defaults. The business name is
// carried over from current.
func (s *ProfileStore) Load(name string, current model.JobParameters) (model.JobParameters, bool) {
	if name == "" || !s.Exists(name) {
		return current, false
	}

	params := model.DefaultJobParameters()
	params.BusinessName = current.BusinessName

	for _, f := range textFields {
		*f.ptr(&params) = s.store.Get(profileKey(name, f.key))
	}
	for _, f := range intFields {
		if v, ok := parseInt(s.store.Get(profileKey(name, f.key))); ok {
			*f.ptr(&params) = v
		}
	}
	for _, f := range floatFields {
		if v, ok := parseFloat(s.store.Get(profileKey(name, f.key))); ok {
			*f.ptr(&params) = v
		}
	}
	params.FilamentCosts = s.loadFilamentCosts(name)

	return params, true
}

// Get is Load for callers without current parameters. Unknown names report
// ErrProfileNotFound.
func (s *ProfileStore) Get(name string) (model.JobParameters, error) {
	params, found := s.Load(name, model.DefaultJobParameters())
	if !found {
		return model.JobParameters{}, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	return params, nil
}

func (s *ProfileStore) loadFilamentCosts(name string) map[int]float64 {
	raw := s.store.Get(profileKey(name, filamentIDsField))
	if raw == "" {
		return nil
	}

	var costs map[int]float64
	for _, item := range strings.Split(raw, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(item))
		if err != nil {
			continue
		}
		cost, ok := parseFloat(s.store.Get(profileKey(name, filamentCostField+strconv.Itoa(id))))
		if !ok {
			continue
		}
		if costs == nil {
			costs = make(map[int]float64)
		}
		costs[id] = cost
	}
	return costs
}

// Delete removes name from the registry and flushes. The profile's data keys
// stay in the store but are no longer reachable.
func (s *ProfileStore) Delete(name string) error {
	if name == "" {
		return ErrEmptyProfileName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	names := s.List()
	kept := names[:0]
	for _, n := range names {
		if n != name {
			kept = append(kept, n)
		}
	}
	s.writeRegistry(kept)

	if err := s.store.Save(); err != nil {
		return fmt.Errorf("failed to delete profile %q: %w", name, err)
	}
	return nil
}

// List returns the registered profile names in registration order.
func (s *ProfileStore) List() []string {
	raw := s.store.Get(ProfileRegistryKey)
	names := []string{}
	for _, item := range strings.Split(raw, registrySeparator) {
		if item == "" || contains(names, item) {
			continue
		}
		names = append(names, item)
	}
	return names
}

// Exists reports whether name is registered.
func (s *ProfileStore) Exists(name string) bool {
	return contains(s.List(), name)
}

func (s *ProfileStore) writeRegistry(names []string) {
	var b strings.Builder
	for _, n := range names {
		b.WriteString(n)
		b.WriteString(registrySeparator)
	}
	s.store.Set(ProfileRegistryKey, b.String())
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseInt also accepts "4.000000" as written by older stores.
func parseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	if f, ok := parseFloat(s); ok {
		return int(f), true
	}
	return 0, false
}
