package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shilohridge/backend/internal/cache"
	"shilohridge/backend/internal/domain"
	"shilohridge/backend/internal/store"
)

func (s *Service) CreateInventoryItem(ctx context.Context, req domain.InventoryCreateRequest) (domain.InventoryItem, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.InventoryItem{}, err
	}

	req.AnimalID = strings.TrimSpace(req.AnimalID)
	req.AnimalType = strings.ToLower(strings.TrimSpace(req.AnimalType))
	req.Breed = strings.TrimSpace(req.Breed)
	if req.AnimalID == "" || req.AnimalType == "" || req.Breed == "" {
		return domain.InventoryItem{}, fmt.Errorf("%w: animal_id, animal_type and breed are required", store.ErrValidation)
	}

	if _, err := s.repo.GetInventoryItemByAnimalID(ctx, req.AnimalID); err == nil {
		return domain.InventoryItem{}, fmt.Errorf("%w: animal id %s already exists", store.ErrValidation, req.AnimalID)
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.InventoryItem{}, err
	}

	status := defaultString(req.Status, domain.InventoryStatusAvailable)
	if !isValidInventoryStatus(status) {
		return domain.InventoryItem{}, fmt.Errorf("%w: unknown inventory status %q", store.ErrValidation, status)
	}

	now := time.Now().UTC()
	item := domain.InventoryItem{
		ID:                 uuid.NewString(),
		AnimalID:           req.AnimalID,
		AnimalType:         req.AnimalType,
		Breed:              req.Breed,
		Bloodline:          strings.TrimSpace(req.Bloodline),
		Sex:                strings.TrimSpace(req.Sex),
		BirthType:          strings.TrimSpace(req.BirthType),
		DateOfBirth:        strings.TrimSpace(req.DateOfBirth),
		RegistrationNumber: strings.TrimSpace(req.RegistrationNumber),
		SireName:           strings.TrimSpace(req.SireName),
		SireTag:            strings.TrimSpace(req.SireTag),
		DamName:            strings.TrimSpace(req.DamName),
		DamTag:             strings.TrimSpace(req.DamTag),
		CurrentWeight:      req.CurrentWeight,
		WeightUnit:         defaultString(req.WeightUnit, "lbs"),
		Status:             status,
		HealthRecords:      []domain.HealthRecord{},
		SalePrice:          req.SalePrice,
		EstimatedValue:     req.EstimatedValue,
		BlockchainID:       strings.TrimSpace(req.BlockchainID),
		Location:           strings.TrimSpace(req.Location),
		Notes:              strings.TrimSpace(req.Notes),
		Photos:             req.Photos,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if item.Photos == nil {
		item.Photos = []string{}
	}

	created, err := s.repo.CreateInventoryItem(ctx, item)
	if err != nil {
		return domain.InventoryItem{}, err
	}

	s.logAudit(ctx, "inventory_create", "inventory", created.ID, fmt.Sprintf("animal_id=%s,type=%s", created.AnimalID, created.AnimalType))
	return *created, nil
}

func (s *Service) GetInventoryItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: inventory id required", store.ErrValidation)
	}
	return s.repo.GetInventoryItem(ctx, id)
}

func (s *Service) ListInventory(ctx context.Context, filter domain.InventoryFilter) ([]domain.InventoryItem, error) {
	filter.Status = strings.TrimSpace(filter.Status)
	if filter.Status != "" && !isValidInventoryStatus(filter.Status) {
		return nil, fmt.Errorf("%w: unknown inventory status %q", store.ErrValidation, filter.Status)
	}
	return s.repo.ListInventory(ctx, filter)
}

// UpdateInventoryItem replaces the mutable fields of a unit. The animal_id
// stays unique across the herd.
func (s *Service) UpdateInventoryItem(ctx context.Context, id string, req domain.InventoryCreateRequest) (domain.InventoryItem, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.InventoryItem{}, err
	}

	existing, err := s.GetInventoryItem(ctx, id)
	if err != nil {
		return domain.InventoryItem{}, err
	}

	req.AnimalID = strings.TrimSpace(req.AnimalID)
	if req.AnimalID != "" && req.AnimalID != existing.AnimalID {
		if _, err := s.repo.GetInventoryItemByAnimalID(ctx, req.AnimalID); err == nil {
			return domain.InventoryItem{}, fmt.Errorf("%w: animal id %s already exists", store.ErrValidation, req.AnimalID)
		} else if !errors.Is(err, store.ErrNotFound) {
			return domain.InventoryItem{}, err
		}
		existing.AnimalID = req.AnimalID
	}

	status := defaultString(req.Status, existing.Status)
	if !isValidInventoryStatus(status) {
		return domain.InventoryItem{}, fmt.Errorf("%w: unknown inventory status %q", store.ErrValidation, status)
	}

	updated := *existing
	updated.AnimalType = defaultString(strings.ToLower(req.AnimalType), existing.AnimalType)
	updated.Breed = defaultString(req.Breed, existing.Breed)
	updated.Bloodline = strings.TrimSpace(req.Bloodline)
	updated.Sex = defaultString(req.Sex, existing.Sex)
	updated.BirthType = defaultString(req.BirthType, existing.BirthType)
	updated.DateOfBirth = defaultString(req.DateOfBirth, existing.DateOfBirth)
	updated.RegistrationNumber = strings.TrimSpace(req.RegistrationNumber)
	updated.SireName = strings.TrimSpace(req.SireName)
	updated.SireTag = strings.TrimSpace(req.SireTag)
	updated.DamName = strings.TrimSpace(req.DamName)
	updated.DamTag = strings.TrimSpace(req.DamTag)
	if req.CurrentWeight != nil {
		updated.CurrentWeight = req.CurrentWeight
	}
	updated.WeightUnit = defaultString(req.WeightUnit, existing.WeightUnit)
	updated.Status = status
	if req.SalePrice != nil {
		updated.SalePrice = req.SalePrice
	}
	if req.EstimatedValue != nil {
		updated.EstimatedValue = req.EstimatedValue
	}
	updated.BlockchainID = strings.TrimSpace(req.BlockchainID)
	updated.Location = strings.TrimSpace(req.Location)
	updated.Notes = strings.TrimSpace(req.Notes)
	if req.Photos != nil {
		updated.Photos = req.Photos
	}
	updated.UpdatedAt = time.Now().UTC()

	saved, err := s.repo.UpdateInventoryItem(ctx, updated)
	if err != nil {
		return domain.InventoryItem{}, err
	}

	s.logAudit(ctx, "inventory_update", "inventory", saved.ID, fmt.Sprintf("status=%s", saved.Status))
	return *saved, nil
}

func (s *Service) DeleteInventoryItem(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: inventory id required", store.ErrValidation)
	}
	if err := s.repo.DeleteInventoryItem(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, "inventory_delete", "inventory", id, "")
	return nil
}

// SetInventoryStatus is the explicit status override. Any member of the
// enumerated set is accepted; no transition graph applies here.
func (s *Service) SetInventoryStatus(ctx context.Context, id string, status string) (domain.InventoryItem, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.InventoryItem{}, err
	}

	id = strings.TrimSpace(id)
	status = strings.ToLower(strings.TrimSpace(status))
	if id == "" {
		return domain.InventoryItem{}, fmt.Errorf("%w: inventory id required", store.ErrValidation)
	}
	if !isValidInventoryStatus(status) {
		return domain.InventoryItem{}, fmt.Errorf("%w: status must be one of available, weaned, breeding, market, sold, archived", store.ErrValidation)
	}

	updated, err := s.repo.SetInventoryStatus(ctx, id, status)
	if err != nil {
		return domain.InventoryItem{}, err
	}

	s.logAudit(ctx, "inventory_status_override", "inventory", updated.ID, fmt.Sprintf("status=%s", status))
	return *updated, nil
}

func (s *Service) AddHealthRecord(ctx context.Context, itemID string, req domain.HealthRecordRequest) (domain.HealthRecord, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.HealthRecord{}, err
	}

	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return domain.HealthRecord{}, fmt.Errorf("%w: inventory id required", store.ErrValidation)
	}
	if strings.TrimSpace(req.Type) == "" || strings.TrimSpace(req.Description) == "" {
		return domain.HealthRecord{}, fmt.Errorf("%w: health record type and description are required", store.ErrValidation)
	}

	record := domain.HealthRecord{
		ID:           uuid.NewString(),
		Date:         defaultString(req.Date, time.Now().UTC().Format("2006-01-02")),
		Type:         strings.TrimSpace(req.Type),
		Description:  strings.TrimSpace(req.Description),
		Veterinarian: strings.TrimSpace(req.Veterinarian),
		Cost:         req.Cost,
		Notes:        strings.TrimSpace(req.Notes),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.AddHealthRecord(ctx, itemID, record); err != nil {
		return domain.HealthRecord{}, err
	}

	s.logAudit(ctx, "health_record_add", "inventory", itemID, fmt.Sprintf("type=%s", record.Type))
	return record, nil
}

// InventorySummary groups the herd by animal_type x status in process:
// counts, total estimated value and average weight per bucket.
func (s *Service) InventorySummary(ctx context.Context) ([]domain.InventoryTypeSummary, error) {
	items, err := s.repo.ListInventory(ctx, domain.InventoryFilter{})
	if err != nil {
		return nil, err
	}

	type statusAgg struct {
		count       int
		totalValue  decimal.Decimal
		weightSum   decimal.Decimal
		weightCount int
	}
	byType := make(map[string]map[string]*statusAgg)

	for _, item := range items {
		statuses, ok := byType[item.AnimalType]
		if !ok {
			statuses = make(map[string]*statusAgg)
			byType[item.AnimalType] = statuses
		}
		agg, ok := statuses[item.Status]
		if !ok {
			agg = &statusAgg{totalValue: decimal.Zero, weightSum: decimal.Zero}
			statuses[item.Status] = agg
		}
		agg.count++
		if item.EstimatedValue != nil {
			agg.totalValue = agg.totalValue.Add(*item.EstimatedValue)
		}
		if item.CurrentWeight != nil {
			agg.weightSum = agg.weightSum.Add(*item.CurrentWeight)
			agg.weightCount++
		}
	}

	summaries := make([]domain.InventoryTypeSummary, 0, len(byType))
	for animalType, statuses := range byType {
		summary := domain.InventoryTypeSummary{
			AnimalType: animalType,
			Statuses:   make([]domain.InventoryStatusBreakdown, 0, len(statuses)),
			TotalValue: decimal.Zero,
		}
		for status, agg := range statuses {
			avgWeight := decimal.Zero
			if agg.weightCount > 0 {
				avgWeight = agg.weightSum.DivRound(decimal.NewFromInt(int64(agg.weightCount)), 2)
			}
			summary.Statuses = append(summary.Statuses, domain.InventoryStatusBreakdown{
				Status:     status,
				Count:      agg.count,
				TotalValue: agg.totalValue,
				AvgWeight:  avgWeight,
			})
			summary.TotalCount += agg.count
			summary.TotalValue = summary.TotalValue.Add(agg.totalValue)
		}
		sort.Slice(summary.Statuses, func(i, j int) bool {
			return summary.Statuses[i].Status < summary.Statuses[j].Status
		})
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].AnimalType < summaries[j].AnimalType
	})

	return summaries, nil
}

func (s *Service) CreateLivestock(ctx context.Context, req domain.LivestockCreateRequest) (domain.Livestock, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Livestock{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Type = strings.ToLower(strings.TrimSpace(req.Type))
	if req.Name == "" || req.Type == "" {
		return domain.Livestock{}, fmt.Errorf("%w: name and type are required", store.ErrValidation)
	}

	now := time.Now().UTC()
	available := true
	if req.Available != nil {
		available = *req.Available
	}

	animal := domain.Livestock{
		ID:                 uuid.NewString(),
		Name:               req.Name,
		Type:               req.Type,
		Breed:              strings.TrimSpace(req.Breed),
		Description:        strings.TrimSpace(req.Description),
		DateOfBirth:        strings.TrimSpace(req.DateOfBirth),
		Weight:             req.Weight,
		Price:              req.Price,
		Available:          available,
		ImageURL:           strings.TrimSpace(req.ImageURL),
		TagNumber:          strings.TrimSpace(req.TagNumber),
		RegistrationNumber: strings.TrimSpace(req.RegistrationNumber),
		Sire:               strings.TrimSpace(req.Sire),
		Dam:                strings.TrimSpace(req.Dam),
		BirthType:          strings.TrimSpace(req.BirthType),
		Sex:                strings.TrimSpace(req.Sex),
		BloodPercentage:    req.BloodPercentage,
		CoatType:           strings.ToUpper(strings.TrimSpace(req.CoatType)),
		ParentsRegistered:  req.ParentsRegistered,
		Inspected:          req.Inspected,
		TransferInfo:       req.TransferInfo,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	created, err := s.repo.CreateLivestock(ctx, animal)
	if err != nil {
		return domain.Livestock{}, err
	}

	s.logAudit(ctx, "livestock_create", "livestock", created.ID, fmt.Sprintf("name=%s,type=%s", created.Name, created.Type))
	return *created, nil
}

func (s *Service) GetLivestock(ctx context.Context, id string) (*domain.Livestock, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: livestock id required", store.ErrValidation)
	}
	return s.repo.GetLivestock(ctx, id)
}

// PublicLivestock is the public gallery: available animals only, cache-backed.
func (s *Service) PublicLivestock(ctx context.Context) ([]domain.Livestock, error) {
	if snapshot, ok, err := s.catalog.Get(ctx, cache.KeyLivestock); err == nil && ok {
		return snapshot.Livestock, nil
	} else if err != nil {
		log.Printf("[service] WARN: livestock cache read failed: %v", err)
	}

	animals, err := s.repo.ListLivestock(ctx, true)
	if err != nil {
		return nil, err
	}

	if err := s.catalog.Set(ctx, cache.KeyLivestock, &domain.CatalogSnapshot{
		Livestock: animals,
		FetchedAt: time.Now().UTC(),
	}, s.cacheTTL); err != nil {
		log.Printf("[service] WARN: livestock cache write failed: %v", err)
	}

	return animals, nil
}

func (s *Service) ListLivestock(ctx context.Context, availableOnly bool) ([]domain.Livestock, error) {
	return s.repo.ListLivestock(ctx, availableOnly)
}

func (s *Service) UpdateLivestock(ctx context.Context, id string, req domain.LivestockCreateRequest) (domain.Livestock, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Livestock{}, err
	}

	existing, err := s.GetLivestock(ctx, id)
	if err != nil {
		return domain.Livestock{}, err
	}

	updated := *existing
	updated.Name = defaultString(req.Name, existing.Name)
	updated.Type = defaultString(strings.ToLower(req.Type), existing.Type)
	updated.Breed = defaultString(req.Breed, existing.Breed)
	updated.Description = strings.TrimSpace(req.Description)
	updated.DateOfBirth = defaultString(req.DateOfBirth, existing.DateOfBirth)
	if req.Weight != nil {
		updated.Weight = req.Weight
	}
	if req.Price != nil {
		updated.Price = req.Price
	}
	if req.Available != nil {
		updated.Available = *req.Available
	}
	updated.ImageURL = defaultString(req.ImageURL, existing.ImageURL)
	updated.TagNumber = defaultString(req.TagNumber, existing.TagNumber)
	updated.RegistrationNumber = strings.TrimSpace(req.RegistrationNumber)
	updated.Sire = defaultString(req.Sire, existing.Sire)
	updated.Dam = defaultString(req.Dam, existing.Dam)
	updated.BirthType = defaultString(req.BirthType, existing.BirthType)
	updated.Sex = defaultString(req.Sex, existing.Sex)
	if req.BloodPercentage != nil {
		updated.BloodPercentage = req.BloodPercentage
	}
	updated.CoatType = defaultString(strings.ToUpper(strings.TrimSpace(req.CoatType)), existing.CoatType)
	updated.ParentsRegistered = req.ParentsRegistered
	updated.Inspected = req.Inspected
	if req.TransferInfo != nil {
		updated.TransferInfo = req.TransferInfo
	}
	updated.UpdatedAt = time.Now().UTC()

	saved, err := s.repo.UpdateLivestock(ctx, updated)
	if err != nil {
		return domain.Livestock{}, err
	}

	s.logAudit(ctx, "livestock_update", "livestock", saved.ID, "")
	return *saved, nil
}

func (s *Service) DeleteLivestock(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: livestock id required", store.ErrValidation)
	}
	if err := s.repo.DeleteLivestock(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, "livestock_delete", "livestock", id, "")
	return nil
}

var (
	registrationThreshold = decimal.NewFromFloat(87.5)
	recordingThreshold    = decimal.NewFromInt(50)
)

// EvaluateRegistryCompliance applies the KHSI-style eligibility rules.
// Registration needs registered parents, coat type A or B, blood percentage
// at or above 87.5, a permanent tag number and a passed inspection; blood at
// or above 50 keeps an animal recording eligible.
func EvaluateRegistryCompliance(animal domain.Livestock) domain.RegistryCompliance {
	notes := make([]string, 0, 5)

	blood := decimal.Zero
	if animal.BloodPercentage != nil {
		blood = *animal.BloodPercentage
	}

	coatOK := animal.CoatType == "A" || animal.CoatType == "B"
	hasTag := strings.TrimSpace(animal.TagNumber) != ""
	if !animal.ParentsRegistered {
		notes = append(notes, "parents not registered")
	}
	if !coatOK {
		notes = append(notes, "coat type must be A or B")
	}
	if blood.LessThan(registrationThreshold) {
		notes = append(notes, fmt.Sprintf("blood percentage %s below registration threshold", blood.StringFixed(1)))
	}
	if !hasTag {
		notes = append(notes, "permanent tag number required")
	}
	if !animal.Inspected {
		notes = append(notes, "inspection not passed")
	}

	compliance := domain.RegistryCompliance{
		Notes:             notes,
		InspectionPending: !animal.Inspected,
	}

	switch {
	case animal.ParentsRegistered && coatOK && hasTag && animal.Inspected &&
		blood.GreaterThanOrEqual(registrationThreshold):
		compliance.Status = domain.ComplianceRegistrationEligible
	case blood.GreaterThanOrEqual(recordingThreshold):
		compliance.Status = domain.ComplianceRecordingEligible
	default:
		compliance.Status = domain.ComplianceNotEligible
	}

	return compliance
}

func isValidInventoryStatus(status string) bool {
	switch status {
	case domain.InventoryStatusAvailable, domain.InventoryStatusWeaned,
		domain.InventoryStatusBreeding, domain.InventoryStatusMarket,
		domain.InventoryStatusSold, domain.InventoryStatusArchived:
		return true
	default:
		return false
	}
}
