package service

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"shilohridge/backend/internal/domain"
	"shilohridge/backend/internal/store"
)

func TestCreateInventoryRejectsDuplicateAnimalID(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateInventoryItem(adminContext(), domain.InventoryCreateRequest{
		AnimalID:   "KT-101",
		AnimalType: "sheep",
		Breed:      "Katahdin",
	})
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected validation error for duplicate animal id, got %v", err)
	}
}

func TestSetInventoryStatusOverride(t *testing.T) {
	svc := newTestService(t)

	item, err := svc.SetInventoryStatus(adminContext(), "inv-101", domain.InventoryStatusArchived)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if item.Status != domain.InventoryStatusArchived {
		t.Fatalf("expected archived, got %s", item.Status)
	}

	if _, err := svc.SetInventoryStatus(adminContext(), "inv-101", "retired"); !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}

func TestAddHealthRecord(t *testing.T) {
	svc := newTestService(t)

	cost := decimal.RequireFromString("45.00")
	record, err := svc.AddHealthRecord(adminContext(), "inv-101", domain.HealthRecordRequest{
		Type:        "vaccination",
		Description: "CDT booster",
		Cost:        &cost,
	})
	if err != nil {
		t.Fatalf("add health record: %v", err)
	}
	if record.Date == "" {
		t.Fatalf("expected default date on health record")
	}

	item, err := svc.GetInventoryItem(adminContext(), "inv-101")
	if err != nil {
		t.Fatalf("get inventory: %v", err)
	}
	found := false
	for _, hr := range item.HealthRecords {
		if hr.ID == record.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected health record appended to unit")
	}

	if _, err := svc.AddHealthRecord(adminContext(), "inv-101", domain.HealthRecordRequest{Type: "vaccination"}); !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected validation error without description, got %v", err)
	}
}

func TestInventorySummaryGroupsByTypeAndStatus(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.CreateInventoryItem(adminContext(), domain.InventoryCreateRequest{
		AnimalID:   "HG-301",
		AnimalType: "hog",
		Breed:      "Berkshire",
		Status:     domain.InventoryStatusMarket,
	}); err != nil {
		t.Fatalf("create hog: %v", err)
	}

	summaries, err := svc.InventorySummary(adminContext())
	if err != nil {
		t.Fatalf("inventory summary: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected hog and sheep groups, got %d", len(summaries))
	}
	// Sorted by animal type.
	if summaries[0].AnimalType != "hog" || summaries[1].AnimalType != "sheep" {
		t.Fatalf("unexpected ordering %s, %s", summaries[0].AnimalType, summaries[1].AnimalType)
	}
	if summaries[1].TotalCount != 2 {
		t.Fatalf("expected 2 seeded sheep, got %d", summaries[1].TotalCount)
	}
}

func complianceAnimal(blood string, coat string, tag string, parentsRegistered bool, inspected bool) domain.Livestock {
	b := decimal.RequireFromString(blood)
	return domain.Livestock{
		BloodPercentage:   &b,
		CoatType:          coat,
		TagNumber:         tag,
		ParentsRegistered: parentsRegistered,
		Inspected:         inspected,
	}
}

func TestEvaluateRegistryCompliance(t *testing.T) {
	full := EvaluateRegistryCompliance(complianceAnimal("100", "A", "101", true, true))
	if full.Status != domain.ComplianceRegistrationEligible {
		t.Fatalf("expected registration eligible, got %s", full.Status)
	}
	if full.InspectionPending {
		t.Fatalf("inspected animal must not be inspection pending")
	}
	if len(full.Notes) != 0 {
		t.Fatalf("expected no notes for a fully compliant animal, got %v", full.Notes)
	}

	boundary := EvaluateRegistryCompliance(complianceAnimal("87.5", "B", "207", true, true))
	if boundary.Status != domain.ComplianceRegistrationEligible {
		t.Fatalf("87.5 blood with coat B must be registration eligible, got %s", boundary.Status)
	}

	recording := EvaluateRegistryCompliance(complianceAnimal("62.5", "A", "301", true, true))
	if recording.Status != domain.ComplianceRecordingEligible {
		t.Fatalf("62.5 blood is recording eligible only, got %s", recording.Status)
	}

	badCoat := EvaluateRegistryCompliance(complianceAnimal("93.75", "C", "302", true, true))
	if badCoat.Status != domain.ComplianceRecordingEligible {
		t.Fatalf("coat C blocks registration but not recording, got %s", badCoat.Status)
	}

	none := EvaluateRegistryCompliance(complianceAnimal("25", "A", "303", false, false))
	if none.Status != domain.ComplianceNotEligible {
		t.Fatalf("25 blood is not eligible, got %s", none.Status)
	}
}

func TestRegistryComplianceNeedsTagAndInspection(t *testing.T) {
	uninspected := EvaluateRegistryCompliance(complianceAnimal("100", "A", "101", true, false))
	if uninspected.Status != domain.ComplianceRecordingEligible {
		t.Fatalf("uninspected animal must not be registration eligible, got %s", uninspected.Status)
	}
	if !uninspected.InspectionPending {
		t.Fatalf("uninspected animal must be inspection pending")
	}

	untagged := EvaluateRegistryCompliance(complianceAnimal("100", "A", "", true, true))
	if untagged.Status != domain.ComplianceRecordingEligible {
		t.Fatalf("animal without a permanent tag must not be registration eligible, got %s", untagged.Status)
	}
	found := false
	for _, note := range untagged.Notes {
		if note == "permanent tag number required" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a missing-tag note, got %v", untagged.Notes)
	}
}

func TestPublicLivestockFiltersUnavailable(t *testing.T) {
	svc := newTestService(t)

	animals, err := svc.PublicLivestock(adminContext())
	if err != nil {
		t.Fatalf("public livestock: %v", err)
	}
	for _, animal := range animals {
		if !animal.Available {
			t.Fatalf("public gallery must not include unavailable animal %s", animal.ID)
		}
	}

	all, err := svc.ListLivestock(adminContext(), false)
	if err != nil {
		t.Fatalf("list livestock: %v", err)
	}
	if len(all) <= len(animals) {
		t.Fatalf("seed data includes an unavailable animal; full listing should be larger")
	}
}
