package models

import (
	"encoding/json"
	"testing"
)

func TestInventoryEntryTypeUnmarshal(t *testing.T) {
	var entryType InventoryEntryType
	if err := json.Unmarshal([]byte(`"Purchase"`), &entryType); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entryType != InventoryEntryTypePurchase {
		t.Fatalf("expected Purchase, got %s", entryType)
	}

	if err := json.Unmarshal([]byte(`"Teleport"`), &entryType); err == nil {
		t.Fatalf("expected an error for an unknown entry type")
	}
	if err := json.Unmarshal([]byte(`42`), &entryType); err == nil {
		t.Fatalf("expected an error for a non string value")
	}
}

func TestInventoryEntryStatusUnmarshal(t *testing.T) {
	var status InventoryEntryStatus
	if err := json.Unmarshal([]byte(`"Approved"`), &status); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != InventoryEntryStatusApproved {
		t.Fatalf("expected Approved, got %s", status)
	}
	if err := json.Unmarshal([]byte(`"Done"`), &status); err == nil {
		t.Fatalf("expected an error for an unknown status")
	}
}

func TestStatusIsTerminal(t *testing.T) {
	if !InventoryEntryStatusCompleted.IsTerminal() {
		t.Fatalf("Completed should be terminal")
	}
	if !InventoryEntryStatusCancelled.IsTerminal() {
		t.Fatalf("Cancelled should be terminal")
	}
	for _, s := range []InventoryEntryStatus{InventoryEntryStatusDraft, InventoryEntryStatusPending, InventoryEntryStatusApproved} {
		if s.IsTerminal() {
			t.Fatalf("%s should not be terminal", s)
		}
	}
}

func TestUserRoleUnmarshal(t *testing.T) {
	var role UserRole
	if err := json.Unmarshal([]byte(`"Driver"`), &role); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if role != UserRoleDriver {
		t.Fatalf("expected Driver, got %s", role)
	}
	if err := json.Unmarshal([]byte(`"Wizard"`), &role); err == nil {
		t.Fatalf("expected an error for an unknown role")
	}
}
