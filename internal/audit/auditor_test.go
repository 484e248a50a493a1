package audit

import (
	"os"
	"testing"
)

func TestContactAuditorFlushAndHistory(t *testing.T) {
	auditor, err := NewContactAuditor(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create auditor: %v", err)
	}
	defer auditor.Close()

	if err := auditor.LogContactAction(AuditActionCreate, 7, map[string]interface{}{"name": "Ann"}); err != nil {
		t.Fatalf("Failed to log create: %v", err)
	}
	if err := auditor.LogContactAction(AuditActionFavorite, 7, map[string]interface{}{"favorite": true}); err != nil {
		t.Fatalf("Failed to log favorite: %v", err)
	}
	if err := auditor.LogContactAction(AuditActionDelete, 8, nil); err != nil {
		t.Fatalf("Failed to log delete: %v", err)
	}

	history, err := auditor.GetContactHistory(7)
	if err != nil {
		t.Fatalf("Failed to read history: %v", err)
	}

	if len(history) != 2 {
		t.Fatalf("Expected 2 entries for contact 7, got %d", len(history))
	}
	if history[0].Action != AuditActionCreate || history[1].Action != AuditActionFavorite {
		t.Errorf("Unexpected actions: %s, %s", history[0].Action, history[1].Action)
	}
	if history[0].ID == history[1].ID {
		t.Errorf("Expected distinct entry IDs, both were %s", history[0].ID)
	}
}

func TestContactAuditorFlushesFullBatch(t *testing.T) {
	auditor, err := NewContactAuditor(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create auditor: %v", err)
	}
	defer auditor.Close()

	for i := 0; i < auditor.batchSize; i++ {
		if err := auditor.LogContactAction(AuditActionImport, 0, nil); err != nil {
			t.Fatalf("Failed to log: %v", err)
		}
	}

	info, err := os.Stat(auditor.LogFile())
	if err != nil {
		t.Fatalf("Expected log file after a full batch: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected a non-empty log file")
	}
}

func TestGetContactHistoryWithoutFile(t *testing.T) {
	auditor, err := NewContactAuditor(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create auditor: %v", err)
	}
	defer auditor.Close()

	history, err := auditor.GetContactHistory(1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(history) != 0 {
		t.Errorf("Expected empty history, got %d entries", len(history))
	}
}
