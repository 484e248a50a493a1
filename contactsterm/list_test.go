package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rhystmorgan/contactsterm/internal/models"
)

func strPtr(s string) *string {
	return &s
}

func TestWriteContacts(t *testing.T) {
	var buf bytes.Buffer
	writeContacts(&buf, []models.Contact{
		{ID: 3, Name: "Ann", Phone: strPtr("111"), Favorite: true},
		{ID: 2, Name: "Bob", Email: strPtr("bob@example.com")},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %q", len(lines), buf.String())
	}

	if !strings.Contains(lines[0], "★ Ann") || !strings.Contains(lines[0], "111") {
		t.Errorf("Unexpected first line %q", lines[0])
	}
	if !strings.Contains(lines[1], " - ") || !strings.HasSuffix(lines[1], "bob@example.com") {
		t.Errorf("Unexpected second line %q", lines[1])
	}
	if lines[2] != "2 contacts" {
		t.Errorf("Expected count line, got %q", lines[2])
	}
}

func TestWriteContactsEmpty(t *testing.T) {
	var buf bytes.Buffer
	writeContacts(&buf, nil)

	if buf.String() != "no contacts\n" {
		t.Errorf("Expected 'no contacts', got %q", buf.String())
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCmd(&app{})

	for _, name := range []string{"list", "import", "serve"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("Expected subcommand %q, got %v (%v)", name, cmd, err)
		}
	}

	for _, flag := range []string{"db", "import-url", "log-level"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("Expected persistent flag --%s", flag)
		}
	}
}

func TestListCommandAgainstTempDatabase(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("CONTACTSTERM_DATA_DIR", dataDir)
	t.Setenv("CONTACTSTERM_AUDIT", "false")

	var out bytes.Buffer
	if err := run([]string{"list", "--favorites", "--db", dataDir + "/contacts.db"}, &out); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if !strings.Contains(out.String(), "Trần Thị B") || !strings.Contains(out.String(), "1 contact") {
		t.Errorf("Unexpected output %q", out.String())
	}
}

func TestFailedImportStillFlushesAudit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	dataDir := t.TempDir()
	t.Setenv("CONTACTSTERM_DATA_DIR", dataDir)
	t.Setenv("CONTACTSTERM_AUDIT", "true")

	var out bytes.Buffer
	err := run([]string{"import", server.URL}, &out)
	if err == nil {
		t.Fatal("Expected import against a failing server to return an error")
	}

	files, globErr := filepath.Glob(filepath.Join(dataDir, "audit", "contact_audit_*.log"))
	if globErr != nil || len(files) != 1 {
		t.Fatalf("Expected one audit file, got %v (%v)", files, globErr)
	}

	data, readErr := os.ReadFile(files[0])
	if readErr != nil {
		t.Fatalf("Failed to read audit file: %v", readErr)
	}
	if !strings.Contains(string(data), `"action":"seed"`) {
		t.Errorf("Expected the seed entry to be flushed, got %q", string(data))
	}
}

func TestEnvImportURLOverriddenByFlag(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("CONTACTSTERM_DATA_DIR", dataDir)
	t.Setenv("CONTACTSTERM_AUDIT", "false")
	t.Setenv("CONTACTSTERM_IMPORT_URL", "not a url")

	var out bytes.Buffer
	if err := run([]string{"list", "--import-url", "http://127.0.0.1:9/contacts"}, &out); err != nil {
		t.Fatalf("Expected the flag to replace the invalid env URL, got %v", err)
	}
}
