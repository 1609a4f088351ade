package dashboard

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lorasim/internal/report"
)

func TestRender(t *testing.T) {
	t.Setenv("GREPTIMEDB_DATASOURCE_UID", "ds-123")
	dir := t.TempDir()
	if err := Render(dir, Data{Tables: report.DefaultTables()}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "lorasim-dashboard.json"))
	if err != nil {
		t.Fatalf("read rendered dashboard: %v", err)
	}
	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("rendered dashboard is not valid JSON: %v", err)
	}
	if parsed["title"] != "lorasim KPIs" {
		t.Fatalf("unexpected title %v", parsed["title"])
	}
	s := string(data)
	if !strings.Contains(s, "ds-123") || !strings.Contains(s, "lorasim_packet_delays") {
		t.Fatalf("template values missing: %s", s)
	}
}
