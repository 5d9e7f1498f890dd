package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/threat-exposure/internal/events"
	"github.com/example/threat-exposure/internal/exposure"
)

func TestReportCommandSummarisesExposure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "exposure.json")
	summaryPath := filepath.Join(dir, "summary", "stats.json")

	report := exposure.NewReport()
	report.Set("models/api.json", exposure.Result{Score: 5.5, ThreatCount: 2})
	report.Set("models/web.json", exposure.Result{Score: 8, ThreatCount: 1})
	report.Set("models/empty.json", exposure.Result{})
	if err := report.WriteFile(input); err != nil {
		t.Fatalf("write report: %v", err)
	}

	stdout, _, err := executeRoot(t, "report", "--input", input, "--summary-file", summaryPath)
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}

	firstLine := strings.SplitN(stdout, "\n", 2)[0]
	var evt events.Event
	if err := json.Unmarshal([]byte(firstLine), &evt); err != nil {
		t.Fatalf("parse event: %v", err)
	}
	if evt.Type != events.TypeReportSummary {
		t.Fatalf("unexpected event type %s", evt.Type)
	}
	if evt.Fields["models"] != 3.0 || evt.Fields["totalThreats"] != 3.0 || evt.Fields["totalScore"] != 13.5 {
		t.Fatalf("unexpected totals: %#v", evt.Fields)
	}
	top, ok := evt.Fields["highestExposure"].(map[string]interface{})
	if !ok || top["path"] != "models/web.json" || top["score"] != 8.0 {
		t.Fatalf("unexpected highest exposure: %#v", evt.Fields["highestExposure"])
	}

	if !strings.Contains(stdout, "Summary written to "+summaryPath) {
		t.Fatalf("expected summary confirmation, got:\n%s", stdout)
	}

	data, err := os.ReadFile(summaryPath)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	var summary map[string]interface{}
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatalf("parse summary: %v", err)
	}
	if summary["input"] != input || summary["averageScore"] != 4.5 {
		t.Fatalf("unexpected summary: %#v", summary)
	}
}

func TestReportStatsEmpty(t *testing.T) {
	stats := reportStats(exposure.NewReport())
	if stats["models"] != 0 || stats["averageScore"] != 0.0 {
		t.Fatalf("unexpected stats: %#v", stats)
	}
	if _, ok := stats["highestExposure"]; ok {
		t.Fatal("empty report has no highest exposure")
	}
}

func TestReportCommandErrors(t *testing.T) {
	if _, _, err := executeRoot(t, "report"); err == nil {
		t.Fatal("expected error when --input is missing")
	}

	if _, _, err := executeRoot(t, "report", "--input", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing input")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`{"a": "not a result"}`), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, _, err := executeRoot(t, "report", "--input", bad); err == nil {
		t.Fatal("expected error for malformed report")
	}
}
