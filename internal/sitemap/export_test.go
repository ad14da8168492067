package sitemap

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/romangod6/catalog-sitemap/internal/models"
)

func exportDoc() *models.URLSet {
	doc := models.NewURLSet()
	doc.Add(testSite+"/", "")
	doc.Add(testSite+"/dataset/roads", "2024-01-02T03:04:05.123456")
	doc.Add(testSite+"/dataset/roads/resource/r1", "not a date")
	return doc
}

func TestExportTXT(t *testing.T) {
	out, err := Export(exportDoc(), FormatTXT)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	want := testSite + "/\n" +
		testSite + "/dataset/roads\n" +
		testSite + "/dataset/roads/resource/r1\n"
	if string(out) != want {
		t.Errorf("unexpected txt export:\n%s", out)
	}
}

func TestExportJSON(t *testing.T) {
	out, err := Export(exportDoc(), FormatJSON)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var payload struct {
		Count int `json:"count"`
		URLs  []struct {
			URL     string `json:"url"`
			LastMod string `json:"lastmod"`
		} `json:"urls"`
	}
	if err := json.Unmarshal(out, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Count != 3 || len(payload.URLs) != 3 {
		t.Fatalf("expected 3 urls, got %+v", payload)
	}
	if payload.URLs[1].LastMod != "2024-01-02T03:04:05.123456Z" {
		t.Errorf("lastmod = %q", payload.URLs[1].LastMod)
	}
}

func TestExportHTML(t *testing.T) {
	out, err := Export(exportDoc(), FormatHTML)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.Contains(string(out), `href="`+testSite+`/dataset/roads"`) {
		t.Errorf("html export missing dataset link")
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	if _, err := Export(exportDoc(), "csv"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestParseLastMod(t *testing.T) {
	tests := []struct {
		in   string
		zero bool
	}{
		{"", true},
		{"garbage", true},
		{"2024-01-02", false},
		{"2024-01-02T03:04:05", false},
		{"2024-01-02T03:04:05.5+02:00", false},
	}
	for _, tt := range tests {
		if got := parseLastMod(tt.in); got.IsZero() != tt.zero {
			t.Errorf("parseLastMod(%q) = %v", tt.in, got)
		}
	}
}
