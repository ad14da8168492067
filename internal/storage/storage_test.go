package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/romangod6/catalog-sitemap/internal/models"
	"github.com/romangod6/catalog-sitemap/internal/search"
)

const testModified = "2024-01-02T03:04:05.000006"

func testPackage(name string, resources ...string) *models.Package {
	pkg := &models.Package{Name: name, Type: "dataset", MetadataModified: testModified}
	for _, r := range resources {
		pkg.Resources = append(pkg.Resources, models.Resource{Name: r, Created: testModified})
	}
	pkg.EnsureIDs()
	return pkg
}

func testSearchFiltersAndPages(t *testing.T, store Store) {
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := store.UpsertPackage(ctx, testPackage(fmt.Sprintf("dataset-%d", i), "data.csv")); err != nil {
			t.Fatalf("UpsertPackage: %v", err)
		}
	}
	private := testPackage("secret")
	private.Private = true
	if err := store.UpsertPackage(ctx, private); err != nil {
		t.Fatalf("UpsertPackage: %v", err)
	}
	harvest := testPackage("harvest-source")
	harvest.Type = "harvest"
	if err := store.UpsertPackage(ctx, harvest); err != nil {
		t.Fatalf("UpsertPackage: %v", err)
	}

	p := search.NewPager(store, 2, 0)
	got, err := p.All(ctx, search.Query{Q: search.MatchAll, Type: "dataset"})
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 public datasets, got %d", len(got))
	}
	if p.Requests() != 3 {
		t.Errorf("expected 3 page requests, got %d", p.Requests())
	}
	for i, pkg := range got {
		if want := fmt.Sprintf("dataset-%d", i); pkg.Name != want {
			t.Errorf("result %d = %s, want %s", i, pkg.Name, want)
		}
		if len(pkg.Resources) != 1 {
			t.Errorf("%s: expected 1 resource, got %d", pkg.Name, len(pkg.Resources))
		}
	}

	n, err := store.CountPackages(ctx)
	if err != nil {
		t.Fatalf("CountPackages: %v", err)
	}
	if n != 7 {
		t.Errorf("expected 7 packages, got %d", n)
	}
}

func testUpsertReplacesResources(t *testing.T, store Store) {
	ctx := context.Background()

	pkg := testPackage("air-quality", "a.csv", "b.csv")
	if err := store.UpsertPackage(ctx, pkg); err != nil {
		t.Fatalf("UpsertPackage: %v", err)
	}

	pkg.Resources = pkg.Resources[:1]
	pkg.Resources[0].LastModified = "2024-05-05T05:05:05.000005"
	if err := store.UpsertPackage(ctx, pkg); err != nil {
		t.Fatalf("UpsertPackage: %v", err)
	}

	res, err := store.Search(ctx, search.Query{Q: "air", Rows: 10})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Count != 1 || len(res.Results) != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	got := res.Results[0].Resources
	if len(got) != 1 || got[0].LastModified != "2024-05-05T05:05:05.000005" {
		t.Errorf("unexpected resources %+v", got)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("oracle", ""); err == nil {
		t.Fatal("expected error")
	}
}
