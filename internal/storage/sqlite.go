package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/romangod6/catalog-sitemap/internal/models"
	"github.com/romangod6/catalog-sitemap/internal/search"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS packages (
            id TEXT PRIMARY KEY,
            name TEXT UNIQUE NOT NULL,
            title TEXT,
            type TEXT NOT NULL DEFAULT 'dataset',
            private BOOLEAN NOT NULL DEFAULT 0,
            metadata_modified TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS resources (
            id TEXT PRIMARY KEY,
            package_id TEXT NOT NULL,
            name TEXT,
            last_modified TEXT,
            created TEXT NOT NULL,
            position INTEGER NOT NULL DEFAULT 0,
            FOREIGN KEY(package_id) REFERENCES packages(id) ON DELETE CASCADE
        )`,
		`CREATE INDEX IF NOT EXISTS idx_packages_type_private ON packages(type, private)`,
		`CREATE INDEX IF NOT EXISTS idx_resources_package_id ON resources(package_id)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return nil
}

func (s *SQLiteStore) UpsertPackage(ctx context.Context, pkg *models.Package) error {
	pkg.EnsureIDs()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
        INSERT INTO packages (id, name, title, type, private, metadata_modified)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            name = excluded.name,
            title = excluded.title,
            type = excluded.type,
            private = excluded.private,
            metadata_modified = excluded.metadata_modified
    `
	if _, err := tx.ExecContext(ctx, query,
		pkg.ID,
		pkg.Name,
		pkg.Title,
		packageType(pkg),
		pkg.Private,
		pkg.MetadataModified,
	); err != nil {
		return fmt.Errorf("upsert package %s: %w", pkg.Name, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM resources WHERE package_id = ?`, pkg.ID); err != nil {
		return err
	}
	for i, res := range pkg.Resources {
		_, err := tx.ExecContext(ctx, `
            INSERT INTO resources (id, package_id, name, last_modified, created, position)
            VALUES (?, ?, ?, ?, ?, ?)
        `,
			res.ID,
			pkg.ID,
			res.Name,
			nullIfEmpty(res.LastModified),
			res.Created,
			i,
		)
		if err != nil {
			return fmt.Errorf("insert resource %s: %w", res.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) CountPackages(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM packages`).Scan(&n)
	return n, err
}

func (s *SQLiteStore) Search(ctx context.Context, q search.Query) (*search.Result, error) {
	where := `
        WHERE (? = '' OR type = ?)
          AND (? OR private = 0)
          AND (? = '' OR name LIKE ? OR title LIKE ?)
    `
	pattern := textFilter(q.Q)
	args := []interface{}{q.Type, q.Type, q.IncludePrivate, pattern, pattern, pattern}

	result := &search.Result{}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM packages`+where, args...).Scan(&result.Count); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT id, name, COALESCE(title, ''), type, private, metadata_modified
        FROM packages`+where+`
        ORDER BY name
        LIMIT ? OFFSET ?
    `, append(args, q.Rows, q.Start)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var pkg models.Package
		if err := rows.Scan(&pkg.ID, &pkg.Name, &pkg.Title, &pkg.Type, &pkg.Private, &pkg.MetadataModified); err != nil {
			return nil, err
		}
		result.Results = append(result.Results, pkg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachResources(ctx, result.Results); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *SQLiteStore) attachResources(ctx context.Context, pkgs []models.Package) error {
	if len(pkgs) == 0 {
		return nil
	}

	byID := make(map[string]int, len(pkgs))
	args := make([]interface{}, 0, len(pkgs))
	for i, p := range pkgs {
		byID[p.ID] = i
		args = append(args, p.ID)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(pkgs)), ",")

	rows, err := s.db.QueryContext(ctx, `
        SELECT id, package_id, COALESCE(name, ''), COALESCE(last_modified, ''), created
        FROM resources
        WHERE package_id IN (`+placeholders+`)
        ORDER BY package_id, position
    `, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var res models.Resource
		if err := rows.Scan(&res.ID, &res.PackageID, &res.Name, &res.LastModified, &res.Created); err != nil {
			return err
		}
		i := byID[res.PackageID]
		pkgs[i].Resources = append(pkgs[i].Resources, res)
	}
	return rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullIfEmpty(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}

func packageType(pkg *models.Package) string {
	if pkg.Type == "" {
		return "dataset"
	}
	return pkg.Type
}
