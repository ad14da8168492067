package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/romangod6/catalog-sitemap/internal/models"
	"github.com/romangod6/catalog-sitemap/internal/search"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS packages (
            id VARCHAR(100) PRIMARY KEY,
            name VARCHAR(255) UNIQUE NOT NULL,
            title TEXT,
            type VARCHAR(100) NOT NULL DEFAULT 'dataset',
            private BOOLEAN NOT NULL DEFAULT FALSE,
            metadata_modified VARCHAR(64) NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS resources (
            id VARCHAR(100) PRIMARY KEY,
            package_id VARCHAR(100) NOT NULL REFERENCES packages(id) ON DELETE CASCADE,
            name TEXT,
            last_modified VARCHAR(64),
            created VARCHAR(64) NOT NULL,
            position INTEGER NOT NULL DEFAULT 0
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

func (s *PostgresStore) UpsertPackage(ctx context.Context, pkg *models.Package) error {
	pkg.EnsureIDs()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
        INSERT INTO packages (id, name, title, type, private, metadata_modified)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (id) DO UPDATE SET
            name = EXCLUDED.name,
            title = EXCLUDED.title,
            type = EXCLUDED.type,
            private = EXCLUDED.private,
            metadata_modified = EXCLUDED.metadata_modified
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

	if _, err := tx.ExecContext(ctx, `DELETE FROM resources WHERE package_id = $1`, pkg.ID); err != nil {
		return err
	}
	for i, res := range pkg.Resources {
		_, err := tx.ExecContext(ctx, `
            INSERT INTO resources (id, package_id, name, last_modified, created, position)
            VALUES ($1, $2, $3, $4, $5, $6)
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

func (s *PostgresStore) CountPackages(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM packages`).Scan(&n)
	return n, err
}

func (s *PostgresStore) Search(ctx context.Context, q search.Query) (*search.Result, error) {
	where := `
        WHERE ($1 = '' OR type = $1)
          AND ($2 OR NOT private)
          AND ($3 = '' OR name ILIKE $3 OR title ILIKE $3)
    `
	pattern := textFilter(q.Q)

	result := &search.Result{}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM packages`+where,
		q.Type, q.IncludePrivate, pattern,
	).Scan(&result.Count); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT id, name, COALESCE(title, ''), type, private, metadata_modified
        FROM packages`+where+`
        ORDER BY name
        LIMIT $4 OFFSET $5
    `, q.Type, q.IncludePrivate, pattern, q.Rows, q.Start)
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

func (s *PostgresStore) attachResources(ctx context.Context, pkgs []models.Package) error {
	if len(pkgs) == 0 {
		return nil
	}

	byID := make(map[string]int, len(pkgs))
	ids := make([]string, 0, len(pkgs))
	for i, p := range pkgs {
		byID[p.ID] = i
		ids = append(ids, p.ID)
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT id, package_id, COALESCE(name, ''), COALESCE(last_modified, ''), created
        FROM resources
        WHERE package_id = ANY($1)
        ORDER BY package_id, position
    `, pq.Array(ids))
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

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
