// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/worldtravels/internal/platform/apperr"
	"github.com/taibuivan/worldtravels/internal/platform/database/schema"
	"github.com/taibuivan/worldtravels/internal/platform/dberr"
)

const resource = "Category"

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func selectColumns() string {
	return strings.Join(schema.CatalogCategory.Columns(), ", ")
}

func (repository *PostgresRepository) List(context context.Context) ([]*Category, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY %s ASC;
	`,
		selectColumns(),
		schema.CatalogCategory.Table,
		schema.CatalogCategory.Name,
	)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, resource, "list_categories")
	}
	defer rows.Close()

	categories := []*Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, dberr.Wrap(err, resource, "scan_category")
		}
		categories = append(categories, category)
	}

	return categories, dberr.Wrap(rows.Err(), resource, "iterate_categories")
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Category, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1;
	`,
		selectColumns(),
		schema.CatalogCategory.Table,
		schema.CatalogCategory.ID,
	)

	category, err := scanCategory(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resource, "get_category")
	}
	return category, nil
}

func (repository *PostgresRepository) Create(context context.Context, category *Category) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6);
	`,
		schema.CatalogCategory.Table,
		selectColumns(),
	)

	now := time.Now().UTC()
	category.CreatedAt, category.UpdatedAt = now, now

	_, err := repository.db.Exec(context, query,
		category.ID, category.Name, category.Slug, category.Description, category.CreatedAt, category.UpdatedAt)
	return dberr.Wrap(err, resource, "create_category")
}

func (repository *PostgresRepository) Update(context context.Context, category *Category) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1
		RETURNING %s;
	`,
		schema.CatalogCategory.Table,
		schema.CatalogCategory.Name,
		schema.CatalogCategory.Slug,
		schema.CatalogCategory.Description,
		schema.CatalogCategory.UpdatedAt,
		schema.CatalogCategory.ID,
		schema.CatalogCategory.CreatedAt,
	)

	category.UpdatedAt = time.Now().UTC()

	err := repository.db.QueryRow(context, query,
		category.ID, category.Name, category.Slug, category.Description, category.UpdatedAt,
	).Scan(&category.CreatedAt)
	return dberr.Wrap(err, resource, "update_category")
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1;`,
		schema.CatalogCategory.Table,
		schema.CatalogCategory.ID,
	)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, resource, "delete_category")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}

func scanCategory(row pgx.Row) (*Category, error) {
	category := &Category{}
	err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.Description,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return category, nil
}
