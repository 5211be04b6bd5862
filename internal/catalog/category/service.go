// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/worldtravels/internal/platform/ctxutil"
	"github.com/taibuivan/worldtravels/internal/platform/validate"
	"github.com/taibuivan/worldtravels/pkg/slug"
	"github.com/taibuivan/worldtravels/pkg/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (service *Service) ListCategories(context context.Context) ([]*Category, error) {
	return service.repo.List(context)
}

func (service *Service) GetCategory(context context.Context, id string) (*Category, error) {
	return service.repo.FindByID(context, id)
}

// CreateCategory stores a new category. The slug is derived from the name.
func (service *Service) CreateCategory(context context.Context, input Input) (*Category, error) {
	name, description, categorySlug, err := prepare(input)
	if err != nil {
		return nil, err
	}

	category := &Category{
		ID:          uuid.New(),
		Name:        name,
		Slug:        categorySlug,
		Description: description,
	}
	if err := service.repo.Create(context, category); err != nil {
		return nil, fmt.Errorf("category_service_create_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "category_created",
		slog.String("category_id", category.ID),
		slog.String("slug", category.Slug),
	)
	return category, nil
}

func (service *Service) UpdateCategory(context context.Context, id string, input Input) (*Category, error) {
	name, description, categorySlug, err := prepare(input)
	if err != nil {
		return nil, err
	}

	category, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("category_service_update_lookup_failed: %w", err)
	}

	category.Name, category.Slug, category.Description = name, categorySlug, description
	if err := service.repo.Update(context, category); err != nil {
		return nil, fmt.Errorf("category_service_update_failed: %w", err)
	}
	return category, nil
}

func (service *Service) DeleteCategory(context context.Context, id string) error {
	if err := service.repo.Delete(context, id); err != nil {
		return fmt.Errorf("category_service_delete_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "category_deleted", slog.String("category_id", id))
	return nil
}

func prepare(input Input) (name, description, categorySlug string, err error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)

	if err := validate.Struct(input); err != nil {
		return "", "", "", err
	}

	// Names made only of symbols produce no slug.
	categorySlug = slug.From(input.Name)
	validator := &validate.Validator{}
	if err := validator.Custom("name", categorySlug == "", "Must contain letters or digits").Err(); err != nil {
		return "", "", "", err
	}

	return input.Name, input.Description, categorySlug, nil
}
