package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"ezwallet/internal/domain"
	"ezwallet/internal/dto"
	"ezwallet/internal/repository"
	"ezwallet/pkg/telemetry"
)

var (
	ErrCategoryExists   = errors.New("Category already exists")
	ErrCategoryNotFound = errors.New("Category does not exist")
	ErrLastCategory     = errors.New("Only one category remaining!")
)

// CategoryService defines operations on transaction categories
type CategoryService interface {
	// Create registers a new category type
	Create(ctx context.Context, req *dto.CategoryRequest) (*dto.CategoryInfo, error)
	// List returns every category
	List(ctx context.Context) ([]dto.CategoryInfo, error)
	// Update renames a category and repoints its transactions
	Update(ctx context.Context, oldType string, req *dto.CategoryRequest) (*dto.CountResult, error)
	// Delete removes categories, repointing their transactions to the oldest
	// surviving category. The last category in the system is never deleted.
	Delete(ctx context.Context, types []string) (*dto.CountResult, error)
}

type categoryService struct {
	categories   repository.CategoryRepository
	transactions repository.TransactionRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categories repository.CategoryRepository, transactions repository.TransactionRepository) CategoryService {
	return &categoryService{categories: categories, transactions: transactions}
}

// Create registers a new category type
func (s *categoryService) Create(ctx context.Context, req *dto.CategoryRequest) (*dto.CategoryInfo, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.category.create")
	defer span.End()

	if req.Type == "" || req.Color == "" {
		return nil, ErrMissingParameters
	}

	span.SetAttributes(attribute.String("category.type", req.Type))

	existing, err := s.categories.GetByType(ctx, req.Type)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if existing != nil {
		span.SetStatus(codes.Error, "category exists")
		return nil, ErrCategoryExists
	}

	category := &domain.Category{Type: req.Type, Color: req.Color, CreatedAt: time.Now().UTC()}
	if err := s.categories.Create(ctx, category); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return &dto.CategoryInfo{Type: category.Type, Color: category.Color}, nil
}

// List returns every category
func (s *categoryService) List(ctx context.Context) ([]dto.CategoryInfo, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.category.list")
	defer span.End()

	categories, err := s.categories.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	infos := make([]dto.CategoryInfo, 0, len(categories))
	for _, category := range categories {
		infos = append(infos, dto.CategoryInfo{Type: category.Type, Color: category.Color})
	}

	span.SetStatus(codes.Ok, "")
	return infos, nil
}

// Update renames a category and repoints its transactions
func (s *categoryService) Update(ctx context.Context, oldType string, req *dto.CategoryRequest) (*dto.CountResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.category.update")
	defer span.End()

	if req.Type == "" || req.Color == "" {
		return nil, ErrMissingParameters
	}

	span.SetAttributes(
		attribute.String("category.old_type", oldType),
		attribute.String("category.new_type", req.Type),
	)

	existing, err := s.categories.GetByType(ctx, oldType)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if existing == nil {
		span.SetStatus(codes.Error, "category not found")
		return nil, ErrCategoryNotFound
	}

	taken, err := s.categories.GetByType(ctx, req.Type)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if taken != nil {
		span.SetStatus(codes.Error, "category exists")
		return nil, ErrCategoryExists
	}

	count, err := s.transactions.Retype(ctx, oldType, req.Type)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.categories.Update(ctx, oldType, &domain.Category{Type: req.Type, Color: req.Color}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int64("transactions.retyped", count))
	span.SetStatus(codes.Ok, "")
	return &dto.CountResult{Message: "Category edited successfully", Count: count}, nil
}

// Delete removes categories, repointing their transactions to the oldest
// surviving category
func (s *categoryService) Delete(ctx context.Context, types []string) (*dto.CountResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.category.delete")
	defer span.End()

	if len(types) == 0 {
		return nil, ErrMissingParameters
	}

	total, err := s.categories.Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if total == 0 {
		span.SetStatus(codes.Error, "category not found")
		return nil, ErrCategoryNotFound
	}
	if total == 1 {
		span.SetStatus(codes.Error, "last category")
		return nil, ErrLastCategory
	}

	// Deleting every category keeps the oldest one alive.
	if total == len(types) {
		oldest, err := s.categories.Oldest(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		kept := make([]string, 0, len(types))
		dropped := false
		for _, t := range types {
			if !dropped && oldest != nil && t == oldest.Type {
				dropped = true
				continue
			}
			kept = append(kept, t)
		}
		types = kept
	}

	var count int64
	for _, t := range types {
		remaining, err := s.categories.Count(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if remaining > 1 {
			category, err := s.categories.GetByType(ctx, t)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}
			if category == nil {
				span.SetStatus(codes.Error, "category not found")
				return nil, ErrCategoryNotFound
			}
			if err := s.categories.Delete(ctx, t); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}
		}

		oldest, err := s.categories.Oldest(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		moved, err := s.transactions.Retype(ctx, t, oldest.Type)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		count += moved
	}

	span.SetAttributes(attribute.Int64("transactions.retyped", count))
	span.SetStatus(codes.Ok, "")
	return &dto.CountResult{Message: "Categories deleted", Count: count}, nil
}
