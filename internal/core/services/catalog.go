package services

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"entity-linking-service/internal/catalog"
	"entity-linking-service/internal/core/domain"
	ports "entity-linking-service/internal/core/ports/output"
)

type CatalogService struct {
	repo    ports.CatalogRepository
	jobRepo ports.LinkingJobRepository
}

func NewCatalogService(repo ports.CatalogRepository, jobRepo ports.LinkingJobRepository) *CatalogService {
	return &CatalogService{repo: repo, jobRepo: jobRepo}
}

type RegisterCatalogRequest struct {
	ProjectID    uuid.UUID
	Name         string
	Description  string
	Path         string
	EncodingPath string
	TokenIDsPath string
	EncodingDim  int
}

func (s *CatalogService) Register(ctx context.Context, req RegisterCatalogRequest) (*domain.EntityCatalog, error) {
	cat, err := domain.NewEntityCatalog(req.ProjectID, req.Name, req.Path)
	if err != nil {
		return nil, err
	}
	cat.Description = req.Description
	cat.EncodingPath = req.EncodingPath
	cat.TokenIDsPath = req.TokenIDsPath
	cat.EncodingDim = req.EncodingDim

	if err := s.repo.Create(ctx, cat); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, req.ProjectID, cat.ID)
}

func (s *CatalogService) Get(ctx context.Context, projectID, id uuid.UUID) (*domain.EntityCatalog, error) {
	return s.repo.GetByID(ctx, projectID, id)
}

func (s *CatalogService) GetByName(ctx context.Context, projectID uuid.UUID, name string) (*domain.EntityCatalog, error) {
	return s.repo.GetByName(ctx, projectID, name)
}

func (s *CatalogService) List(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*domain.EntityCatalog, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.List(ctx, projectID, limit, offset)
}

// Validate loads the catalogue and stats its companion artifacts. The full
// JSONL parse dominates, so the artifact checks run alongside it.
func (s *CatalogService) Validate(ctx context.Context, projectID, id uuid.UUID) (*domain.EntityCatalog, error) {
	cat, err := s.repo.GetByID(ctx, projectID, id)
	if err != nil {
		return nil, err
	}

	var loaded *catalog.Catalog
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		loaded, err = catalog.Load(gctx, cat.Path)
		return err
	})
	if cat.EncodingPath != "" {
		g.Go(func() error {
			if _, err := os.Stat(cat.EncodingPath); err != nil {
				return fmt.Errorf("entity encoding: %w", err)
			}
			return nil
		})
	}
	if cat.TokenIDsPath != "" {
		g.Go(func() error {
			if _, err := os.Stat(cat.TokenIDsPath); err != nil {
				return fmt.Errorf("entity token ids: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cat.RecordValidation(loaded.Len(), loaded.MissingKBIDs)
	if err := s.repo.Update(ctx, projectID, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// Delete removes a catalog that no linking job references.
func (s *CatalogService) Delete(ctx context.Context, projectID, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, projectID, id); err != nil {
		return err
	}

	n, err := s.jobRepo.CountByCatalog(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrCatalogInUse
	}
	return s.repo.Delete(ctx, projectID, id)
}
