package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Catalog struct {
	branches BranchRepository
	services ServiceRepository
}

func NewCatalog(branches BranchRepository, services ServiceRepository) *Catalog {
	return &Catalog{branches: branches, services: services}
}

// -- Branch --

func (c *Catalog) CreateBranch(ctx context.Context, b *Branch) error {
	if b.Name == "" {
		return fmt.Errorf("name is required")
	}
	if b.OperatingHours == "" {
		return fmt.Errorf("operating_hours is required")
	}
	return c.branches.Create(ctx, b)
}

func (c *Catalog) GetBranch(ctx context.Context, id uuid.UUID) (*Branch, error) {
	return c.branches.GetByID(ctx, id)
}

func (c *Catalog) ListBranches(ctx context.Context) ([]*Branch, error) {
	return c.branches.List(ctx)
}

func (c *Catalog) UpdateBranch(ctx context.Context, b *Branch) error {
	if b.Name == "" {
		return fmt.Errorf("name is required")
	}
	return c.branches.Update(ctx, b)
}

func (c *Catalog) DeleteBranch(ctx context.Context, id uuid.UUID) error {
	return c.branches.Delete(ctx, id)
}

// -- Service --

func (c *Catalog) CreateService(ctx context.Context, s *Service) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Duration <= 0 {
		return fmt.Errorf("duration must be a positive number of minutes")
	}
	return c.services.Create(ctx, s)
}

func (c *Catalog) GetService(ctx context.Context, id uuid.UUID) (*Service, error) {
	return c.services.GetByID(ctx, id)
}

func (c *Catalog) ListServices(ctx context.Context, activeOnly bool) ([]*Service, error) {
	return c.services.List(ctx, activeOnly)
}

func (c *Catalog) UpdateService(ctx context.Context, s *Service) error {
	if s.Duration <= 0 {
		return fmt.Errorf("duration must be a positive number of minutes")
	}
	return c.services.Update(ctx, s)
}

func (c *Catalog) DeleteService(ctx context.Context, id uuid.UUID) error {
	return c.services.Delete(ctx, id)
}
