package catalog

import (
	"context"

	"github.com/google/uuid"
)

// BranchRepository defines storage operations for branches. GetByID returns
// (nil, nil) when no branch matches.
type BranchRepository interface {
	Create(ctx context.Context, b *Branch) error
	GetByID(ctx context.Context, id uuid.UUID) (*Branch, error)
	List(ctx context.Context) ([]*Branch, error)
	Update(ctx context.Context, b *Branch) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ServiceRepository defines storage operations for services. GetByID returns
// (nil, nil) when no service matches.
type ServiceRepository interface {
	Create(ctx context.Context, s *Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*Service, error)
	List(ctx context.Context, activeOnly bool) ([]*Service, error)
	Update(ctx context.Context, s *Service) error
	Delete(ctx context.Context, id uuid.UUID) error
}
