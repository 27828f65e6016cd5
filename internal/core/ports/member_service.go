package ports

import (
	"context"

	"github.com/clubarcoiris/members-system/internal/core/domain"
)

type MemberService interface {
	List(ctx context.Context) ([]domain.Member, error)
	Get(ctx context.Context, id string) (*domain.Member, error)
}

// MemberRepository defines the interface for member persistence.
type MemberRepository interface {
	List(ctx context.Context) ([]domain.Member, error)
	FindByID(ctx context.Context, id string) (*domain.Member, error)
}
