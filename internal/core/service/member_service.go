package service

import (
	"context"

	"github.com/clubarcoiris/members-system/internal/core/domain"
	"github.com/clubarcoiris/members-system/internal/core/ports"
)

type memberService struct {
	repo ports.MemberRepository
}

// NewMemberService returns a MemberService implementation.
func NewMemberService(repo ports.MemberRepository) ports.MemberService {
	return &memberService{repo: repo}
}

func (s *memberService) List(ctx context.Context) ([]domain.Member, error) {
	return s.repo.List(ctx)
}

func (s *memberService) Get(ctx context.Context, id string) (*domain.Member, error) {
	if id == "" {
		return nil, domain.ErrMemberNotFound
	}
	return s.repo.FindByID(ctx, id)
}
