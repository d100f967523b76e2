package service

import (
	"context"
	"errors"
	"strings"

	"github.com/fjod/go_food/internal/domain"
	"github.com/fjod/go_food/internal/repository"
)

type ProfileService struct {
	repo repository.ProfileRepository
}

func NewProfileService(repo repository.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// GetProfile returns an empty profile for users who never saved one.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	profile, err := s.repo.GetProfile(ctx, userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return &domain.UserProfile{UserID: userID}, nil
	}
	if err != nil {
		return nil, domain.Persistence("get profile", err)
	}
	return profile, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, p domain.UserProfile) (*domain.UserProfile, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if err := requireField("name", p.Name); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Phone) != "" {
		if err := validatePhone("phone", p.Phone); err != nil {
			return nil, err
		}
	}

	p.UserID = userID
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)
	if err := s.repo.SaveProfile(ctx, &p); err != nil {
		return nil, domain.Persistence("save profile", err)
	}
	return &p, nil
}

func (s *ProfileService) GetShippingAddress(ctx context.Context, userID string) (*domain.ShippingAddress, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	addr, err := s.repo.GetShippingAddress(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return nil, err
		}
		return nil, domain.Persistence("get shipping address", err)
	}
	return addr, nil
}

func (s *ProfileService) SaveShippingAddress(ctx context.Context, userID string, addr domain.ShippingAddress) (*domain.ShippingAddress, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	addr = domain.ShippingAddress{
		FullName: strings.TrimSpace(addr.FullName),
		Phone:    strings.TrimSpace(addr.Phone),
		Address:  strings.TrimSpace(addr.Address),
	}
	if err := validateShippingAddress(addr); err != nil {
		return nil, err
	}
	if err := s.repo.SaveShippingAddress(ctx, userID, addr); err != nil {
		return nil, domain.Persistence("save shipping address", err)
	}
	return &addr, nil
}
