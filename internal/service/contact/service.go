package contact

import (
	"context"
	"net/mail"
	"strings"

	"storefront/internal/domain"
	contactrepo "storefront/internal/repository/contact"
)

type Service struct {
	repo contactrepo.Repository
}

func New(repo contactrepo.Repository) *Service {
	return &Service{repo: repo}
}

type Input struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.Contact, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, id string) (*domain.Contact, error) {
	return s.repo.Get(ctx, userID, id)
}

func (s *Service) Create(ctx context.Context, userID string, in Input) (*domain.Contact, error) {
	c, err := in.toContact(userID)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) Update(ctx context.Context, userID, id string, in Input) (*domain.Contact, error) {
	c, err := in.toContact(userID)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return s.repo.Update(ctx, c)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

func (in Input) toContact(userID string) (domain.Contact, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Contact{}, domain.Invalid("name required")
	}
	email := strings.TrimSpace(in.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return domain.Contact{}, domain.Invalid("email is not valid")
		}
	}
	return domain.Contact{
		UserID: userID,
		Name:   name,
		Email:  email,
		Phone:  strings.TrimSpace(in.Phone),
	}, nil
}
