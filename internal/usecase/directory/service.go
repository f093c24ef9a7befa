package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/record"
)

// Detail is a record profile plus the address contact requests go to.
type Detail struct {
	Record       record.Record
	ContactEmail string
}

// Service serves record detail pages.
type Service struct {
	repo         Repository
	offices      map[string]string
	defaultEmail string
}

// New creates a directory service. offices maps office labels to contact
// emails; labels match case-insensitively.
func New(repo Repository, offices map[string]string, defaultEmail string) *Service {
	norm := make(map[string]string, len(offices))
	for label, email := range offices {
		norm[officeKey(label)] = strings.TrimSpace(email)
	}
	return &Service{repo: repo, offices: norm, defaultEmail: strings.TrimSpace(defaultEmail)}
}

// Get returns an active record. Inactive records are reported as not found.
func (s *Service) Get(ctx context.Context, id string) (Detail, error) {
	if strings.TrimSpace(id) == "" {
		return Detail{}, domain.ErrNotFound
	}
	r, err := s.repo.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return Detail{}, err
	}
	if err != nil {
		return Detail{}, fmt.Errorf("%w: get record: %w", domain.ErrStoreUnavailable, err)
	}
	if !r.Active() {
		return Detail{}, domain.ErrNotFound
	}
	return Detail{Record: r, ContactEmail: s.ContactFor(r.Office())}, nil
}

// ContactFor returns the contact email of an office, or the default address.
func (s *Service) ContactFor(office string) string {
	if email, ok := s.offices[officeKey(office)]; ok && email != "" {
		return email
	}
	return s.defaultEmail
}

func officeKey(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
