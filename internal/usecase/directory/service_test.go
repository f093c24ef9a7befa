package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/record"
)

// --- Mocks ---

type mockRepo struct {
	records map[string]record.Record
	err     error
}

func (m *mockRepo) Get(_ context.Context, id string) (record.Record, error) {
	if m.err != nil {
		return record.Record{}, m.err
	}
	r, ok := m.records[id]
	if !ok {
		return record.Record{}, domain.ErrNotFound
	}
	return r, nil
}

func newRepo() *mockRepo {
	return &mockRepo{records: map[string]record.Record{
		"a": record.Reconstruct(record.Attrs{ID: "a", FirstName: "Ann", LastName: "B", Office: "Midwest", Active: true}),
		"b": record.Reconstruct(record.Attrs{ID: "b", FirstName: "Bob", LastName: "C", Office: "Pacific", Active: true}),
		"x": record.Reconstruct(record.Attrs{ID: "x", FirstName: "Xi", LastName: "Y", Office: "Midwest", Active: false}),
	}}
}

// --- Tests ---

func TestGet_RoutesOfficeEmail(t *testing.T) {
	svc := New(newRepo(), map[string]string{" midwest ": "midwest@example.com"}, "talent@example.com")

	d, err := svc.Get(context.Background(), "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Record.ID() != "a" || d.ContactEmail != "midwest@example.com" {
		t.Errorf("unexpected detail %+v", d)
	}

	d, err = svc.Get(context.Background(), "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ContactEmail != "talent@example.com" {
		t.Errorf("expected default contact, got %q", d.ContactEmail)
	}
}

func TestGet_InactiveIsNotFound(t *testing.T) {
	svc := New(newRepo(), nil, "")
	_, err := svc.Get(context.Background(), "x")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_Missing(t *testing.T) {
	svc := New(newRepo(), nil, "")
	for _, id := range []string{"nope", " "} {
		if _, err := svc.Get(context.Background(), id); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Get(%q): expected ErrNotFound, got %v", id, err)
		}
	}
}

func TestGet_StoreError(t *testing.T) {
	boom := errors.New("boom")
	svc := New(&mockRepo{err: boom}, nil, "")
	_, err := svc.Get(context.Background(), "a")
	if !errors.Is(err, boom) || !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
}
