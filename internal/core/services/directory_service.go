package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"mealms-portal/internal/core/domain"
)

// DirectoryService holds the in-memory employee snapshot and reconciles it
// with the upstream system of record. The snapshot is authoritative for the
// UI until the next refresh; it is never partially mutated, and any failed
// operation leaves it exactly as it was.
type DirectoryService struct {
	gateway Gateway

	mu       sync.RWMutex
	snapshot []domain.Employee

	// One directory mutation may be in flight at a time. The guard also owns
	// the edit workflow, which only changes inside a mutation.
	mutMu    sync.Mutex
	workflow *domain.EditWorkflow
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(gateway Gateway) *DirectoryService {
	return &DirectoryService{
		gateway:  gateway,
		workflow: domain.NewEditWorkflow(),
	}
}

// List refreshes the snapshot from upstream and returns it.
// Ordering is whatever the upstream returned; search preserves it.
func (s *DirectoryService) List(ctx context.Context, bearer string) ([]domain.Employee, error) {
	employees, err := s.gateway.ListUsers(ctx, bearer)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.snapshot = employees
	s.mu.Unlock()

	return s.Snapshot(), nil
}

// Snapshot returns a copy of the last-loaded employee collection
func (s *DirectoryService) Snapshot() []domain.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Employee, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

// Search filters the snapshot case-insensitively by firstName or username
// substring. An empty term returns the full snapshot in original order.
// Purely local: no network involved.
func (s *DirectoryService) Search(term string) []domain.Employee {
	term = strings.ToLower(strings.TrimSpace(term))

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Employee, 0, len(s.snapshot))
	for _, e := range s.snapshot {
		if term == "" ||
			strings.Contains(strings.ToLower(e.FirstName), term) ||
			strings.Contains(strings.ToLower(e.Username), term) {
			out = append(out, e)
		}
	}
	return out
}

// Create registers a new employee upstream. On success the whole snapshot is
// refreshed rather than merging the returned record, so any server-side
// defaulting is reflected. On conflict the edit workflow drops back to
// Editing with the entered fields and the snapshot stays untouched.
func (s *DirectoryService) Create(ctx context.Context, bearer string, fields domain.EmployeeFields) (*domain.Employee, error) {
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	if !s.mutMu.TryLock() {
		return nil, domain.ErrMutationInFlight
	}
	defer s.mutMu.Unlock()

	s.workflow.BeginCreate()
	if err := s.workflow.Submit(fields); err != nil {
		return nil, err
	}

	created, err := s.gateway.Register(ctx, bearer, fields)
	if err != nil {
		s.settleFailure(err)
		return nil, err
	}
	s.workflow.Complete()

	if err := s.refresh(ctx, bearer); err != nil {
		return nil, err
	}

	log.Printf("✅ Employee created: %s", created.Username)
	return created, nil
}

// Update modifies an employee upstream, then refreshes the full snapshot.
// A stale id yields not-found; a uniqueness violation yields conflict with
// the local entry unchanged.
func (s *DirectoryService) Update(ctx context.Context, bearer, id string, fields domain.EmployeeFields) (*domain.Employee, error) {
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	if !s.mutMu.TryLock() {
		return nil, domain.ErrMutationInFlight
	}
	defer s.mutMu.Unlock()

	current, ok := s.find(id)
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}

	s.workflow.BeginEdit(current)
	if err := s.workflow.Submit(fields); err != nil {
		return nil, err
	}

	updated, err := s.gateway.UpdateUser(ctx, bearer, id, fields)
	if err != nil {
		s.settleFailure(err)
		return nil, err
	}
	s.workflow.Complete()

	if err := s.refresh(ctx, bearer); err != nil {
		return nil, err
	}

	log.Printf("✅ Employee updated: %s", updated.Username)
	return updated, nil
}

// Delete removes an employee. On acknowledgment the entry is dropped from the
// snapshot optimistically, without a full refresh, to keep the UI responsive.
func (s *DirectoryService) Delete(ctx context.Context, bearer, id string) error {
	if !s.mutMu.TryLock() {
		return domain.ErrMutationInFlight
	}
	defer s.mutMu.Unlock()

	if _, ok := s.find(id); !ok {
		return domain.ErrEmployeeNotFound
	}

	if err := s.gateway.DeleteUser(ctx, bearer, id); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.snapshot[:0]
	for _, e := range s.snapshot {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.snapshot = kept
	s.mu.Unlock()

	log.Printf("✅ Employee deleted: %s", id)
	return nil
}

// EditState exposes the current edit workflow state
func (s *DirectoryService) EditState() domain.EditState {
	return s.workflow.State()
}

// refresh reloads the snapshot after a successful mutation. The read runs on
// the same upstream session, so it reflects at least that mutation.
func (s *DirectoryService) refresh(ctx context.Context, bearer string) error {
	employees, err := s.gateway.ListUsers(ctx, bearer)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.snapshot = employees
	s.mu.Unlock()
	return nil
}

// settleFailure returns the workflow to Editing on a conflict (the operator
// corrects the form) and abandons it on anything else.
func (s *DirectoryService) settleFailure(err error) {
	if errors.Is(err, domain.ErrConflict) {
		s.workflow.Reject()
		return
	}
	s.workflow.Cancel()
}

func (s *DirectoryService) find(id string) (domain.Employee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.snapshot {
		if e.ID == id {
			return e, true
		}
	}
	return domain.Employee{}, false
}

func validateFields(f domain.EmployeeFields) error {
	if f.FirstName == "" {
		return fmt.Errorf("%w: first name is required", domain.ErrInvalidInput)
	}
	if f.LastName == "" {
		return fmt.Errorf("%w: last name is required", domain.ErrInvalidInput)
	}
	if f.MobileNumber == "" {
		return fmt.Errorf("%w: mobile number is required", domain.ErrInvalidInput)
	}
	if f.Username == "" {
		return fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	if _, ok := domain.ParseRole(string(f.Role)); !ok {
		return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, f.Role)
	}
	return nil
}
