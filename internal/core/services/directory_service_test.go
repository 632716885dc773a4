package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"mealms-portal/internal/core/domain"
)

// loadedDirectory returns a directory service with the fixture snapshot
// already loaded, plus the stub it talks through.
func loadedDirectory(t *testing.T) (*DirectoryService, *stubGateway) {
	t.Helper()

	gw := &stubGateway{
		listFn: func(ctx context.Context, bearer string) ([]domain.Employee, error) {
			return directoryEmployees(), nil
		},
	}
	service := NewDirectoryService(gw)
	if _, err := service.List(context.Background(), "token"); err != nil {
		t.Fatalf("initial List failed: %v", err)
	}
	return service, gw
}

func validEmployeeFields() domain.EmployeeFields {
	return domain.EmployeeFields{
		FirstName:    "Anil",
		LastName:     "Jayawardena",
		MobileNumber: "0765554443",
		Username:     "anil.j",
		Role:         domain.RoleEmployee,
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()

	service, gw := loadedDirectory(t)
	listCallsAfterLoad := gw.listCalls

	tests := []struct {
		name string
		term string
		want []string // expected usernames in order
	}{
		{"empty term returns full snapshot", "", []string{"nimal", "kamala", "sunil.f"}},
		{"whitespace only term returns full snapshot", "   ", []string{"nimal", "kamala", "sunil.f"}},
		{"matches first name", "Kamala", []string{"kamala"}},
		{"matches username", "sunil.f", []string{"sunil.f"}},
		{"case insensitive", "NIMAL", []string{"nimal"}},
		{"substring match", "il", []string{"nimal", "sunil.f"}},
		{"no match", "zzz", []string{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := service.Search(tt.term)

			usernames := make([]string, 0, len(got))
			for _, e := range got {
				usernames = append(usernames, e.Username)
			}
			if !reflect.DeepEqual(usernames, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.term, usernames, tt.want)
			}
		})
	}

	// Search is snapshot-local; no refresh may have happened
	if gw.listCalls != listCallsAfterLoad {
		t.Errorf("Search hit the upstream: listCalls went from %d to %d", listCallsAfterLoad, gw.listCalls)
	}
}

func TestCreateRefreshesSnapshot(t *testing.T) {
	t.Parallel()

	created := domain.Employee{ID: "u4", FirstName: "Anil", LastName: "Jayawardena",
		MobileNumber: "0765554443", Username: "anil.j", Role: domain.RoleEmployee}

	refreshed := append(directoryEmployees(), created)
	service, gw := loadedDirectory(t)

	gw.registerFn = func(ctx context.Context, bearer string, fields domain.EmployeeFields) (*domain.Employee, error) {
		out := created
		return &out, nil
	}
	gw.listFn = func(ctx context.Context, bearer string) ([]domain.Employee, error) {
		return refreshed, nil
	}

	employee, err := service.Create(context.Background(), "token", validEmployeeFields())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if employee.ID != "u4" {
		t.Errorf("expected created employee u4, got %s", employee.ID)
	}

	// The whole snapshot is reloaded rather than merging the single record
	if gw.listCalls != 2 {
		t.Errorf("expected a full refresh after create, listCalls = %d", gw.listCalls)
	}
	if got := service.Snapshot(); len(got) != 4 {
		t.Errorf("expected 4 employees after refresh, got %d", len(got))
	}
	if state := service.EditState(); state != domain.EditIdle {
		t.Errorf("expected workflow back to IDLE, got %s", state)
	}
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*domain.EmployeeFields)
	}{
		{"missing first name", func(f *domain.EmployeeFields) { f.FirstName = "" }},
		{"missing last name", func(f *domain.EmployeeFields) { f.LastName = "" }},
		{"missing mobile number", func(f *domain.EmployeeFields) { f.MobileNumber = "" }},
		{"missing username", func(f *domain.EmployeeFields) { f.Username = "" }},
		{"unknown role", func(f *domain.EmployeeFields) { f.Role = "SUPERVISOR" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			service, gw := loadedDirectory(t)
			registerCallsBefore := gw.registerCalls

			fields := validEmployeeFields()
			tt.mutate(&fields)

			_, err := service.Create(context.Background(), "token", fields)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
			if gw.registerCalls != registerCallsBefore {
				t.Errorf("invalid fields reached the upstream")
			}
		})
	}
}

func TestCreateConflictLeavesSnapshotUntouched(t *testing.T) {
	t.Parallel()

	service, gw := loadedDirectory(t)
	before := service.Snapshot()

	gw.registerFn = func(ctx context.Context, bearer string, fields domain.EmployeeFields) (*domain.Employee, error) {
		return nil, domain.ErrConflict
	}
	gw.listFn = nil // any refresh attempt fails the test

	_, err := service.Create(context.Background(), "token", validEmployeeFields())
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	if !reflect.DeepEqual(service.Snapshot(), before) {
		t.Errorf("snapshot changed on a failed create")
	}

	// The form stays open with the entered values for correction
	if state := service.EditState(); state != domain.EditEditing {
		t.Errorf("expected workflow in EDITING after conflict, got %s", state)
	}
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	t.Run("success refreshes snapshot", func(t *testing.T) {
		t.Parallel()

		service, gw := loadedDirectory(t)

		updated := directoryEmployees()[0]
		updated.FirstName = "Nimal Updated"

		gw.updateFn = func(ctx context.Context, bearer, id string, fields domain.EmployeeFields) (*domain.Employee, error) {
			if id != "u1" {
				t.Errorf("expected update of u1, got %s", id)
			}
			out := updated
			return &out, nil
		}
		gw.listFn = func(ctx context.Context, bearer string) ([]domain.Employee, error) {
			refreshed := directoryEmployees()
			refreshed[0] = updated
			return refreshed, nil
		}

		fields := validEmployeeFields()
		employee, err := service.Update(context.Background(), "token", "u1", fields)
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if employee.FirstName != "Nimal Updated" {
			t.Errorf("expected updated record back, got %+v", employee)
		}
		if service.Snapshot()[0].FirstName != "Nimal Updated" {
			t.Errorf("snapshot not refreshed after update")
		}
		if state := service.EditState(); state != domain.EditIdle {
			t.Errorf("expected workflow back to IDLE, got %s", state)
		}
	})

	t.Run("stale id yields not found", func(t *testing.T) {
		t.Parallel()

		service, gw := loadedDirectory(t)
		updateCallsBefore := gw.updateCalls

		_, err := service.Update(context.Background(), "token", "gone", validEmployeeFields())
		if !errors.Is(err, domain.ErrEmployeeNotFound) {
			t.Errorf("expected ErrEmployeeNotFound, got %v", err)
		}
		if gw.updateCalls != updateCallsBefore {
			t.Errorf("stale id reached the upstream")
		}
	})

	t.Run("conflict keeps local entry unchanged", func(t *testing.T) {
		t.Parallel()

		service, gw := loadedDirectory(t)
		before := service.Snapshot()

		gw.updateFn = func(ctx context.Context, bearer, id string, fields domain.EmployeeFields) (*domain.Employee, error) {
			return nil, domain.ErrConflict
		}
		gw.listFn = nil

		_, err := service.Update(context.Background(), "token", "u1", validEmployeeFields())
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
		if !reflect.DeepEqual(service.Snapshot(), before) {
			t.Errorf("snapshot changed on a failed update")
		}
		if state := service.EditState(); state != domain.EditEditing {
			t.Errorf("expected workflow in EDITING after conflict, got %s", state)
		}
	})
}

func TestDelete(t *testing.T) {
	t.Parallel()

	t.Run("removes exactly the acknowledged entry without refresh", func(t *testing.T) {
		t.Parallel()

		service, gw := loadedDirectory(t)
		listCallsBefore := gw.listCalls

		gw.deleteFn = func(ctx context.Context, bearer, id string) error {
			return nil
		}

		if err := service.Delete(context.Background(), "token", "u2"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		want := []domain.Employee{directoryEmployees()[0], directoryEmployees()[2]}
		if got := service.Snapshot(); !reflect.DeepEqual(got, want) {
			t.Errorf("snapshot after delete:\ngot:  %+v\nwant: %+v", got, want)
		}

		// Delete is optimistic; no full reload
		if gw.listCalls != listCallsBefore {
			t.Errorf("delete triggered a refresh")
		}
	})

	t.Run("unknown id yields not found without network", func(t *testing.T) {
		t.Parallel()

		service, gw := loadedDirectory(t)
		deleteCallsBefore := gw.deleteCalls

		err := service.Delete(context.Background(), "token", "gone")
		if !errors.Is(err, domain.ErrEmployeeNotFound) {
			t.Errorf("expected ErrEmployeeNotFound, got %v", err)
		}
		if gw.deleteCalls != deleteCallsBefore {
			t.Errorf("unknown id reached the upstream")
		}
	})

	t.Run("upstream failure leaves snapshot untouched", func(t *testing.T) {
		t.Parallel()

		service, gw := loadedDirectory(t)
		before := service.Snapshot()

		gw.deleteFn = func(ctx context.Context, bearer, id string) error {
			return domain.ErrUpstream
		}

		err := service.Delete(context.Background(), "token", "u1")
		if !errors.Is(err, domain.ErrUpstream) {
			t.Fatalf("expected ErrUpstream, got %v", err)
		}
		if !reflect.DeepEqual(service.Snapshot(), before) {
			t.Errorf("snapshot changed on a failed delete")
		}
	})
}

func TestSingleMutationInFlight(t *testing.T) {
	t.Parallel()

	service, gw := loadedDirectory(t)

	entered := make(chan struct{})
	release := make(chan struct{})

	gw.registerFn = func(ctx context.Context, bearer string, fields domain.EmployeeFields) (*domain.Employee, error) {
		close(entered)
		<-release
		out := domain.Employee{ID: "u4", Username: fields.Username}
		return &out, nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := service.Create(context.Background(), "token", validEmployeeFields())
		done <- err
	}()

	<-entered

	// A second mutation while the first is still submitting is rejected
	// immediately instead of queueing.
	fields := validEmployeeFields()
	fields.Username = "second"
	if _, err := service.Create(context.Background(), "token", fields); !errors.Is(err, domain.ErrMutationInFlight) {
		t.Errorf("expected ErrMutationInFlight, got %v", err)
	}
	if err := service.Delete(context.Background(), "token", "u1"); !errors.Is(err, domain.ErrMutationInFlight) {
		t.Errorf("expected ErrMutationInFlight for delete, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first create failed: %v", err)
	}
}
