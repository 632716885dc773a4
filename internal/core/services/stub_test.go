package services

import (
	"context"
	"fmt"

	"mealms-portal/internal/core/domain"
)

// stubGateway is a hand-rolled Gateway double. Each call delegates to the
// corresponding function field; a nil field makes the call fail loudly so a
// test that expects no upstream traffic catches an accidental request.
type stubGateway struct {
	loginFn     func(ctx context.Context, username, mobileNumber string) (*domain.AuthResult, error)
	registerFn  func(ctx context.Context, bearer string, fields domain.EmployeeFields) (*domain.Employee, error)
	listFn      func(ctx context.Context, bearer string) ([]domain.Employee, error)
	updateFn    func(ctx context.Context, bearer, id string, fields domain.EmployeeFields) (*domain.Employee, error)
	deleteFn    func(ctx context.Context, bearer, id string) error
	uploadFn    func(ctx context.Context, bearer, filename string, file []byte) (int, error)
	analyticsFn func(ctx context.Context, bearer string) (*domain.AnalyticsFeed, error)

	loginCalls     int
	registerCalls  int
	listCalls      int
	updateCalls    int
	deleteCalls    int
	uploadCalls    int
	analyticsCalls int
}

func (s *stubGateway) Login(ctx context.Context, username, mobileNumber string) (*domain.AuthResult, error) {
	s.loginCalls++
	if s.loginFn == nil {
		return nil, fmt.Errorf("unexpected Login call")
	}
	return s.loginFn(ctx, username, mobileNumber)
}

func (s *stubGateway) Register(ctx context.Context, bearer string, fields domain.EmployeeFields) (*domain.Employee, error) {
	s.registerCalls++
	if s.registerFn == nil {
		return nil, fmt.Errorf("unexpected Register call")
	}
	return s.registerFn(ctx, bearer, fields)
}

func (s *stubGateway) ListUsers(ctx context.Context, bearer string) ([]domain.Employee, error) {
	s.listCalls++
	if s.listFn == nil {
		return nil, fmt.Errorf("unexpected ListUsers call")
	}
	return s.listFn(ctx, bearer)
}

func (s *stubGateway) UpdateUser(ctx context.Context, bearer, id string, fields domain.EmployeeFields) (*domain.Employee, error) {
	s.updateCalls++
	if s.updateFn == nil {
		return nil, fmt.Errorf("unexpected UpdateUser call")
	}
	return s.updateFn(ctx, bearer, id, fields)
}

func (s *stubGateway) DeleteUser(ctx context.Context, bearer, id string) error {
	s.deleteCalls++
	if s.deleteFn == nil {
		return fmt.Errorf("unexpected DeleteUser call")
	}
	return s.deleteFn(ctx, bearer, id)
}

func (s *stubGateway) UploadRoster(ctx context.Context, bearer, filename string, file []byte) (int, error) {
	s.uploadCalls++
	if s.uploadFn == nil {
		return 0, fmt.Errorf("unexpected UploadRoster call")
	}
	return s.uploadFn(ctx, bearer, filename, file)
}

func (s *stubGateway) Analytics(ctx context.Context, bearer string) (*domain.AnalyticsFeed, error) {
	s.analyticsCalls++
	if s.analyticsFn == nil {
		return nil, fmt.Errorf("unexpected Analytics call")
	}
	return s.analyticsFn(ctx, bearer)
}

// directoryEmployees is a small fixture shared by the directory tests
func directoryEmployees() []domain.Employee {
	return []domain.Employee{
		{ID: "u1", FirstName: "Nimal", LastName: "Perera", MobileNumber: "0711234567", Username: "nimal", Role: domain.RoleEmployee},
		{ID: "u2", FirstName: "Kamala", LastName: "Silva", MobileNumber: "0777654321", Username: "kamala", Role: domain.RoleManager},
		{ID: "u3", FirstName: "Sunil", LastName: "Fernando", MobileNumber: "0701112223", Username: "sunil.f", Role: domain.RoleCanteen},
	}
}
