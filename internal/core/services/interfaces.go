package services

import (
	"context"

	"mealms-portal/internal/core/domain"
)

// Gateway is the port to the upstream Meal MS API. The HTTP implementation
// lives in internal/adapters/gateway; tests provide stubs.
type Gateway interface {
	Login(ctx context.Context, username, mobileNumber string) (*domain.AuthResult, error)
	Register(ctx context.Context, bearer string, fields domain.EmployeeFields) (*domain.Employee, error)
	ListUsers(ctx context.Context, bearer string) ([]domain.Employee, error)
	UpdateUser(ctx context.Context, bearer, id string, fields domain.EmployeeFields) (*domain.Employee, error)
	DeleteUser(ctx context.Context, bearer, id string) error
	UploadRoster(ctx context.Context, bearer, filename string, file []byte) (int, error)
	Analytics(ctx context.Context, bearer string) (*domain.AnalyticsFeed, error)
}
