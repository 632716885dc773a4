package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"mealms-portal/internal/config"
	"mealms-portal/internal/core/domain"
	"mealms-portal/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// routesGateway is a canned upstream for end-to-end route tests. Credentials
// kamala/0777654321 belong to a manager, nimal/0711234567 to a regular
// employee.
type routesGateway struct{}

func (g *routesGateway) Login(ctx context.Context, username, mobileNumber string) (*domain.AuthResult, error) {
	switch {
	case username == "kamala" && mobileNumber == "0777654321":
		return &domain.AuthResult{
			Token: "upstream-jwt",
			User:  domain.Employee{ID: "u2", FirstName: "Kamala", Username: "kamala", Role: domain.RoleManager},
		}, nil
	case username == "nimal" && mobileNumber == "0711234567":
		return &domain.AuthResult{
			Token: "upstream-jwt",
			User:  domain.Employee{ID: "u1", FirstName: "Nimal", Username: "nimal", Role: domain.RoleEmployee},
		}, nil
	}
	return nil, domain.ErrEmployeeNotFound
}

func (g *routesGateway) Register(ctx context.Context, bearer string, fields domain.EmployeeFields) (*domain.Employee, error) {
	return &domain.Employee{ID: "u9", Username: fields.Username, FirstName: fields.FirstName, Role: fields.Role}, nil
}

func (g *routesGateway) ListUsers(ctx context.Context, bearer string) ([]domain.Employee, error) {
	if bearer != "upstream-jwt" {
		return nil, domain.ErrInvalidCredentials
	}
	return []domain.Employee{
		{ID: "u1", FirstName: "Nimal", Username: "nimal", MobileNumber: "0711234567", Role: domain.RoleEmployee},
		{ID: "u2", FirstName: "Kamala", Username: "kamala", MobileNumber: "0777654321", Role: domain.RoleManager},
	}, nil
}

func (g *routesGateway) UpdateUser(ctx context.Context, bearer, id string, fields domain.EmployeeFields) (*domain.Employee, error) {
	return &domain.Employee{ID: id, Username: fields.Username, FirstName: fields.FirstName, Role: fields.Role}, nil
}

func (g *routesGateway) DeleteUser(ctx context.Context, bearer, id string) error {
	return nil
}

func (g *routesGateway) UploadRoster(ctx context.Context, bearer, filename string, file []byte) (int, error) {
	return 1, nil
}

func (g *routesGateway) Analytics(ctx context.Context, bearer string) (*domain.AnalyticsFeed, error) {
	return &domain.AnalyticsFeed{
		Observations: []domain.BookingObservation{
			{Date: "2024-03-01", MealType: domain.MealBreakfast, TotalBooked: 8},
			{Date: "2024-03-01", MealType: domain.MealLunch, TotalBooked: 15},
		},
		BookingUsersCount: 2,
		TotalUsers:        2,
	}, nil
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := &config.Config{
		AppMode: "dev",
		Session: config.SessionConfig{Secret: "test-secret", TTLMinutes: 60},
	}

	gw := &routesGateway{}
	sessionService := services.NewSessionService(gw, cfg)
	forecastService := services.NewForecastService(gw)

	app := fiber.New()
	Setup(app, cfg, gw, sessionService, forecastService)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, bearer string, body interface{}) (*http.Response, apiResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode %s %s response: %v", method, path, err)
	}
	return resp, parsed
}

func loginManager(t *testing.T, app *fiber.App) string {
	t.Helper()

	resp, parsed := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"username": "kamala", "mobileNumber": "0777654321"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("manager login returned %d: %s", resp.StatusCode, parsed.Error)
	}

	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(parsed.Data, &data); err != nil {
		t.Fatalf("decode login data: %v", err)
	}
	if data.Token == "" {
		t.Fatal("login returned an empty token")
	}
	return data.Token
}

func TestLoginRoute(t *testing.T) {
	t.Parallel()

	t.Run("manager login succeeds", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t)
		resp, parsed := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "",
			map[string]string{"username": "kamala", "mobileNumber": "0777654321"})

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		var data struct {
			Token string `json:"token"`
			User  struct {
				Username string `json:"username"`
				Role     string `json:"role"`
			} `json:"user"`
		}
		if err := json.Unmarshal(parsed.Data, &data); err != nil {
			t.Fatalf("decode login data: %v", err)
		}
		if data.User.Role != "MANAGER" {
			t.Errorf("expected MANAGER in response, got %q", data.User.Role)
		}
	})

	t.Run("employee role gets 403", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t)
		resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "",
			map[string]string{"username": "nimal", "mobileNumber": "0711234567"})

		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("expected 403 for non-manager, got %d", resp.StatusCode)
		}
	})

	t.Run("unknown credentials get 401", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t)
		resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "",
			map[string]string{"username": "ghost", "mobileNumber": "0700000000"})

		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401 for unknown credentials, got %d", resp.StatusCode)
		}
	})

	t.Run("missing fields get 400", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t)
		resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "",
			map[string]string{"username": "kamala"})

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400 for missing mobile number, got %d", resp.StatusCode)
		}
	})
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/employees/"},
		{http.MethodGet, "/api/v1/employees/search"},
		{http.MethodGet, "/api/v1/dashboard/overview"},
		{http.MethodPost, "/api/v1/auth/logout"},
		{http.MethodGet, "/api/v1/auth/me"},
	}

	for _, p := range paths {
		p := p
		t.Run(fmt.Sprintf("%s %s", p.method, p.path), func(t *testing.T) {
			resp, _ := doJSON(t, app, p.method, p.path, "", nil)
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("expected 401 without a session, got %d", resp.StatusCode)
			}
		})
	}
}

func TestEmployeeListRoute(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	bearer := loginManager(t, app)

	resp, parsed := doJSON(t, app, http.MethodGet, "/api/v1/employees/", bearer, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var data struct {
		Employees []domain.Employee `json:"employees"`
	}
	if err := json.Unmarshal(parsed.Data, &data); err != nil {
		t.Fatalf("decode employees data: %v", err)
	}
	if len(data.Employees) != 2 {
		t.Errorf("expected 2 employees, got %d", len(data.Employees))
	}
}

func TestDashboardOverviewRoute(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	bearer := loginManager(t, app)

	resp, parsed := doJSON(t, app, http.MethodGet, "/api/v1/dashboard/overview", bearer, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var view domain.ForecastView
	if err := json.Unmarshal(parsed.Data, &view); err != nil {
		t.Fatalf("decode overview data: %v", err)
	}
	if view.BreakfastTotal != 8 || view.LunchTotal != 15 || view.GrandTotal != 23 {
		t.Errorf("unexpected totals: %+v", view)
	}
	if len(view.Procurement) != 3 {
		t.Errorf("expected 3 procurement rows, got %d", len(view.Procurement))
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	bearer := loginManager(t, app)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/logout", bearer, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout returned %d", resp.StatusCode)
	}

	// The token is still well-formed but its session is gone
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/auth/me", bearer, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", resp.StatusCode)
	}
}

func TestMeRoute(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	bearer := loginManager(t, app)

	resp, parsed := doJSON(t, app, http.MethodGet, "/api/v1/auth/me", bearer, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var data struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	if err := json.Unmarshal(parsed.Data, &data); err != nil {
		t.Fatalf("decode me data: %v", err)
	}
	if data.Username != "kamala" || data.Role != "MANAGER" {
		t.Errorf("unexpected identity: %+v", data)
	}
}
