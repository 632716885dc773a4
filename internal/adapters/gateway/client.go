package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"mealms-portal/internal/config"
	"mealms-portal/internal/core/domain"
)

// Client talks to the upstream Meal MS API, the system of record for the
// employee directory and the booking analytics feed. All mutating state lives
// upstream; this client only translates requests and maps failures onto the
// domain error taxonomy.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a gateway client from the upstream config
func NewClient(cfg config.UpstreamConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// Login verifies a credential pair against POST /api/auth/login
func (c *Client) Login(ctx context.Context, username, mobileNumber string) (*domain.AuthResult, error) {
	body, err := json.Marshal(loginRequest{Username: username, MobileNumber: mobileNumber})
	if err != nil {
		return nil, err
	}

	data, err := c.do(ctx, http.MethodPost, "/api/auth/login", "", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var resp loginResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse login response failed: %w", err)
	}

	return &domain.AuthResult{Token: resp.Token, User: resp.User.toDomain()}, nil
}

// Register creates an employee via POST /api/auth/register
func (c *Client) Register(ctx context.Context, bearer string, fields domain.EmployeeFields) (*domain.Employee, error) {
	body, err := json.Marshal(registerRequest{
		FirstName:    fields.FirstName,
		LastName:     fields.LastName,
		MobileNumber: fields.MobileNumber,
		Username:     fields.Username,
		Role:         string(fields.Role),
	})
	if err != nil {
		return nil, err
	}

	data, err := c.do(ctx, http.MethodPost, "/api/auth/register", bearer, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var doc employeeDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse register response failed: %w", err)
	}

	emp := doc.toDomain()
	return &emp, nil
}

// ListUsers fetches the full directory via GET /api/auth/users
func (c *Client) ListUsers(ctx context.Context, bearer string) ([]domain.Employee, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/auth/users", bearer, "", nil)
	if err != nil {
		return nil, err
	}

	var docs []employeeDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse users response failed: %w", err)
	}

	employees := make([]domain.Employee, len(docs))
	for i, d := range docs {
		employees[i] = d.toDomain()
	}
	return employees, nil
}

// UpdateUser updates an employee via PUT /api/auth/users/{id}
func (c *Client) UpdateUser(ctx context.Context, bearer, id string, fields domain.EmployeeFields) (*domain.Employee, error) {
	body, err := json.Marshal(registerRequest{
		FirstName:    fields.FirstName,
		LastName:     fields.LastName,
		MobileNumber: fields.MobileNumber,
		Username:     fields.Username,
		Role:         string(fields.Role),
	})
	if err != nil {
		return nil, err
	}

	data, err := c.do(ctx, http.MethodPut, "/api/auth/users/"+id, bearer, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var doc employeeDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse update response failed: %w", err)
	}

	emp := doc.toDomain()
	return &emp, nil
}

// DeleteUser removes an employee via DELETE /api/auth/users/{id}
func (c *Client) DeleteUser(ctx context.Context, bearer, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/auth/users/"+id, bearer, "", nil)
	return err
}

// UploadRoster submits a roster file via POST /api/auth/upload-excel.
// The upstream applies the batch as one transaction and returns the count of
// created employees.
func (c *Client) UploadRoster(ctx context.Context, bearer, filename string, file []byte) (int, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return 0, err
	}
	if _, err := part.Write(file); err != nil {
		return 0, err
	}
	if err := writer.Close(); err != nil {
		return 0, err
	}

	data, err := c.do(ctx, http.MethodPost, "/api/auth/upload-excel", bearer, writer.FormDataContentType(), &buf)
	if err != nil {
		return 0, err
	}

	var resp uploadResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return 0, fmt.Errorf("parse upload response failed: %w", err)
	}
	return resp.Count, nil
}

// Analytics fetches the booking feed via GET /api/dashboard/analytics
func (c *Client) Analytics(ctx context.Context, bearer string) (*domain.AnalyticsFeed, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/dashboard/analytics", bearer, "", nil)
	if err != nil {
		return nil, err
	}

	var resp analyticsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse analytics response failed: %w", err)
	}

	feed := resp.toDomain()
	return &feed, nil
}

// do performs one upstream request and returns the response body.
// Non-2xx statuses are mapped onto the domain error taxonomy.
func (c *Client) do(ctx context.Context, method, path, bearer, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, mapStatus(resp.StatusCode, data)
	}

	return data, nil
}

// mapStatus translates an upstream failure status into a domain error
func mapStatus(status int, body []byte) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrInvalidCredentials
	case http.StatusNotFound:
		return domain.ErrEmployeeNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	}

	// Mongo duplicate-key violations sometimes surface as 400/500 with a
	// message instead of a 409; still report them as a uniqueness conflict.
	msg := strings.ToLower(string(body))
	if strings.Contains(msg, "duplicate") || strings.Contains(msg, "already exist") {
		return domain.ErrConflict
	}

	return fmt.Errorf("%w: status %d: %s", domain.ErrUpstream, status, strings.TrimSpace(string(body)))
}
