package handlers

import (
	"mealms-portal/internal/adapters/http/middleware"
	"mealms-portal/internal/core/domain"
	"mealms-portal/internal/core/services"
	"mealms-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EmployeeHandler handles employee directory endpoints
type EmployeeHandler struct {
	directory *services.DirectoryService
	importer  *services.ImportService
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(directory *services.DirectoryService, importer *services.ImportService) *EmployeeHandler {
	return &EmployeeHandler{
		directory: directory,
		importer:  importer,
	}
}

// EmployeeRequest represents create/update request body
type EmployeeRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	MobileNumber string `json:"mobileNumber"`
	Username     string `json:"username"`
	Role         string `json:"role"`
}

func (r EmployeeRequest) toFields() (domain.EmployeeFields, bool) {
	role, ok := domain.ParseRole(r.Role)
	return domain.EmployeeFields{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		MobileNumber: r.MobileNumber,
		Username:     r.Username,
		Role:         role,
	}, ok
}

// List handles listing all employees (refreshes the snapshot from upstream)
// @Summary List employees
// @Description Refresh and return the full employee directory
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /employees [get]
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	employees, err := h.directory.List(c.Context(), middleware.UpstreamToken(c))
	if err != nil {
		return response.FromDomainError(c, err, "Failed to list employees")
	}

	return response.Success(c, "Employees retrieved successfully", fiber.Map{
		"employees": employees,
	})
}

// Search handles snapshot-local search
// @Summary Search employees
// @Description Filter the last-loaded snapshot by first name or username substring
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search term"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /employees/search [get]
func (h *EmployeeHandler) Search(c *fiber.Ctx) error {
	employees := h.directory.Search(c.Query("q"))

	return response.Success(c, "Employees retrieved successfully", fiber.Map{
		"employees": employees,
	})
}

// Create handles employee creation
// @Summary Create employee
// @Description Register a new employee and refresh the directory
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body EmployeeRequest true "Employee data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /employees [post]
func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	var req EmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	fields, ok := req.toFields()
	if !ok {
		return response.BadRequest(c, "Invalid role. Must be EMPLOYEE, CANTEEN, or MANAGER")
	}

	employee, err := h.directory.Create(c.Context(), middleware.UpstreamToken(c), fields)
	if err != nil {
		return response.FromDomainError(c, err, "Failed to create employee")
	}

	return response.Created(c, "Employee created successfully", fiber.Map{
		"employee": employee,
	})
}

// Update handles employee modification
// @Summary Update employee
// @Description Update an employee and refresh the directory
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Param body body EmployeeRequest true "Employee data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /employees/{id} [put]
func (h *EmployeeHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return response.BadRequest(c, "Employee ID is required")
	}

	var req EmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	fields, ok := req.toFields()
	if !ok {
		return response.BadRequest(c, "Invalid role. Must be EMPLOYEE, CANTEEN, or MANAGER")
	}

	employee, err := h.directory.Update(c.Context(), middleware.UpstreamToken(c), id, fields)
	if err != nil {
		return response.FromDomainError(c, err, "Failed to update employee")
	}

	return response.Success(c, "Employee updated successfully", fiber.Map{
		"employee": employee,
	})
}

// Delete handles employee removal
// @Summary Delete employee
// @Description Delete an employee; the snapshot entry is removed on acknowledgment
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return response.BadRequest(c, "Employee ID is required")
	}

	if err := h.directory.Delete(c.Context(), middleware.UpstreamToken(c), id); err != nil {
		return response.FromDomainError(c, err, "Failed to delete employee")
	}

	return response.Success(c, "Employee deleted successfully", nil)
}

// Import handles bulk roster upload
// @Summary Bulk import employees
// @Description Validate a roster file and submit it as one batch; all rows succeed together or none are applied
// @Tags Employees
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Roster file (CSV with headers firstName,lastName,mobileNumber,username,role)"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /employees/import [post]
func (h *EmployeeHandler) Import(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "Roster file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, "Roster file could not be opened")
	}
	defer file.Close()

	count, err := h.importer.Import(c.Context(), middleware.UpstreamToken(c), fileHeader.Filename, file)
	if err != nil {
		return response.FromDomainError(c, err, "Failed to import roster")
	}

	// The snapshot now trails the upstream; refresh it before responding so
	// the employee table shows the imported rows.
	if _, err := h.directory.List(c.Context(), middleware.UpstreamToken(c)); err != nil {
		return response.FromDomainError(c, err, "Import succeeded but refresh failed")
	}

	return response.Success(c, "Roster imported successfully", fiber.Map{
		"count": count,
	})
}
