package employees

import (
	"net/http"
	"net/mail"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"assettrack/pkg/response"
)

type EmployeeHandler struct {
	service EmployeeService
}

func NewEmployeeHandler(service EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

func (h *EmployeeHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/employees", h.listEmployees)
	router.GET("/employees/:id", h.getEmployeeByID)
	router.POST("/employees", h.createEmployee)
	router.PUT("/employees/:id", h.updateEmployee)
	router.DELETE("/employees/:id", h.deleteEmployee)
}

type employeeRequest struct {
	EmployeeID  string     `json:"employee_id" binding:"required"`
	FirstName   string     `json:"first_name" binding:"required"`
	LastName    string     `json:"last_name" binding:"required"`
	Email       string     `json:"email" binding:"required"`
	Phone       string     `json:"phone"`
	Department  string     `json:"department"`
	Designation string     `json:"designation"`
	Branch      string     `json:"branch"`
	Status      string     `json:"status"`
	JoiningDate *time.Time `json:"joining_date"`
}

func (r employeeRequest) toEmployee() Employee {
	return Employee{
		EmployeeID:  r.EmployeeID,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		Phone:       r.Phone,
		Department:  r.Department,
		Designation: r.Designation,
		Branch:      r.Branch,
		Status:      r.Status,
		JoiningDate: r.JoiningDate,
	}
}

func (r employeeRequest) validate() string {
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return "invalid email"
	}
	if r.Status != "" && !IsValidStatus(r.Status) {
		return "invalid status"
	}
	return ""
}

// @Summary      List employees
// @Description  Retrieves employees with optional filters, newest first
// @Tags         employees
// @Produce      json
// @Param        status      query  string  false  "Filter by status"  Enums(active, inactive)
// @Param        department  query  string  false  "Filter by department"
// @Param        branch      query  string  false  "Filter by branch"
// @Param        search      query  string  false  "Substring match on name, employee id, email"
// @Success      200  {object}  response.APIResponse{data=[]Employee} "Employees listed"
// @Failure      500  {object}  response.APIResponse "Internal server error"
// @Router       /employees [get]
func (h *EmployeeHandler) listEmployees(c *gin.Context) {
	filters := EmployeeFilters{}

	if status := c.Query("status"); status != "" {
		if !IsValidStatus(status) {
			response.SendError(c, http.StatusBadRequest, "invalid status")
			return
		}
		filters.Status = &status
	}

	if department := c.Query("department"); department != "" {
		filters.Department = &department
	}

	if branch := c.Query("branch"); branch != "" {
		filters.Branch = &branch
	}

	if search := c.Query("search"); search != "" {
		filters.Search = &search
	}

	employeeList, err := h.service.ListEmployees(c.Request.Context(), filters)
	if err != nil {
		response.SendError(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "employees listed", employeeList)
}

// @Summary      Get employee by ID
// @Description  Retrieves one employee with the assets they currently hold
// @Tags         employees
// @Produce      json
// @Param        id   path      int  true  "Employee ID"
// @Success      200  {object}  response.APIResponse{data=EmployeeDetail} "Employee fetched"
// @Failure      400  {object}  response.APIResponse "Invalid employee ID"
// @Failure      404  {object}  response.APIResponse "Employee not found"
// @Failure      500  {object}  response.APIResponse "Internal server error"
// @Router       /employees/{id} [get]
func (h *EmployeeHandler) getEmployeeByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendError(c, http.StatusBadRequest, "invalid employee id")
		return
	}

	employee, err := h.service.GetEmployeeByID(c.Request.Context(), id)
	if err != nil {
		if err == ErrEmployeeNotFound {
			response.SendError(c, http.StatusNotFound, "employee not found")
			return
		}
		response.SendError(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "employee fetched", employee)
}

// @Summary      Create an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        request body employeeRequest true "Employee creation request"
// @Success      201  {object}  response.APIResponse{data=Employee} "Employee created"
// @Failure      400  {object}  response.APIResponse "Invalid request payload"
// @Failure      500  {object}  response.APIResponse "Internal server error"
// @Router       /employees [post]
func (h *EmployeeHandler) createEmployee(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	if msg := req.validate(); msg != "" {
		response.SendError(c, http.StatusBadRequest, msg)
		return
	}

	employee, err := h.service.CreateEmployee(c.Request.Context(), req.toEmployee())
	if err != nil {
		if err == ErrDuplicateEmployee {
			response.SendError(c, http.StatusBadRequest, "employee id or email already exists")
			return
		}
		response.SendError(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.SendAPIResponse(c, http.StatusCreated, true, "employee created", employee)
}

// @Summary      Update an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id   path      int  true  "Employee ID"
// @Param        request body employeeRequest true "Employee update request"
// @Success      200  {object}  response.APIResponse{data=Employee} "Employee updated"
// @Failure      400  {object}  response.APIResponse "Invalid request"
// @Failure      404  {object}  response.APIResponse "Employee not found"
// @Failure      500  {object}  response.APIResponse "Internal server error"
// @Router       /employees/{id} [put]
func (h *EmployeeHandler) updateEmployee(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendError(c, http.StatusBadRequest, "invalid employee id")
		return
	}

	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	if msg := req.validate(); msg != "" {
		response.SendError(c, http.StatusBadRequest, msg)
		return
	}

	input := req.toEmployee()
	input.ID = id

	employee, err := h.service.UpdateEmployee(c.Request.Context(), input)
	if err != nil {
		if err == ErrEmployeeNotFound {
			response.SendError(c, http.StatusNotFound, "employee not found")
			return
		}
		if err == ErrDuplicateEmployee {
			response.SendError(c, http.StatusBadRequest, "employee id or email already exists")
			return
		}
		response.SendError(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "employee updated", employee)
}

// @Summary      Delete an employee
// @Description  Hard-deletes an employee; fails while they still hold assigned assets
// @Tags         employees
// @Produce      json
// @Param        id   path      int  true  "Employee ID"
// @Success      200  {object}  response.APIResponse "Employee deleted"
// @Failure      400  {object}  response.APIResponse "Employee still holds assigned assets"
// @Failure      404  {object}  response.APIResponse "Employee not found"
// @Failure      500  {object}  response.APIResponse "Internal server error"
// @Router       /employees/{id} [delete]
func (h *EmployeeHandler) deleteEmployee(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendError(c, http.StatusBadRequest, "invalid employee id")
		return
	}

	if err := h.service.DeleteEmployee(c.Request.Context(), id); err != nil {
		if err == ErrEmployeeNotFound {
			response.SendError(c, http.StatusNotFound, "employee not found")
			return
		}
		if err == ErrEmployeeHasAssets {
			response.SendError(c, http.StatusBadRequest, "employee still holds assigned assets")
			return
		}
		response.SendError(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "employee deleted", nil)
}
