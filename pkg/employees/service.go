package employees

import "context"

type EmployeeService interface {
	CreateEmployee(ctx context.Context, input Employee) (Employee, error)
	UpdateEmployee(ctx context.Context, input Employee) (Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
	GetEmployeeByID(ctx context.Context, id int64) (EmployeeDetail, error)
	ListEmployees(ctx context.Context, filters EmployeeFilters) ([]Employee, error)
}

type employeeService struct {
	repo EmployeeRepository
}

func NewEmployeeService(repo EmployeeRepository) EmployeeService {
	return &employeeService{repo: repo}
}

func (s *employeeService) CreateEmployee(ctx context.Context, input Employee) (Employee, error) {
	if input.Status == "" {
		input.Status = StatusActive
	}
	return s.repo.CreateEmployee(ctx, input)
}

func (s *employeeService) UpdateEmployee(ctx context.Context, input Employee) (Employee, error) {
	return s.repo.UpdateEmployee(ctx, input)
}

func (s *employeeService) DeleteEmployee(ctx context.Context, id int64) error {
	return s.repo.DeleteEmployee(ctx, id)
}

func (s *employeeService) GetEmployeeByID(ctx context.Context, id int64) (EmployeeDetail, error) {
	return s.repo.GetEmployeeByID(ctx, id)
}

func (s *employeeService) ListEmployees(ctx context.Context, filters EmployeeFilters) ([]Employee, error) {
	return s.repo.ListEmployees(ctx, filters)
}
