package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/clockwise-hr/attendance-engine-go/internal/domain/employee"
	"github.com/clockwise-hr/attendance-engine-go/internal/pkg/database"
	"github.com/clockwise-hr/attendance-engine-go/internal/pkg/weekend"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

// GetByCode implements employee.EmployeeRepository.
func (r *employeeRepository) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT code, full_name, department, current_shift_code, saturday_group, gross_salary, active
		FROM employees
		WHERE code = $1
	`

	var emp employee.Employee
	err := q.QueryRow(ctx, query, code).Scan(
		&emp.Code, &emp.FullName, &emp.Department, &emp.CurrentShiftCode,
		&emp.SaturdayGroup, &emp.GrossSalary, &emp.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return emp, nil
}

// ListActive implements employee.EmployeeRepository.
func (r *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT code, full_name, department, current_shift_code, saturday_group, gross_salary, active
		FROM employees
		WHERE active = TRUE
		ORDER BY code ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var emp employee.Employee
		if err := rows.Scan(&emp.Code, &emp.FullName, &emp.Department, &emp.CurrentShiftCode,
			&emp.SaturdayGroup, &emp.GrossSalary, &emp.Active); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// GetSaturdayPolicy implements employee.EmployeeRepository.
func (r *employeeRepository) GetSaturdayPolicy(ctx context.Context, department string) (weekend.DepartmentPolicy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT saturday_policy
		FROM department_policies
		WHERE department = $1
	`

	var policy weekend.DepartmentPolicy
	err := q.QueryRow(ctx, query, department).Scan(&policy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return weekend.PolicyAlternate, nil
		}
		return "", fmt.Errorf("failed to get saturday policy: %w", err)
	}

	return policy, nil
}
