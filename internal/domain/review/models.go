package review

import "time"

// Review is the wire shape of a performance review. The employee_* fields
// are derived through joins at read time and reflect the employee's
// department now, not at review creation.
type Review struct {
	ID                 int64     `json:"id"`
	ReviewDate         time.Time `json:"review_date"`
	Reviewer           *string   `json:"reviewer"`
	Notes              *string   `json:"notes"`
	Rating             *int      `json:"rating"`
	EmployeeID         int64     `json:"employee_id"`
	EmployeeName       string    `json:"employee_name"`
	EmployeeJobTitle   *string   `json:"employee_job_title"`
	EmployeeDepartment *string   `json:"employee_department"`
}
