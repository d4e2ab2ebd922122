package auth

// Caller is the authenticated identity making the current request,
// resolved from the store at request time.
type Caller struct {
	EmployeeID   int64
	Role         Role
	DepartmentID int64 // 0 when the employee has no department
}

// Decision is the outcome of a single policy check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Action enumerates the role-gated operations. Target-aware refinements
// (own department, own record) layer on top via the Can* functions below.
type Action string

const (
	ActionListDepartments  Action = "departments.list"
	ActionCreateDepartment Action = "departments.create"
	ActionDeleteDepartment Action = "departments.delete"
	ActionListEmployees    Action = "employees.list"
	ActionCreateEmployee   Action = "employees.create"
	ActionDeleteEmployee   Action = "employees.delete"
	ActionCountEmployees   Action = "employees.count"
	ActionExportRoster     Action = "reports.roster"
	ActionCreateReview     Action = "reviews.create"
	ActionModifyReview     Action = "reviews.modify"
)

var Actions = []Action{
	ActionListDepartments,
	ActionCreateDepartment,
	ActionDeleteDepartment,
	ActionListEmployees,
	ActionCreateEmployee,
	ActionDeleteEmployee,
	ActionCountEmployees,
	ActionExportRoster,
	ActionCreateReview,
	ActionModifyReview,
}

// rolePolicy is the fixed role-action table. Absence means deny; roles
// with no entry for an action are never broadened.
var rolePolicy = map[Role]map[Action]bool{
	RoleHR: {
		ActionListDepartments:  true,
		ActionCreateDepartment: true,
		ActionDeleteDepartment: true,
		ActionListEmployees:    true,
		ActionCreateEmployee:   true,
		ActionDeleteEmployee:   true,
		ActionCountEmployees:   true,
		ActionExportRoster:     true,
	},
	RoleManager: {
		ActionListDepartments: true,
		ActionListEmployees:   true,
		ActionCreateEmployee:  true,
		ActionCreateReview:    true,
		ActionModifyReview:    true,
	},
	RoleEmployee: {},
}

var actionDenials = map[Action]string{
	ActionListDepartments:  "You do not have access to view departments.",
	ActionCreateDepartment: "Only HR can add departments.",
	ActionDeleteDepartment: "Only HR can delete departments.",
	ActionListEmployees:    "You do not have permission to view employee lists.",
	ActionCreateEmployee:   "Only HR or Managers can add employees.",
	ActionDeleteEmployee:   "Only HR can delete employees.",
	ActionCountEmployees:   "Only HR can view the total employee count.",
	ActionExportRoster:     "Only HR can export the employee roster.",
	ActionCreateReview:     "Only managers can add reviews for employees in their department.",
	ActionModifyReview:     "Only the manager of this employee's department can modify this review.",
}

// Allows answers the role-action table. It carries a human-readable
// denial reason and never reveals internal detail.
func Allows(c Caller, action Action) Decision {
	if rolePolicy[c.Role][action] {
		return allow()
	}
	reason := actionDenials[action]
	if reason == "" {
		reason = "You do not have permission to perform this action."
	}
	return deny(reason)
}

// CanViewDepartment grants HR and Managers any department; an Employee
// only their own.
func CanViewDepartment(c Caller, departmentID int64) Decision {
	switch c.Role {
	case RoleHR, RoleManager:
		return allow()
	case RoleEmployee:
		if c.DepartmentID != 0 && c.DepartmentID == departmentID {
			return allow()
		}
	}
	return deny("You do not have access to view department details.")
}

// CanViewEmployee grants HR any record, a Manager records in their own
// department, and everyone their own record.
func CanViewEmployee(c Caller, targetID, targetDepartmentID int64) Decision {
	if c.Role == RoleHR {
		return allow()
	}
	if c.Role == RoleManager && targetDepartmentID != 0 && targetDepartmentID == c.DepartmentID {
		return allow()
	}
	if targetID == c.EmployeeID {
		return allow()
	}
	return deny("You do not have permission to view this employee's details.")
}

// ListScope restricts which records a list operation returns.
type ListScope struct {
	All          bool
	DepartmentID int64 // restrict to this department when non-zero
	EmployeeID   int64 // restrict to this employee when non-zero
}

// EmployeeListScope returns the visible slice of the employee table, or a
// denial for roles with no listing rights.
func EmployeeListScope(c Caller) (ListScope, Decision) {
	switch c.Role {
	case RoleHR:
		return ListScope{All: true}, allow()
	case RoleManager:
		return ListScope{DepartmentID: c.DepartmentID}, allow()
	}
	return ListScope{}, deny(actionDenials[ActionListEmployees])
}

// ReviewListScope never denies: HR sees all, Managers their department,
// everyone else falls back to their own reviews.
func ReviewListScope(c Caller) ListScope {
	switch c.Role {
	case RoleHR:
		return ListScope{All: true}
	case RoleManager:
		return ListScope{DepartmentID: c.DepartmentID}
	}
	return ListScope{EmployeeID: c.EmployeeID}
}

// NewEmployeeDepartment decides the department of an employee being
// created: HR must name an existing department, Managers are pinned to
// their own regardless of the payload.
func NewEmployeeDepartment(c Caller, requested int64) (int64, Decision) {
	switch c.Role {
	case RoleHR:
		if requested == 0 {
			return 0, Decision{Reason: "Department ID is required for HR to add an employee."}
		}
		return requested, allow()
	case RoleManager:
		return c.DepartmentID, allow()
	}
	return 0, deny(actionDenials[ActionCreateEmployee])
}

// CanReviewEmployee checks department ownership for review creation and
// mutation: the target employee's current department must be the
// caller's. The action picks the denial wording.
func CanReviewEmployee(c Caller, employeeDepartmentID int64, action Action) Decision {
	if c.Role != RoleManager {
		return deny(actionDenials[action])
	}
	if employeeDepartmentID == 0 || employeeDepartmentID != c.DepartmentID {
		return deny(actionDenials[action])
	}
	return allow()
}
