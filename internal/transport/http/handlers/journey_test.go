package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"peopledesk/internal/app/server"
	"peopledesk/internal/platform/config"
)

func testConfig(dbURL string) config.Config {
	return config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		TokenTTL:           time.Hour,
		Environment:        "test",
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  "ChangeMe123!",
		RunMigrations:      true,
		RunSeed:            true,
		MigrationsDir:      "../../../../migrations",
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
	}
}

func startApp(t *testing.T) (*server.App, *httptest.Server) {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	app, err := server.New(context.Background(), testConfig(dbURL))
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	t.Cleanup(app.Close)

	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return app, ts
}

func TestDepartmentScopedJourney(t *testing.T) {
	_, ts := startApp(t)
	client := ts.Client()

	hrToken := login(t, client, ts.URL, "admin@test.local", "ChangeMe123!")

	stamp := time.Now().UnixNano()
	deptA := createDepartment(t, client, ts.URL, hrToken, fmt.Sprintf("Engineering %d", stamp))
	deptB := createDepartment(t, client, ts.URL, hrToken, fmt.Sprintf("Sales %d", stamp))

	managerEmail := fmt.Sprintf("mgr%d@example.com", stamp)
	managerID := createEmployee(t, client, ts.URL, hrToken, map[string]any{
		"first_name":     "Mia",
		"last_name":      "Lead",
		"email":          managerEmail,
		"password":       "Manager123!",
		"user_type_name": "Manager",
		"job_title_name": "Engineering Manager",
		"department_id":  deptA,
	})

	reportEmail := fmt.Sprintf("dev%d@example.com", stamp)
	reportID := createEmployee(t, client, ts.URL, hrToken, map[string]any{
		"first_name":     "Ray",
		"last_name":      "Dev",
		"email":          reportEmail,
		"password":       "Employee123!",
		"user_type_name": "Employee",
		"job_title_name": "Engineer",
		"department_id":  deptA,
	})

	outsiderID := createEmployee(t, client, ts.URL, hrToken, map[string]any{
		"first_name":     "Sal",
		"last_name":      "Rep",
		"email":          fmt.Sprintf("rep%d@example.com", stamp),
		"password":       "Employee123!",
		"user_type_name": "Employee",
		"job_title_name": "Account Executive",
		"department_id":  deptB,
	})

	// The manager's employee listing is scoped to their own department.
	mgrToken := login(t, client, ts.URL, managerEmail, "Manager123!")
	listed := listEmployees(t, client, ts.URL, mgrToken)
	ids := map[int64]bool{}
	for _, emp := range listed {
		ids[int64(emp["id"].(float64))] = true
	}
	if !ids[managerID] || !ids[reportID] {
		t.Fatalf("manager listing missing own department members: %v", ids)
	}
	if ids[outsiderID] {
		t.Fatal("manager listing leaked another department")
	}

	// Reviews follow the same department boundary.
	status, body := request(t, client, http.MethodPost, ts.URL+"/reviews", mgrToken, map[string]any{
		"employee_id": reportID,
		"notes":       "Strong quarter",
		"rating":      4,
	})
	if status != http.StatusCreated {
		t.Fatalf("review create status = %d, body %s", status, body)
	}
	var created map[string]any
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode review: %v", err)
	}
	reviewID := int64(created["id"].(float64))
	if created["employee_id"].(float64) != float64(reportID) {
		t.Fatalf("review bound to wrong employee: %v", created)
	}

	status, body = request(t, client, http.MethodPost, ts.URL+"/reviews", mgrToken, map[string]any{
		"employee_id": outsiderID,
		"notes":       "Should not work",
	})
	if status != http.StatusForbidden {
		t.Fatalf("cross-department review status = %d, body %s", status, body)
	}

	// Partial update: rating omitted must survive, notes change.
	status, body = request(t, client, http.MethodPut, fmt.Sprintf("%s/reviews/%d", ts.URL, reviewID), mgrToken, map[string]any{
		"notes": "Revised after calibration",
	})
	if status != http.StatusOK {
		t.Fatalf("review update status = %d, body %s", status, body)
	}
	var updated map[string]any
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatalf("decode updated review: %v", err)
	}
	if updated["notes"] != "Revised after calibration" {
		t.Fatalf("notes not updated: %v", updated)
	}
	if updated["rating"] == nil || updated["rating"].(float64) != 4 {
		t.Fatalf("omitted rating was not preserved: %v", updated)
	}

	// An update with no editable fields is a no-op, not an error.
	status, body = request(t, client, http.MethodPut, fmt.Sprintf("%s/reviews/%d", ts.URL, reviewID), mgrToken, map[string]any{})
	if status != http.StatusOK {
		t.Fatalf("empty update status = %d, body %s", status, body)
	}
	var unchanged map[string]any
	if err := json.Unmarshal(body, &unchanged); err != nil {
		t.Fatalf("decode unchanged review: %v", err)
	}
	if unchanged["notes"] != "Revised after calibration" || unchanged["rating"].(float64) != 4 {
		t.Fatalf("empty update altered the review: %v", unchanged)
	}

	// A plain employee sees their own record but cannot list or peek.
	empToken := login(t, client, ts.URL, reportEmail, "Employee123!")
	if status, _ = request(t, client, http.MethodGet, ts.URL+"/employees", empToken, nil); status != http.StatusForbidden {
		t.Fatalf("employee list status = %d, want 403", status)
	}
	if status, _ = request(t, client, http.MethodGet, fmt.Sprintf("%s/employees/%d", ts.URL, reportID), empToken, nil); status != http.StatusOK {
		t.Fatalf("own record status = %d, want 200", status)
	}
	if status, _ = request(t, client, http.MethodGet, fmt.Sprintf("%s/employees/%d", ts.URL, outsiderID), empToken, nil); status != http.StatusForbidden {
		t.Fatalf("other record status = %d, want 403", status)
	}

	// Their review listing falls back to their own reviews.
	status, body = request(t, client, http.MethodGet, ts.URL+"/reviews", empToken, nil)
	if status != http.StatusOK {
		t.Fatalf("employee review list status = %d", status)
	}
	var ownReviews []map[string]any
	if err := json.Unmarshal(body, &ownReviews); err != nil {
		t.Fatalf("decode reviews: %v", err)
	}
	for _, rv := range ownReviews {
		if rv["employee_id"].(float64) != float64(reportID) {
			t.Fatalf("employee sees someone else's review: %v", rv)
		}
	}

	// HR-only surfaces stay closed to the manager.
	if status, _ = request(t, client, http.MethodGet, ts.URL+"/total-employees", mgrToken, nil); status != http.StatusForbidden {
		t.Fatalf("manager count status = %d, want 403", status)
	}
	if status, _ = request(t, client, http.MethodGet, ts.URL+"/reports/employees.csv", mgrToken, nil); status != http.StatusForbidden {
		t.Fatalf("manager roster status = %d, want 403", status)
	}

	status, body = request(t, client, http.MethodGet, ts.URL+"/total-employees", hrToken, nil)
	if status != http.StatusOK {
		t.Fatalf("HR count status = %d", status)
	}
	var count map[string]any
	if err := json.Unmarshal(body, &count); err != nil {
		t.Fatalf("decode count: %v", err)
	}
	if count["total_employees"].(float64) < 3 {
		t.Fatalf("unexpected total: %v", count)
	}
}

func TestDuplicateCreation(t *testing.T) {
	_, ts := startApp(t)
	client := ts.Client()

	hrToken := login(t, client, ts.URL, "admin@test.local", "ChangeMe123!")

	stamp := time.Now().UnixNano()
	name := fmt.Sprintf("Dup Dept %d", stamp)
	createDepartment(t, client, ts.URL, hrToken, name)

	status, body := request(t, client, http.MethodPost, ts.URL+"/departments", hrToken, map[string]any{"name": name})
	if status != http.StatusConflict {
		t.Fatalf("duplicate department status = %d, body %s", status, body)
	}

	deptID := createDepartment(t, client, ts.URL, hrToken, fmt.Sprintf("Dup Dept B %d", stamp))
	payload := map[string]any{
		"first_name":     "Dana",
		"last_name":      "Twice",
		"email":          fmt.Sprintf("dana%d@example.com", stamp),
		"password":       "Employee123!",
		"user_type_name": "Employee",
		"job_title_name": "Analyst",
		"department_id":  deptID,
	}
	createEmployee(t, client, ts.URL, hrToken, payload)

	status, body = request(t, client, http.MethodPost, ts.URL+"/employees", hrToken, payload)
	if status != http.StatusBadRequest {
		t.Fatalf("duplicate email status = %d, body %s", status, body)
	}
}

func TestDepartmentCascadeDelete(t *testing.T) {
	_, ts := startApp(t)
	client := ts.Client()

	hrToken := login(t, client, ts.URL, "admin@test.local", "ChangeMe123!")

	stamp := time.Now().UnixNano()
	deptID := createDepartment(t, client, ts.URL, hrToken, fmt.Sprintf("Doomed %d", stamp))

	managerEmail := fmt.Sprintf("doomed-mgr%d@example.com", stamp)
	managerID := createEmployee(t, client, ts.URL, hrToken, map[string]any{
		"first_name":     "Dee",
		"last_name":      "Parting",
		"email":          managerEmail,
		"password":       "Manager123!",
		"user_type_name": "Manager",
		"job_title_name": "Team Lead",
		"department_id":  deptID,
	})
	reportID := createEmployee(t, client, ts.URL, hrToken, map[string]any{
		"first_name":     "Gone",
		"last_name":      "Soon",
		"email":          fmt.Sprintf("doomed-dev%d@example.com", stamp),
		"password":       "Employee123!",
		"user_type_name": "Employee",
		"job_title_name": "Engineer",
		"department_id":  deptID,
	})

	mgrToken := login(t, client, ts.URL, managerEmail, "Manager123!")
	status, body := request(t, client, http.MethodPost, ts.URL+"/reviews", mgrToken, map[string]any{
		"employee_id": reportID,
		"notes":       "Final review",
		"rating":      3,
	})
	if status != http.StatusCreated {
		t.Fatalf("review create status = %d, body %s", status, body)
	}
	var created map[string]any
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode review: %v", err)
	}
	reviewID := int64(created["id"].(float64))

	// Department deletion is HR-only.
	if status, body = request(t, client, http.MethodDelete, fmt.Sprintf("%s/departments/%d", ts.URL, deptID), mgrToken, nil); status != http.StatusForbidden {
		t.Fatalf("manager delete status = %d, body %s", status, body)
	}

	if status, body = request(t, client, http.MethodDelete, fmt.Sprintf("%s/departments/%d", ts.URL, deptID), hrToken, nil); status != http.StatusNoContent {
		t.Fatalf("HR delete status = %d, body %s", status, body)
	}

	// The department, its employees and their reviews all go together.
	if status, _ = request(t, client, http.MethodGet, fmt.Sprintf("%s/departments/%d", ts.URL, deptID), hrToken, nil); status != http.StatusNotFound {
		t.Fatalf("deleted department status = %d, want 404", status)
	}
	for _, id := range []int64{managerID, reportID} {
		if status, _ = request(t, client, http.MethodGet, fmt.Sprintf("%s/employees/%d", ts.URL, id), hrToken, nil); status != http.StatusNotFound {
			t.Fatalf("cascaded employee %d status = %d, want 404", id, status)
		}
	}

	status, body = request(t, client, http.MethodGet, ts.URL+"/reviews", hrToken, nil)
	if status != http.StatusOK {
		t.Fatalf("review list status = %d", status)
	}
	var reviews []map[string]any
	if err := json.Unmarshal(body, &reviews); err != nil {
		t.Fatalf("decode reviews: %v", err)
	}
	for _, rv := range reviews {
		if int64(rv["id"].(float64)) == reviewID {
			t.Fatalf("review %d survived the cascade", reviewID)
		}
	}
}

func TestEmployeeDeleteIsHROnly(t *testing.T) {
	_, ts := startApp(t)
	client := ts.Client()

	hrToken := login(t, client, ts.URL, "admin@test.local", "ChangeMe123!")

	stamp := time.Now().UnixNano()
	deptID := createDepartment(t, client, ts.URL, hrToken, fmt.Sprintf("Revolving Door %d", stamp))

	managerEmail := fmt.Sprintf("rd-mgr%d@example.com", stamp)
	createEmployee(t, client, ts.URL, hrToken, map[string]any{
		"first_name":     "Rita",
		"last_name":      "Door",
		"email":          managerEmail,
		"password":       "Manager123!",
		"user_type_name": "Manager",
		"job_title_name": "Team Lead",
		"department_id":  deptID,
	})
	targetID := createEmployee(t, client, ts.URL, hrToken, map[string]any{
		"first_name":     "Tess",
		"last_name":      "Leaver",
		"email":          fmt.Sprintf("rd-dev%d@example.com", stamp),
		"password":       "Employee123!",
		"user_type_name": "Employee",
		"job_title_name": "Engineer",
		"department_id":  deptID,
	})

	// Even the target's own manager cannot delete; only HR.
	mgrToken := login(t, client, ts.URL, managerEmail, "Manager123!")
	status, body := request(t, client, http.MethodDelete, fmt.Sprintf("%s/employees/%d", ts.URL, targetID), mgrToken, nil)
	if status != http.StatusForbidden {
		t.Fatalf("manager delete status = %d, body %s", status, body)
	}

	if status, body = request(t, client, http.MethodDelete, fmt.Sprintf("%s/employees/%d", ts.URL, targetID), hrToken, nil); status != http.StatusNoContent {
		t.Fatalf("HR delete status = %d, body %s", status, body)
	}
	if status, _ = request(t, client, http.MethodGet, fmt.Sprintf("%s/employees/%d", ts.URL, targetID), hrToken, nil); status != http.StatusNotFound {
		t.Fatalf("deleted employee status = %d, want 404", status)
	}
	if status, _ = request(t, client, http.MethodDelete, fmt.Sprintf("%s/employees/%d", ts.URL, targetID), hrToken, nil); status != http.StatusNotFound {
		t.Fatalf("repeat delete status = %d, want 404", status)
	}
}

func TestJobTitleReusedAcrossEmployees(t *testing.T) {
	_, ts := startApp(t)
	client := ts.Client()

	hrToken := login(t, client, ts.URL, "admin@test.local", "ChangeMe123!")

	stamp := time.Now().UnixNano()
	deptID := createDepartment(t, client, ts.URL, hrToken, fmt.Sprintf("Title Pool %d", stamp))
	title := fmt.Sprintf("Staff Engineer %d", stamp)

	for i := 0; i < 2; i++ {
		createEmployee(t, client, ts.URL, hrToken, map[string]any{
			"first_name":     "Twin",
			"last_name":      fmt.Sprintf("Number%d", i+1),
			"email":          fmt.Sprintf("twin%d-%d@example.com", i+1, stamp),
			"password":       "Employee123!",
			"user_type_name": "Employee",
			"job_title_name": title,
			"department_id":  deptID,
		})
	}

	status, body := request(t, client, http.MethodGet, ts.URL+"/job-titles", hrToken, nil)
	if status != http.StatusOK {
		t.Fatalf("job title list status = %d, body %s", status, body)
	}
	var titles []map[string]any
	if err := json.Unmarshal(body, &titles); err != nil {
		t.Fatalf("decode job titles: %v", err)
	}
	found := 0
	for _, jt := range titles {
		if jt["title"] == title {
			found++
		}
	}
	if found != 1 {
		t.Fatalf("title %q appears %d times, want exactly 1", title, found)
	}
}

func TestLoginWrongPasswordThenCorrect(t *testing.T) {
	_, ts := startApp(t)
	client := ts.Client()

	for i := 0; i < 2; i++ {
		status, body := request(t, client, http.MethodPost, ts.URL+"/auth/login", "", map[string]any{
			"email":    "admin@test.local",
			"password": "wrong-password",
		})
		if status != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status = %d, body %s", i+1, status, body)
		}
	}

	token := login(t, client, ts.URL, "admin@test.local", "ChangeMe123!")
	status, body := request(t, client, http.MethodGet, ts.URL+"/me", token, nil)
	if status != http.StatusOK {
		t.Fatalf("me status = %d, body %s", status, body)
	}
	var me map[string]any
	if err := json.Unmarshal(body, &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me["email"] != "admin@test.local" {
		t.Fatalf("unexpected identity: %v", me)
	}
}

func request(t *testing.T, client *http.Client, method, url, token string, payload any) (int, []byte) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp.StatusCode, raw
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	status, body := request(t, client, http.MethodPost, baseURL+"/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	if status != http.StatusOK {
		t.Fatalf("login status = %d, body %s", status, body)
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	token, _ := payload["access_token"].(string)
	if token == "" {
		t.Fatal("expected access token")
	}
	return token
}

func createDepartment(t *testing.T, client *http.Client, baseURL, token, name string) int64 {
	t.Helper()
	status, body := request(t, client, http.MethodPost, baseURL+"/departments", token, map[string]any{
		"name":        name,
		"description": "created by journey test",
	})
	if status != http.StatusCreated {
		t.Fatalf("department create status = %d, body %s", status, body)
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode department: %v", err)
	}
	id, _ := payload["id"].(float64)
	if id == 0 {
		t.Fatalf("expected department id, body %s", body)
	}
	return int64(id)
}

func createEmployee(t *testing.T, client *http.Client, baseURL, token string, payload map[string]any) int64 {
	t.Helper()
	status, body := request(t, client, http.MethodPost, baseURL+"/employees", token, payload)
	if status != http.StatusCreated {
		t.Fatalf("employee create status = %d, body %s", status, body)
	}
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("decode employee: %v", err)
	}
	id, _ := decoded["id"].(float64)
	if id == 0 {
		t.Fatalf("expected employee id, body %s", body)
	}
	return int64(id)
}

func listEmployees(t *testing.T, client *http.Client, baseURL, token string) []map[string]any {
	t.Helper()
	status, body := request(t, client, http.MethodGet, baseURL+"/employees", token, nil)
	if status != http.StatusOK {
		t.Fatalf("employee list status = %d, body %s", status, body)
	}
	var payload []map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode employees: %v", err)
	}
	return payload
}
