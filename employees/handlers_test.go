package employees

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adonese/hrportal/apperr"
	"github.com/adonese/hrportal/hr_fields"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	rows map[string]hr_fields.Employee
}

func (m *memStore) CreateEmployee(_ context.Context, emp *hr_fields.Employee) error {
	if _, ok := m.rows[emp.ID]; ok {
		return apperr.ErrConflict
	}
	m.rows[emp.ID] = *emp
	return nil
}

func (m *memStore) GetEmployee(_ context.Context, id string) (*hr_fields.Employee, error) {
	emp, ok := m.rows[id]
	if !ok {
		return nil, apperr.ErrEmployeeNotFound
	}
	return &emp, nil
}

type spyCache struct {
	next      Store
	gets      int
	forgotten []string
}

func (s *spyCache) GetEmployee(ctx context.Context, id string) (*hr_fields.Employee, error) {
	s.gets++
	return s.next.GetEmployee(ctx, id)
}

func (s *spyCache) Forget(_ context.Context, id string) {
	s.forgotten = append(s.forgotten, id)
}

func send(t *testing.T, app *fiber.App, method, path, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(raw)
}

func TestHandlers(t *testing.T) {
	store := &memStore{rows: map[string]hr_fields.Employee{}}
	cache := &spyCache{next: store}
	app := fiber.New(fiber.Config{ErrorHandler: apperr.Handler(nil)})
	h := &Handlers{Store: store, Cache: cache}
	h.Register(app.Group("/api/employees"), func(c *fiber.Ctx) error { return c.Next() })

	status, body := send(t, app, http.MethodPost, "/api/employees", `{"id":" emp-042 ","fullname":"Ada Lovelace","email":"ada@example.com"}`)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, []string{"emp-042"}, cache.forgotten)

	status, body = send(t, app, http.MethodPost, "/api/employees", `{"id":"emp-042","fullname":"Ada"}`)
	assert.Equal(t, http.StatusConflict, status, body)

	status, body = send(t, app, http.MethodPost, "/api/employees", `{"id":"emp-043","email":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, `"fullname"`)
	assert.Contains(t, body, `"email"`)

	status, body = send(t, app, http.MethodGet, "/api/employees/emp-042", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Ada Lovelace")
	assert.Equal(t, 1, cache.gets)

	status, body = send(t, app, http.MethodGet, "/api/employees/emp-404", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body, "employee_not_found")
}
