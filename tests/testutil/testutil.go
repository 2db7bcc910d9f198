// Package testutil holds helpers shared by the FieldOps test suites:
// sqlmock-backed GORM handles, Gin test contexts and polling assertions.
package testutil

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fieldops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockDB wraps a GORM database with sqlmock for testing.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB creates a GORM handle speaking the postgres dialect to sqlmock.
// The connection is closed when the test ends.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err, "Failed to open GORM connection")

	t.Cleanup(func() {
		_ = mockDB.Close()
	})
	return &MockDB{DB: gormDB, Mock: mock, SqlDB: mockDB}
}

// ExpectationsWereMet verifies that all expectations were met.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet(), "Unmet database expectations")
}

// TestContext wraps a Gin test context with HTTP recorder.
type TestContext struct {
	Context  *gin.Context
	Recorder *httptest.ResponseRecorder
	Engine   *gin.Engine
}

// NewTestContext creates a Gin test context holding a GET / request.
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()
	return NewTestContextWithRequest(t, httptest.NewRequest(http.MethodGet, "/", nil))
}

// NewTestContextWithRequest creates a Gin test context around req.
func NewTestContextWithRequest(t *testing.T, req *http.Request) *TestContext {
	t.Helper()

	w := httptest.NewRecorder()
	c, engine := gin.CreateTestContext(w)
	c.Request = req
	return &TestContext{Context: c, Recorder: w, Engine: engine}
}

// SetRequestID stores id the way the RequestID middleware does.
func (tc *TestContext) SetRequestID(id string) {
	tc.Context.Set(middleware.RequestIDKey, id)
}

// SetSupervisorID marks the request as authenticated by the supervisor.
func (tc *TestContext) SetSupervisorID(id uuid.UUID) {
	tc.Context.Set(middleware.JWTUserIDKey, id.String())
}

// SetHeader sets a header on the request.
func (tc *TestContext) SetHeader(key, value string) {
	tc.Context.Request.Header.Set(key, value)
}

// ResponseBody returns the response body as bytes.
func (tc *TestContext) ResponseBody() []byte {
	return tc.Recorder.Body.Bytes()
}

// ResponseCode returns the HTTP status code.
func (tc *TestContext) ResponseCode() int {
	return tc.Recorder.Code
}

// NewTestUUID derives a deterministic UUID from seed.
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// TestSupervisorID returns the supervisor id shared by fixtures.
func TestSupervisorID() uuid.UUID {
	return NewTestUUID("test-supervisor")
}

// ContextWithTimeout creates a context cancelled when the test ends or timeout elapses.
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// AssertEventually polls condition until it holds or timeout elapses.
func AssertEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...any) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}
	require.Fail(t, "Condition not met within timeout", msgAndArgs...)
}

// AssertNever verifies condition stays false for duration.
func AssertNever(t *testing.T, condition func() bool, duration, interval time.Duration, msgAndArgs ...any) {
	t.Helper()

	deadline := time.Now().Add(duration)
	for time.Now().Before(deadline) {
		if condition() {
			require.Fail(t, "Condition unexpectedly became true", msgAndArgs...)
		}
		time.Sleep(interval)
	}
}
