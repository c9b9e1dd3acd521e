package user

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mesa-desk/mesa/internal/auth"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}
	return db, mock
}

func TestGetHandler_MeResolvesActingUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock := setupTestDB(t)
	svc := NewService(db)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "login", "is_active"}).
			AddRow(9, "Alice", "alice@example.com", "alice", true))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	c.Params = gin.Params{{Key: "id", Value: "me"}}
	auth.SetActor(c, &auth.Actor{UserID: 9, UserName: "Alice"})

	getHandler(svc)(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"login":"alice"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHandler_MeWithoutActorIsUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, _ := setupTestDB(t)
	svc := NewService(db)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	c.Params = gin.Params{{Key: "id", Value: "me"}}

	getHandler(svc)(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetHandler_NumericIDStillWorks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock := setupTestDB(t)
	svc := NewService(db)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "login", "is_active"}).
			AddRow(7, "Bob", "bob@example.com", "bob", true))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/users/7", nil)
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	getHandler(svc)(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"login":"bob"`)
}
