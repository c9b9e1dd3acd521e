package workflow

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mesa-desk/mesa/internal/auth"
	"github.com/mesa-desk/mesa/internal/model"
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

func testActor() *auth.Actor {
	return &auth.Actor{UserID: 1, UserName: "admin"}
}

func expectWorkflowLookup(mock sqlmock.Sqlmock, workflowID uint, active bool, stepCount int) {
	mock.ExpectQuery(`SELECT \* FROM "workflows"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "is_active"}).
			AddRow(workflowID, "Hardware Repair", active))

	stepRows := sqlmock.NewRows([]string{"id", "workflow_id", "step_name", "step_type", "step_order"})
	for i := 1; i <= stepCount; i++ {
		stepRows.AddRow(i, workflowID, "Template Step", "Review", i)
	}
	mock.ExpectQuery(`SELECT \* FROM "workflow_steps"`).WillReturnRows(stepRows)
}

func TestService_Apply_ReplacesActiveSteps(t *testing.T) {
	db, mock := setupTestDB(t)
	service := NewService(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT \* FROM "requests"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(1, "COMPLETED"))
	expectWorkflowLookup(mock, 5, true, 3)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "request_steps"`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	for i := 0; i < 3; i++ {
		mock.ExpectQuery(`INSERT INTO "request_steps"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10 + i))
	}
	mock.ExpectQuery(`INSERT INTO "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	req, err := service.Apply(ctx, testActor(), 1, 5)

	assert.NoError(t, err)
	// Already completed, so no Pending to InProgress transition fires.
	assert.Equal(t, model.RequestStatusCompleted, req.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Apply_PendingRequestMovesToInProgress(t *testing.T) {
	db, mock := setupTestDB(t)
	service := NewService(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT \* FROM "requests"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(1, "PENDING"))
	expectWorkflowLookup(mock, 5, true, 1)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "request_steps"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "request_steps"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectExec(`UPDATE "requests" SET "status"=\$1,"updated_at"=\$2,"updated_by"=\$3 WHERE id = \$4`).
		WithArgs("IN_PROGRESS", sqlmock.AnyArg(), "admin", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	req, err := service.Apply(ctx, testActor(), 1, 5)

	assert.NoError(t, err)
	assert.Equal(t, model.RequestStatusInProgress, req.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Apply_CopiesTemplateSequenceInOrder(t *testing.T) {
	db, mock := setupTestDB(t)
	service := NewService(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT \* FROM "requests"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(1, "IN_PROGRESS"))

	// Template rows arrive shuffled; the new steps must still be created in
	// ascending template order with name, type and role copied verbatim.
	mock.ExpectQuery(`SELECT \* FROM "workflows"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "is_active"}).
			AddRow(5, "Hardware Repair", true))
	mock.ExpectQuery(`SELECT \* FROM "workflow_steps"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "workflow_id", "step_name", "step_type", "step_order", "role_id"}).
			AddRow(3, 5, "Close", "Approval", 3, 30).
			AddRow(1, 5, "Diagnose", "Review", 1, 10).
			AddRow(2, 5, "Repair", "Work", 2, 20))
	mock.ExpectQuery(`SELECT \* FROM "roles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10).AddRow(20).AddRow(30))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "request_steps"`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	wantSteps := []struct {
		name     string
		stepType string
		order    int
		roleID   int
	}{
		{"Diagnose", "Review", 1, 10},
		{"Repair", "Work", 2, 20},
		{"Close", "Approval", 3, 30},
	}
	for i, want := range wantSteps {
		// Insert columns follow the struct layout: audit fields, soft-delete
		// flag, then request_id, step_name, step_type, step_order, status,
		// assigned_to_id, role_id, completed_at, notes.
		mock.ExpectQuery(`INSERT INTO "request_steps"`).
			WithArgs(
				sqlmock.AnyArg(), sqlmock.AnyArg(), "admin", "", false,
				1, want.name, want.stepType, want.order, "PENDING",
				nil, want.roleID, nil, nil,
			).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10 + i))
	}
	mock.ExpectQuery(`INSERT INTO "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	_, err := service.Apply(ctx, testActor(), 1, 5)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Apply_RollsBackOnStepFailure(t *testing.T) {
	db, mock := setupTestDB(t)
	service := NewService(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT \* FROM "requests"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(1, "IN_PROGRESS"))
	expectWorkflowLookup(mock, 5, true, 2)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "request_steps"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(`INSERT INTO "request_steps"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectQuery(`INSERT INTO "request_steps"`).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, err := service.Apply(ctx, testActor(), 1, 5)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Apply_InactiveWorkflowRejected(t *testing.T) {
	db, mock := setupTestDB(t)
	service := NewService(db)

	mock.ExpectQuery(`SELECT \* FROM "requests"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(1, "PENDING"))
	expectWorkflowLookup(mock, 5, false, 1)

	_, err := service.Apply(context.Background(), testActor(), 1, 5)

	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestService_Apply_UnknownRequest(t *testing.T) {
	db, mock := setupTestDB(t)
	service := NewService(db)

	mock.ExpectQuery(`SELECT \* FROM "requests"`).WillReturnError(gorm.ErrRecordNotFound)

	_, err := service.Apply(context.Background(), testActor(), 42, 5)

	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestService_Create_RejectsDuplicateName(t *testing.T) {
	db, mock := setupTestDB(t)
	service := NewService(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "workflows"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := service.Create(context.Background(), testActor(), &CreateWorkflowInput{
		Name:  "Hardware Repair",
		Steps: []StepInput{{StepName: "Review", Order: 1}},
	})

	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestCreateWorkflowInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateWorkflowInput
		wantErr bool
	}{
		{
			name: "valid",
			input: CreateWorkflowInput{
				Name:  "Hardware Repair",
				Steps: []StepInput{{StepName: "Review", Order: 1}},
			},
		},
		{
			name:    "missing name",
			input:   CreateWorkflowInput{Steps: []StepInput{{StepName: "Review", Order: 1}}},
			wantErr: true,
		},
		{
			name:    "no steps",
			input:   CreateWorkflowInput{Name: "Hardware Repair"},
			wantErr: true,
		},
		{
			name: "unnamed step",
			input: CreateWorkflowInput{
				Name:  "Hardware Repair",
				Steps: []StepInput{{StepName: "  ", Order: 1}},
			},
			wantErr: true,
		},
		{
			name: "non-positive order",
			input: CreateWorkflowInput{
				Name:  "Hardware Repair",
				Steps: []StepInput{{StepName: "Review", Order: 0}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
