package postgres

import (
	"context"
	"testing"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBranch() *domain.Branch {
	return &domain.Branch{
		ID:        uuid.New(),
		Name:      "District 1",
		Code:      "HCM-01",
		ClientID:  uuid.New(),
		IsActive:  true,
		CreatedBy: uuid.New(),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func branchTestColumns() []string {
	return []string{"id", "name", "code", "client_id", "is_active", "created_by", "created_at"}
}

func branchRow(b *domain.Branch) *pgxmock.Rows {
	return pgxmock.NewRows(branchTestColumns()).AddRow(
		b.ID, b.Name, b.Code, b.ClientID, b.IsActive, b.CreatedBy, b.CreatedAt,
	)
}

func TestBranchRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBranchRepo(mock)
	b := newTestBranch()

	mock.ExpectExec("INSERT INTO branches").
		WithArgs(b.ID, b.Name, b.Code, b.ClientID, b.IsActive, b.CreatedBy, b.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), b)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBranchRepo_GetByCode(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBranchRepo(mock)
	b := newTestBranch()

	mock.ExpectQuery("SELECT .+ FROM branches WHERE code").
		WithArgs(b.Code).
		WillReturnRows(branchRow(b))

	result, err := repo.GetByCode(context.Background(), b.Code)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, b.ID, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBranchRepo_GetByCode_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBranchRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM branches WHERE code").
		WithArgs("NOPE-00").
		WillReturnRows(pgxmock.NewRows(branchTestColumns()))

	result, err := repo.GetByCode(context.Background(), "NOPE-00")
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBranchRepo_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBranchRepo(mock)
	b1, b2 := newTestBranch(), newTestBranch()

	mock.ExpectQuery("SELECT .+ FROM branches ORDER BY created_at DESC").
		WillReturnRows(branchRow(b1).AddRow(
			b2.ID, b2.Name, b2.Code, b2.ClientID, b2.IsActive, b2.CreatedBy, b2.CreatedAt,
		))

	branches, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, branches, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
