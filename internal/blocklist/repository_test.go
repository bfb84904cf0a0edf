package blocklist

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newRepoWithMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewRepository(db), mock
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO "blocklist_items"`).
		WithArgs(uint(4), "netflix.com", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	item := &Item{UserID: 4, Website: "netflix.com"}
	require.NoError(t, repo.Create(context.Background(), item))
	assert.Equal(t, uint(11), item.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByUser(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "blocklist_items" WHERE user_id = \$1 ORDER BY id`).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "website", "created_at"}).
			AddRow(1, 4, "youtube.com", now).
			AddRow(2, 4, "reddit.com", now))

	items, err := repo.ListByUser(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "youtube.com", items[0].Website)
	assert.Equal(t, "reddit.com", items[1].Website)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Exists(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "blocklist_items" WHERE user_id = \$1 AND website = \$2`).
		WithArgs(4, "reddit.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := repo.Exists(context.Background(), 4, "reddit.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteByWebsite(t *testing.T) {
	tests := []struct {
		name    string
		rows    int64
		wantErr error
	}{
		{name: "deleted", rows: 1},
		{name: "not blocked", rows: 0, wantErr: ErrNotBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepoWithMock(t)

			mock.ExpectExec(`DELETE FROM "blocklist_items" WHERE user_id = \$1 AND website = \$2`).
				WithArgs(4, "reddit.com").
				WillReturnResult(sqlmock.NewResult(0, tt.rows))

			err := repo.DeleteByWebsite(context.Background(), 4, "reddit.com")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
