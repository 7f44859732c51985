package resettokens

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	consumeQ = `(?s)^\s*INSERT\s+INTO\s+consumed_reset_tokens\s*\(jti,\s*user_id,\s*expires_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*ON\s+CONFLICT\s*\(jti\)\s*DO\s+NOTHING\s*$`
	purgeQ   = `(?s)^\s*DELETE\s+FROM\s+consumed_reset_tokens\s+WHERE\s+expires_at\s*<\s*\$1\s*$`
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestConsume(t *testing.T) {
	exp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	token := &models.ConsumedResetToken{ID: "jti-1", UserID: "u-1", ExpiresAt: exp}

	t.Run("first use", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(consumeQ).WithArgs("jti-1", "u-1", exp).WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Consume(context.Background(), token))
	})

	t.Run("second use", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(consumeQ).WithArgs("jti-1", "u-1", exp).WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Consume(context.Background(), token), common.ErrTokenAlreadyUsed)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(consumeQ).WithArgs("jti-1", "u-1", exp).WillReturnError(errors.New("boom"))

		err := repo.Consume(context.Background(), token)
		require.Error(t, err)
		assert.NotErrorIs(t, err, common.ErrTokenAlreadyUsed)
	})

	t.Run("rows affected error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(consumeQ).WithArgs("jti-1", "u-1", exp).
			WillReturnResult(sqlmock.NewErrorResult(errors.New("no count")))

		err := repo.Consume(context.Background(), token)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rows affected error")
	})
}

func TestPurgeExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	repo, mock := newRepoWithMock(t)
	mock.ExpectExec(purgeQ).WithArgs(now).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(purgeQ).WithArgs(now).WillReturnError(errors.New("boom"))

	n, err := repo.PurgeExpired(context.Background(), now)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	_, err = repo.PurgeExpired(context.Background(), now)
	assert.Error(t, err)
}
