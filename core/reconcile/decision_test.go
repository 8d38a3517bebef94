package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"crdb-admin/core/database"
)

func TestDecisionAppend(t *testing.T) {
	var d Decision
	assert.False(t, d.Changed)

	d.Append("GRANT SELECT ON TABLE public.orders TO analyst")
	assert.True(t, d.Changed)
	assert.Len(t, d.Statements, 1)
}

func TestApplyExecutesInOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	var d Decision
	d.Append("SET CLUSTER SETTING kv.rangefeed.enabled = true")
	d.Append("SET CLUSTER SETTING sql.defaults.distsql = 'on'")

	mock.ExpectExec("SET CLUSTER SETTING kv.rangefeed.enabled").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("SET CLUSTER SETTING sql.defaults.distsql").
		WillReturnResult(sqlmock.NewResult(0, 0))

	executed, err := Apply(context.Background(), db, d, false)
	assert.NoError(t, err)
	assert.Equal(t, d.Statements, executed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyCheckModeExecutesNothing(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	var d Decision
	d.Append("DROP DATABASE acme")

	executed, err := Apply(context.Background(), db, d, true)
	assert.NoError(t, err)
	assert.Empty(t, executed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyStopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	var d Decision
	d.Append("CREATE DATABASE acme")
	d.Append("ALTER DATABASE acme OWNER TO app")

	mock.ExpectExec("CREATE DATABASE acme").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ALTER DATABASE acme OWNER TO app").
		WillReturnError(errors.New(`role "app" does not exist`))

	executed, err := Apply(context.Background(), db, d, false)
	assert.Error(t, err)
	assert.True(t, database.IsNotFound(err))
	assert.Equal(t, []string{"CREATE DATABASE acme"}, executed)
}
