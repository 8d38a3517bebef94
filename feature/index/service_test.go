package index

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"crdb-admin/core/database"
)

func testService(t *testing.T) (*Service, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	return NewService(db, zap.NewNop()), mock, func() { db.Close() }
}

func expectIndexExists(mock sqlmock.Sqlmock, index string, exists bool) {
	rows := sqlmock.NewRows([]string{"?column?"})
	if exists {
		rows.AddRow(1)
	}
	mock.ExpectQuery(`SELECT 1 FROM \[SHOW INDEXES FROM orders\]`).
		WithArgs(index).
		WillReturnRows(rows)
}

func TestCreateStatement(t *testing.T) {
	stmt := createStatement(Request{
		Name: "orders_by_customer", Table: "orders",
		Columns: []string{"customer_id", "created_at"},
		Unique:  true,
		Storing: []string{"total"},
		Where:   "status = 'open'",
	})
	assert.Equal(t,
		"CREATE UNIQUE INDEX orders_by_customer ON orders (customer_id, created_at) "+
			"STORING (total) WHERE status = 'open'",
		stmt)
}

func TestReconcileCreatesMissingIndex(t *testing.T) {
	svc, mock, done := testService(t)
	defer done()

	expectIndexExists(mock, "orders_by_customer", false)
	mock.ExpectExec("CREATE INDEX orders_by_customer ON orders").
		WillReturnResult(sqlmock.NewResult(0, 0))

	result, err := svc.Reconcile(context.Background(), Request{
		Name: "orders_by_customer", Table: "orders", State: "present",
		Columns: []string{"customer_id"},
	}, false)
	assert.NoError(t, err)
	assert.True(t, result.Changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcilePresentNoop(t *testing.T) {
	svc, mock, done := testService(t)
	defer done()

	expectIndexExists(mock, "orders_by_customer", true)

	result, err := svc.Reconcile(context.Background(), Request{
		Name: "orders_by_customer", Table: "orders", State: "present",
		Columns: []string{"customer_id"},
	}, false)
	assert.NoError(t, err)
	assert.False(t, result.Changed)
}

func TestReconcileDropsIndex(t *testing.T) {
	svc, mock, done := testService(t)
	defer done()

	expectIndexExists(mock, "orders_by_customer", true)
	mock.ExpectExec("DROP INDEX orders@orders_by_customer").
		WillReturnResult(sqlmock.NewResult(0, 0))

	result, err := svc.Reconcile(context.Background(), Request{
		Name: "orders_by_customer", Table: "orders", State: "absent",
	}, false)
	assert.NoError(t, err)
	assert.True(t, result.Changed)
}

func TestReconcileRejectsInvalidColumn(t *testing.T) {
	svc, _, done := testService(t)
	defer done()

	_, err := svc.Reconcile(context.Background(), Request{
		Name: "idx", Table: "orders", State: "present",
		Columns: []string{"customer_id; DROP"},
	}, false)
	assert.Error(t, err)
	assert.Equal(t, database.CategorySyntax, database.CategoryOf(err))
}
