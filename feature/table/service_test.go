package table

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testService(t *testing.T) (*Service, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	return NewService(db, zap.NewNop()), mock, func() { db.Close() }
}

func expectTableExists(mock sqlmock.Sqlmock, schema, name string, exists bool) {
	rows := sqlmock.NewRows([]string{"?column?"})
	if exists {
		rows.AddRow(1)
	}
	mock.ExpectQuery("SELECT 1 FROM information_schema.tables").
		WithArgs(schema, name).
		WillReturnRows(rows)
}

func TestCreateTableStatement(t *testing.T) {
	req := Request{
		Name:   "orders",
		Schema: "public",
		State:  "present",
		Columns: []Column{
			{Name: "id", Type: "UUID", PrimaryKey: true, Default: "gen_random_uuid()"},
			{Name: "customer_id", Type: "UUID", PrimaryKey: true},
			{Name: "note", Type: "STRING", Nullable: true},
		},
	}

	stmt, err := createStatement(req)
	assert.NoError(t, err)
	assert.Equal(t,
		"CREATE TABLE public.orders (id UUID NOT NULL DEFAULT gen_random_uuid(), "+
			"customer_id UUID NOT NULL, note STRING, PRIMARY KEY (id, customer_id))",
		stmt)
}

func TestCreateTableHashPartition(t *testing.T) {
	req := Request{
		Name: "orders", Schema: "public", State: "present",
		Columns:   []Column{{Name: "id", Type: "UUID", PrimaryKey: true}},
		Partition: &Partition{Kind: "hash", Columns: []string{"id"}, Buckets: 8},
	}

	stmt, err := createStatement(req)
	assert.NoError(t, err)
	assert.Contains(t, stmt, "PARTITION ALL BY HASH (id) WITH (bucket_count = 8)")
}

func TestCreateTableRangePartition(t *testing.T) {
	req := Request{
		Name: "events", Schema: "public", State: "present",
		Columns: []Column{{Name: "ts", Type: "TIMESTAMPTZ", PrimaryKey: true}},
		Partition: &Partition{
			Kind:    "range",
			Columns: []string{"ts"},
			Partitions: []PartitionSpec{
				{Name: "archive", Values: []string{"MINVALUE", "'2024-01-01'"}},
				{Name: "current", Values: []string{"'2024-01-01'", "MAXVALUE"}},
			},
		},
	}

	stmt, err := createStatement(req)
	assert.NoError(t, err)
	assert.Contains(t, stmt,
		"PARTITION BY RANGE (ts) (PARTITION archive VALUES FROM (MINVALUE) TO ('2024-01-01'), "+
			"PARTITION current VALUES FROM ('2024-01-01') TO (MAXVALUE))")
}

func TestRangePartitionNeedsBounds(t *testing.T) {
	_, err := partitionClause(Partition{
		Kind: "range", Columns: []string{"ts"},
		Partitions: []PartitionSpec{{Name: "bad", Values: []string{"only-one"}}},
	})
	assert.Error(t, err)
}

func TestReconcileCreatesMissingTable(t *testing.T) {
	svc, mock, done := testService(t)
	defer done()

	expectTableExists(mock, "public", "orders", false)
	mock.ExpectExec("CREATE TABLE public.orders").
		WillReturnResult(sqlmock.NewResult(0, 0))

	result, err := svc.Reconcile(context.Background(), Request{
		Name: "orders", State: "present",
		Columns: []Column{{Name: "id", Type: "UUID", PrimaryKey: true}},
	}, false)
	assert.NoError(t, err)
	assert.True(t, result.Changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcilePresentNoop(t *testing.T) {
	svc, mock, done := testService(t)
	defer done()

	expectTableExists(mock, "public", "orders", true)

	result, err := svc.Reconcile(context.Background(), Request{
		Name: "orders", State: "present",
		Columns: []Column{{Name: "id", Type: "UUID", PrimaryKey: true}},
	}, false)
	assert.NoError(t, err)
	assert.False(t, result.Changed)
}

func TestReconcileDropsTable(t *testing.T) {
	svc, mock, done := testService(t)
	defer done()

	expectTableExists(mock, "public", "orders", true)
	mock.ExpectExec(`DROP TABLE public\.orders`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	result, err := svc.Reconcile(context.Background(),
		Request{Name: "orders", State: "absent"}, false)
	assert.NoError(t, err)
	assert.True(t, result.Changed)
	assert.False(t, result.Exists)
}
