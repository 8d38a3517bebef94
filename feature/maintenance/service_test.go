package maintenance

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

func TestGCTTLNoopWhenMatching(t *testing.T) {
	svc, mock, done := testService(t)
	defer done()

	mock.ExpectQuery("SHOW ZONE CONFIGURATION FOR TABLE orders").
		WillReturnRows(sqlmock.NewRows([]string{"raw_config_sql"}).
			AddRow("ALTER TABLE orders CONFIGURE ZONE USING gc.ttlseconds = 90000"))

	result, err := svc.Run(context.Background(), Request{
		Operation: "gc_ttl", Target: "orders", TTLSeconds: 90000,
	}, false)
	assert.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, 90000, result.TTL)
}

func TestGCTTLAltersOnDiff(t *testing.T) {
	svc, mock, done := testService(t)
	defer done()

	mock.ExpectQuery("SHOW ZONE CONFIGURATION FOR TABLE orders").
		WillReturnRows(sqlmock.NewRows([]string{"raw_config_sql"}).
			AddRow("ALTER TABLE orders CONFIGURE ZONE USING gc.ttlseconds = 90000"))
	mock.ExpectExec("ALTER TABLE orders CONFIGURE ZONE USING gc.ttlseconds = 3600").
		WillReturnResult(sqlmock.NewResult(0, 0))

	result, err := svc.Run(context.Background(), Request{
		Operation: "gc_ttl", Target: "orders", TTLSeconds: 3600,
	}, false)
	assert.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, 3600, result.TTL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNodeStatus(t *testing.T) {
	svc, mock, done := testService(t)
	defer done()

	mock.ExpectQuery("SELECT node_id, address, build_tag, is_live FROM crdb_internal.gossip_nodes").
		WillReturnRows(sqlmock.NewRows([]string{"node_id", "address", "build_tag", "is_live"}).
			AddRow(int64(1), "10.0.0.1:26257", "v23.1.11", "true").
			AddRow(int64(2), "10.0.0.2:26257", "v23.1.11", "false"))

	result, err := svc.Run(context.Background(), Request{Operation: "node_status"}, false)
	assert.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Len(t, result.Nodes, 2)
	assert.True(t, result.Nodes[0].Live)
	assert.False(t, result.Nodes[1].Live)
}

func TestCancelQuery(t *testing.T) {
	svc, mock, done := testService(t)
	defer done()

	mock.ExpectExec("CANCEL QUERY '16fd35d6095e4b7a0000000000000001'").
		WillReturnResult(sqlmock.NewResult(0, 1))

	result, err := svc.Run(context.Background(), Request{
		Operation: "cancel_query", ID: "16fd35d6095e4b7a0000000000000001",
	}, false)
	assert.NoError(t, err)
	assert.True(t, result.Changed)
}

func TestCancelRejectsMalformedID(t *testing.T) {
	svc, _, done := testService(t)
	defer done()

	_, err := svc.Run(context.Background(), Request{
		Operation: "cancel_session", ID: "'; DROP TABLE jobs",
	}, false)
	assert.Error(t, err)
}

func TestUnknownOperation(t *testing.T) {
	svc, _, done := testService(t)
	defer done()

	_, err := svc.Run(context.Background(), Request{Operation: "defrag"}, false)
	assert.Error(t, err)
}
