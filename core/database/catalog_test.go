package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestDatabaseExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT 1 FROM pg_database WHERE datname").
		WithArgs("acme").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := DatabaseExists(context.Background(), db, "acme")
	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseExistsMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT 1 FROM pg_database WHERE datname").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := DatabaseExists(context.Background(), db, "missing")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestTableExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT 1 FROM information_schema.tables").
		WithArgs("public", "orders").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := TableExists(context.Background(), db, "public", "orders")
	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestIndexExistsRejectsBadTableName(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	_, err = IndexExists(context.Background(), db, "orders; DROP TABLE x", "orders_idx")
	assert.Error(t, err)
	assert.Equal(t, CategorySyntax, CategoryOf(err))
}

func TestVersion(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	banner := "CockroachDB CCL v23.1.11 (x86_64-pc-linux-gnu, built 2023/10/02)"
	mock.ExpectQuery("SELECT version").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(banner))

	full, number, err := Version(context.Background(), db)
	assert.NoError(t, err)
	assert.Equal(t, banner, full)
	assert.Equal(t, "23.1.11", number)
}

func TestValidIdentifier(t *testing.T) {
	assert.True(t, ValidIdentifier("orders"))
	assert.True(t, ValidIdentifier("public.orders"))
	assert.True(t, ValidIdentifier("_private"))
	assert.False(t, ValidIdentifier("1orders"))
	assert.False(t, ValidIdentifier("orders; DROP"))
	assert.False(t, ValidIdentifier(""))
}

func TestQuoteLiteral(t *testing.T) {
	assert.Equal(t, "'plain'", QuoteLiteral("plain"))
	assert.Equal(t, "'it''s'", QuoteLiteral("it's"))
}
