package pgdb

import (
	"context"
	"database/sql"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	_ "github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

// Open connects to postgres and wraps the connection in bun. A database
// that cannot be reached at startup is fatal.
func Open(ctx context.Context, dsn string) *bun.DB {
	conn, err := sql.Open("pg", dsn)
	if err != nil {
		logrus.WithError(err).Fatalln("Could not open postgres connection.")
	}
	if err := conn.PingContext(ctx); err != nil {
		logrus.WithError(err).Fatalln("Could not reach postgres.")
	}

	db := bun.NewDB(conn, pgdialect.New())
	if os.Getenv("DB_VERBOSE") == "true" {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

// Integration tests need a real postgres instance, and starting one per
// test is too slow. The testenv harness boots a single container, then
// publishes its datasource to every test process through the environment.

const testDsnEnv = "PGDB_DSN"

func OpenTest(ctx context.Context) *bun.DB {
	return Open(ctx, TestEnvDsn())
}

func TestEnvDsn() string {
	return os.Getenv(testDsnEnv)
}

func SetTestEnvDsn(dsn string) {
	os.Setenv(testDsnEnv, dsn)
}
