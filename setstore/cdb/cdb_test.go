package cdb

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	check "gopkg.in/check.v1"

	"github.com/mycok/setmatch/oaiset/storetest"
)

// Initialize and register an instance of the cockroachDBSetStoreTestSuite to
// be executed by check testing package.
var _ = check.Suite(new(cockroachDBSetStoreTestSuite))

// Test registers the [check] library with the go testing library and enables
// the running of the test suite using the go testing library.
func Test(t *testing.T) {
	check.TestingT(t)
}

// cockroachDBSetStoreTestSuite embeds and runs the BaseSuite tests methods.
type cockroachDBSetStoreTestSuite struct {
	// Keep track of the sql.DB instance from the store implementation
	// so we can execute SQL statements to reset the db between tests.
	db *sql.DB
	storetest.BaseSuite
}

// SetUpSuite runs only once before all tests in the test suite. it's
// responsible for setting up required resources necessary for
// running the entire suite. ie database setup or reset.
func (s *cockroachDBSetStoreTestSuite) SetUpSuite(c *check.C) {
	dsn := os.Getenv("CDB_DSN")
	if dsn == "" {
		c.Skip("Missing CDB_DSN envvar: skipping cockroachDB backed test suite")
	}

	store, err := NewCockroachDBSetStore(dsn)
	if err != nil {
		c.Fatalf("Failed to make a database connection: %v", err)
	}

	s.SetStore(store)
	// Pass store db instance reference forward to the suite.
	s.db = store.db

	s.createSchema(c)
}

// TearDownSuite runs only once after the entire test suite has completed
// running. it resets the database and closes the db connection if open.
func (s *cockroachDBSetStoreTestSuite) TearDownSuite(c *check.C) {
	if s.db != nil {
		s.flushDB(c)
		c.Assert(s.db.Close(), check.IsNil)
	}
}

// SetUpTest runs before each test in the test suite. it's
// responsible for setting up the necessary environment for
// running that specific test. ie database reset.
func (s *cockroachDBSetStoreTestSuite) SetUpTest(c *check.C) {
	s.flushDB(c)
}

func (s *cockroachDBSetStoreTestSuite) createSchema(c *check.C) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sets (
			spec STRING PRIMARY KEY,
			name STRING NOT NULL DEFAULT '',
			description STRING NOT NULL DEFAULT '',
			search_pattern STRING NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
	)
	c.Assert(err, check.IsNil)
}

// flushDB helper resets the database by deleting all set definition entries
// from the sets table.
func (s *cockroachDBSetStoreTestSuite) flushDB(c *check.C) {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	_, err := s.db.ExecContext(ctx, "TRUNCATE sets")
	c.Assert(err, check.IsNil)
}
