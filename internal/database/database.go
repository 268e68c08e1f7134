// Package database keeps a local SQLite record of campaign runs and
// of the cycles each run submitted.
package database

import (
	"database/sql"
	"embed"

	"github.com/apex/log"
	"github.com/pkg/errors"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/upper/db/v4"
	"github.com/upper/db/v4/adapter/sqlite"
)

//go:embed migrations/*.sql
var efs embed.FS

// Database is a campaign database.
type Database struct {
	sess db.Session
}

// RunMigrations runs the database migrations.
func RunMigrations(sqlDB *sql.DB) error {
	migrations := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: efs,
		Root:       "migrations",
	}
	n, err := migrate.Exec(sqlDB, "sqlite3", migrations, migrate.Up)
	if err != nil {
		return errors.Wrap(err, "running migrations")
	}
	log.Debugf("performed %d migrations", n)
	return nil
}

// Open opens the database at the given path and runs the
// migrations. The file is created if it does not exist.
func Open(path string) (*Database, error) {
	sess, err := sqlite.Open(sqlite.ConnectionURL{Database: path})
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err := RunMigrations(sess.Driver().(*sql.DB)); err != nil {
		sess.Close()
		return nil, err
	}
	return &Database{sess: sess}, nil
}

// Session returns the underlying session.
func (d *Database) Session() db.Session {
	return d.sess
}

// Close closes the database.
func (d *Database) Close() error {
	return d.sess.Close()
}
