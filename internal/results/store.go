package results

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/iyisakuma/stencil2d-go/internal/monitoring"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store persists records in a SQLite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the database at path and applies any pending
// migrations.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("results: open %s: %w", path, err)
	}
	// sqlite serialises writers anyway; one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) newMigrate() (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("results: migration source: %w", err)
	}
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("results: sqlite migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("results: create migrate instance: %w", err)
	}
	m.Log = migrateLogger{}
	return m, nil
}

// migrateUp does not close the migrate instance since that would close the
// shared database handle.
func (s *Store) migrateUp() error {
	m, err := s.newMigrate()
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("results: migration up failed: %w", err)
	}
	return nil
}

// MigrateVersion returns the applied schema version.
func (s *Store) MigrateVersion() (version uint, dirty bool, err error) {
	m, err := s.newMigrate()
	if err != nil {
		return 0, false, err
	}
	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// Insert implements Sink.
func (s *Store) Insert(r Record) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (
			run_id, backend, nx, ny, nz, num_iter, num_halo,
			precision_bits, workers, elapsed_ns, mass, result_path, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.Backend, r.Nx, r.Ny, r.Nz, r.NumIter, r.NumHalo,
		r.Precision, r.Workers, r.Elapsed.Nanoseconds(), r.Mass, r.Path,
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("results: insert run %s: %w", r.ID, err)
	}
	return nil
}

// List returns every stored record ordered by creation time.
func (s *Store) List() ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT run_id, backend, nx, ny, nz, num_iter, num_halo,
		       precision_bits, workers, elapsed_ns, mass, result_path, created_at
		FROM runs
		ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("results: list runs: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r         Record
			id        string
			elapsedNs int64
			created   string
		)
		if err := rows.Scan(&id, &r.Backend, &r.Nx, &r.Ny, &r.Nz, &r.NumIter, &r.NumHalo,
			&r.Precision, &r.Workers, &elapsedNs, &r.Mass, &r.Path, &created); err != nil {
			return nil, fmt.Errorf("results: scan run: %w", err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("results: run id %q: %w", id, err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("results: created_at %q: %w", created, err)
		}
		r.Elapsed = time.Duration(elapsedNs)
		out = append(out, r)
	}
	return out, rows.Err()
}

// migrateLogger implements migrate.Logger.
type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...interface{}) {
	monitoring.Logf("[migrate] "+format, v...)
}

func (migrateLogger) Verbose() bool { return false }
