package store

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/aurabank/aura/internal/model"
)

type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	Prepare(query string) (*sql.Stmt, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

type Store struct {
	db DBTX
}

func NewStore(dbPath string, migrationsFS fs.FS) (*Store, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("can not create database directory %s: %w", dbDir, err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("can not open database : %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("can not connect with database : %w", err)
	}
	if err := runMigrations(db, migrationsFS); err != nil {
		return nil, fmt.Errorf("failed to migrate database : %w", err)
	}

	return &Store{db: db}, nil
}

// ExecTx runs fn against a transactional view of the store. The single-slot
// read-modify-write paths (SaveIdentity, LocalTransfer) go through here so a
// concurrent writer can never observe a half-updated slot.
func (s *Store) ExecTx(fn func(Repository) error) error {
	db, ok := s.db.(*sql.DB)
	if !ok {
		return fmt.Errorf("store is already in a transaction")
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	txStore := &Store{db: tx}

	err = fn(txStore)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %v, rb err: %v", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

func (s *Store) Close() error {
	if db, ok := s.db.(*sql.DB); ok {
		return db.Close()
	}
	return nil
}

func runMigrations(db *sql.DB, migrationsFS fs.FS) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to set up migrate driver : %w", err)
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create iofs source driver : %w", err)
	}

	m, err := migrate.NewWithInstance(
		"iofs",
		sourceDriver,
		"sqlite3",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to set up migrate instance : %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migration(up) : %w", err)
	}

	return nil
}

func (s *Store) SaveIdentity(identity model.Identity) error {
	// Wholesale overwrite of the single slot.
	_, err := s.db.Exec(`
		INSERT INTO identity (id, username, display_name, account_number, email, phone_number, secret_hash, stepup_hash, balance_cents, created_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			display_name = excluded.display_name,
			account_number = excluded.account_number,
			email = excluded.email,
			phone_number = excluded.phone_number,
			secret_hash = excluded.secret_hash,
			stepup_hash = excluded.stepup_hash,
			balance_cents = excluded.balance_cents,
			created_at = excluded.created_at;
	`,
		identity.Username,
		identity.DisplayName,
		identity.AccountNumber,
		identity.Email,
		identity.PhoneNumber,
		identity.SecretHash,
		identity.StepUpHash,
		identity.BalanceCents,
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save identity : %w", err)
	}
	return nil
}

func (s *Store) LoadIdentity() (*model.Identity, error) {
	row := s.db.QueryRow(`
		SELECT username, display_name, account_number, email, phone_number, secret_hash, stepup_hash, balance_cents
		FROM identity WHERE id = 1;
	`)

	var identity model.Identity
	err := row.Scan(
		&identity.Username,
		&identity.DisplayName,
		&identity.AccountNumber,
		&identity.Email,
		&identity.PhoneNumber,
		&identity.SecretHash,
		&identity.StepUpHash,
		&identity.BalanceCents,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotRegistered
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load identity : %w", err)
	}

	return &identity, nil
}

func (s *Store) IdentityExists() (bool, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM identity WHERE id = 1;`).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check identity : %w", err)
	}
	return count > 0, nil
}

func (s *Store) ClearIdentity() error {
	if _, err := s.db.Exec(`DELETE FROM identity WHERE id = 1;`); err != nil {
		return fmt.Errorf("failed to clear identity : %w", err)
	}
	return nil
}

func (s *Store) SaveSession(session model.Session) error {
	_, err := s.db.Exec(`
		INSERT INTO session (id, user_id, display_name, account_number, email, phone_number, balance_cents, last_synced_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			display_name = excluded.display_name,
			account_number = excluded.account_number,
			email = excluded.email,
			phone_number = excluded.phone_number,
			balance_cents = excluded.balance_cents,
			last_synced_at = excluded.last_synced_at;
	`,
		session.UserID,
		session.DisplayName,
		session.AccountNumber,
		session.Email,
		session.PhoneNumber,
		session.BalanceCents,
		session.LastSyncedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session : %w", err)
	}
	return nil
}

func (s *Store) LoadSession() (*model.Session, error) {
	row := s.db.QueryRow(`
		SELECT user_id, display_name, account_number, email, phone_number, balance_cents, last_synced_at
		FROM session WHERE id = 1;
	`)

	var session model.Session
	err := row.Scan(
		&session.UserID,
		&session.DisplayName,
		&session.AccountNumber,
		&session.Email,
		&session.PhoneNumber,
		&session.BalanceCents,
		&session.LastSyncedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session : %w", err)
	}

	return &session, nil
}

func (s *Store) UpdateSessionBalance(balanceCents int64) error {
	res, err := s.db.Exec(`
		UPDATE session SET balance_cents = ?, last_synced_at = ? WHERE id = 1;
	`, balanceCents, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to update session balance : %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoSession
	}
	return nil
}

func (s *Store) ClearSession() error {
	if _, err := s.db.Exec(`DELETE FROM session WHERE id = 1;`); err != nil {
		return fmt.Errorf("failed to clear session : %w", err)
	}
	return nil
}

// LocalTransfer debits the cached balance and records the transaction. The
// store acts as the authority in local-fallback mode: the debit happens in
// one transaction and the caller copies the returned balance wholesale.
func (s *Store) LocalTransfer(recipientAccount string, amountCents int64, timestamp string) (int64, error) {
	var newBalance int64

	doTransfer := func(r Repository) error {
		identity, err := r.LoadIdentity()
		if err != nil {
			return err
		}
		if identity.BalanceCents < amountCents {
			return ErrInsufficientFunds
		}

		newBalance = identity.BalanceCents - amountCents
		identity.BalanceCents = newBalance
		if err := r.SaveIdentity(*identity); err != nil {
			return err
		}

		txSQL := r.(*Store)
		_, err = txSQL.db.Exec(`
			INSERT INTO local_transactions (counterparty_name, amount_cents, direction, timestamp)
			VALUES (?, ?, ?, ?);
		`, recipientAccount, amountCents, string(model.DirectionSent), timestamp)
		if err != nil {
			return fmt.Errorf("failed to record local transaction : %w", err)
		}
		return nil
	}

	// Already inside a transaction when called through ExecTx.
	if _, isDB := s.db.(*sql.DB); !isDB {
		if err := doTransfer(s); err != nil {
			return 0, err
		}
		return newBalance, nil
	}

	if err := s.ExecTx(doTransfer); err != nil {
		return 0, err
	}
	return newBalance, nil
}

func (s *Store) LocalTransactions() ([]model.Transaction, error) {
	rows, err := s.db.Query(`
		SELECT counterparty_name, amount_cents, direction, timestamp
		FROM local_transactions
		ORDER BY id DESC;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query local transactions : %w", err)
	}
	defer rows.Close()

	var txs []model.Transaction
	for rows.Next() {
		var tx model.Transaction
		var direction string
		if err := rows.Scan(&tx.CounterpartyName, &tx.AmountCents, &direction, &tx.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan local transaction : %w", err)
		}
		tx.Direction = model.Direction(direction)
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}
