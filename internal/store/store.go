// Package store is the process-local persistent side of the builder: the
// saved company settings, the invoice sequence counter and the history of
// generated invoices, kept in a SQLite database under the user's home.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/malick/facture-mcp/internal/currency"
	"github.com/malick/facture-mcp/internal/logger"
	"github.com/malick/facture-mcp/internal/models"
)

type Store struct {
	db  *sql.DB
	log *logger.Logger
}

// DefaultPath returns ~/.facture/db.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".facture", "db"), nil
}

// Open opens (creating if needed) the database at path and brings its schema
// up to date.
func Open(path string, log *logger.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, log: log}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		company_name TEXT NOT NULL DEFAULT '',
		company_phone TEXT NOT NULL DEFAULT '',
		company_address TEXT NOT NULL DEFAULT '',
		company_email TEXT NOT NULL DEFAULT '',
		company_website TEXT NOT NULL DEFAULT '',
		currency TEXT NOT NULL DEFAULT 'XOF',
		next_sequence INTEGER NOT NULL DEFAULT 1,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS invoices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		invoice_number TEXT NOT NULL UNIQUE,
		client_name TEXT NOT NULL,
		currency TEXT NOT NULL,
		subtotal TEXT NOT NULL,
		amount_paid TEXT NOT NULL,
		status TEXT NOT NULL,
		pdf_path TEXT,
		issue_date DATE NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_invoices_issue_date ON invoices(issue_date);
	CREATE INDEX IF NOT EXISTS idx_invoices_status ON invoices(status);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

type migration struct {
	name  string
	apply func(*sql.DB) error
}

func (s *Store) runMigrations() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY,
			name TEXT UNIQUE NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations := []migration{
		{
			name: "add_logo_to_settings",
			apply: func(db *sql.DB) error {
				return addColumnIfNotExists(db, "settings", "logo", "BLOB")
			},
		},
	}

	for _, m := range migrations {
		var count int
		err := s.db.QueryRow("SELECT COUNT(*) FROM migrations WHERE name = ?", m.name).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to check migration %s: %w", m.name, err)
		}
		if count > 0 {
			continue
		}

		if err := m.apply(s.db); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.name, err)
		}

		if _, err := s.db.Exec("INSERT INTO migrations (name) VALUES (?)", m.name); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", m.name, err)
		}

		s.log.Infow("applied migration", "name", m.name)
	}

	return nil
}

func addColumnIfNotExists(db *sql.DB, tableName, columnName, columnType string) error {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", tableName))
	if err != nil {
		return fmt.Errorf("failed to get table info for %s: %w", tableName, err)
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, dataType string
		var notNull, primaryKey int
		var defaultValue *string
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &defaultValue, &primaryKey); err != nil {
			return fmt.Errorf("failed to scan column info: %w", err)
		}
		if name == columnName {
			return nil
		}
	}

	_, err = db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", tableName, columnName, columnType))
	if err != nil {
		return fmt.Errorf("failed to add column %s to %s: %w", columnName, tableName, err)
	}

	return nil
}

// LoadSettings returns the saved settings, or usable defaults (empty company,
// default currency) when nothing has been saved yet.
func (s *Store) LoadSettings() (models.Settings, error) {
	settings := models.Settings{CurrencyCode: currency.DefaultCode}

	err := s.db.QueryRow(`
		SELECT company_name, company_phone, company_address, company_email, company_website, currency, logo
		FROM settings WHERE id = 1
	`).Scan(
		&settings.Company.Name,
		&settings.Company.Phone,
		&settings.Company.Address,
		&settings.Company.Email,
		&settings.Company.Website,
		&settings.CurrencyCode,
		&settings.Logo,
	)
	if err == sql.ErrNoRows {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("failed to load settings: %w", err)
	}

	if settings.CurrencyCode == "" {
		settings.CurrencyCode = currency.DefaultCode
	}

	return settings, nil
}

// SaveSettings writes the single settings row, preserving the sequence
// counter.
func (s *Store) SaveSettings(settings models.Settings) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (id, company_name, company_phone, company_address, company_email, company_website, currency, logo, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			company_name = excluded.company_name,
			company_phone = excluded.company_phone,
			company_address = excluded.company_address,
			company_email = excluded.company_email,
			company_website = excluded.company_website,
			currency = excluded.currency,
			logo = excluded.logo,
			updated_at = excluded.updated_at
	`,
		settings.Company.Name,
		settings.Company.Phone,
		settings.Company.Address,
		settings.Company.Email,
		settings.Company.Website,
		settings.CurrencyCode,
		settings.Logo,
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// NextSequence returns the current invoice sequence number and advances the
// counter, atomically.
func (s *Store) NextSequence() (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT OR IGNORE INTO settings (id) VALUES (1)`); err != nil {
		return 0, fmt.Errorf("failed to ensure settings row: %w", err)
	}

	var sequence int
	if err := tx.QueryRow(`SELECT next_sequence FROM settings WHERE id = 1`).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to read sequence: %w", err)
	}

	if _, err := tx.Exec(`UPDATE settings SET next_sequence = next_sequence + 1 WHERE id = 1`); err != nil {
		return 0, fmt.Errorf("failed to advance sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return sequence, nil
}

// PeekSequence returns the sequence number the next invoice will get,
// without advancing the counter. Previews use it so previewing never burns
// an invoice number.
func (s *Store) PeekSequence() (int, error) {
	if _, err := s.db.Exec(`INSERT OR IGNORE INTO settings (id) VALUES (1)`); err != nil {
		return 0, fmt.Errorf("failed to ensure settings row: %w", err)
	}

	var sequence int
	if err := s.db.QueryRow(`SELECT next_sequence FROM settings WHERE id = 1`).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to read sequence: %w", err)
	}
	return sequence, nil
}

// RecordInvoice appends one generated invoice to the history.
func (s *Store) RecordInvoice(rec models.InvoiceRecord) (int, error) {
	result, err := s.db.Exec(`
		INSERT INTO invoices (invoice_number, client_name, currency, subtotal, amount_paid, status, pdf_path, issue_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.InvoiceNumber,
		rec.ClientName,
		rec.CurrencyCode,
		rec.Subtotal.String(),
		rec.AmountPaid.String(),
		rec.Status.String(),
		rec.PDFPath,
		rec.IssueDate.Format("2006-01-02"),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record invoice: %w", err)
	}

	id, _ := result.LastInsertId()
	return int(id), nil
}

// ListInvoices returns the generated-invoice history, newest first.
func (s *Store) ListInvoices() ([]models.InvoiceRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, invoice_number, client_name, currency, subtotal, amount_paid, status, pdf_path, issue_date, created_at
		FROM invoices
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var records []models.InvoiceRecord
	for rows.Next() {
		var rec models.InvoiceRecord
		var subtotal, amountPaid, status string
		var pdfPath sql.NullString
		// issue_date is declared DATE, so the driver hands it back as a
		// time.Time already.
		if err := rows.Scan(&rec.ID, &rec.InvoiceNumber, &rec.ClientName, &rec.CurrencyCode,
			&subtotal, &amountPaid, &status, &pdfPath, &rec.IssueDate, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}

		rec.Subtotal, err = decimal.NewFromString(subtotal)
		if err != nil {
			return nil, fmt.Errorf("failed to parse subtotal for %s: %w", rec.InvoiceNumber, err)
		}
		rec.AmountPaid, err = decimal.NewFromString(amountPaid)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount paid for %s: %w", rec.InvoiceNumber, err)
		}
		rec.Status = models.PaymentStatus(status)
		rec.PDFPath = pdfPath.String

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoices: %w", err)
	}

	return records, nil
}
