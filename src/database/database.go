package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/hosteltracker/backend/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Ensuring database schema", "databasePath", databasePath)
	} else {
		stdlog.Println("Ensuring database schema for:", databasePath)
	}
	migrateUserTable()

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		password TEXT NOT NULL,
		send_report BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		token TEXT NOT NULL,
		refresh_token TEXT NOT NULL,
		user_agent TEXT,
		client_ip TEXT,
		is_blocked BOOLEAN DEFAULT FALSE,
		expires_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS revenue (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		cash_amount REAL NOT NULL DEFAULT 0,
		total_revenue REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS revenue_contributions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		revenue_id TEXT NOT NULL,
		name TEXT NOT NULL,
		amount REAL NOT NULL,
		FOREIGN KEY(revenue_id) REFERENCES revenue(id) ON DELETE CASCADE,
		UNIQUE(revenue_id, name)
	);

	CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		amount REAL NOT NULL DEFAULT 0,
		remarks TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_revenue_date ON revenue(date);
	CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(date);
	CREATE INDEX IF NOT EXISTS idx_expenses_category ON expenses(category);
	`

	_, err = DB.Exec(createTableStatement)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}

// migrateUserTable backfills columns added after the first release
// (name, email, send_report) on databases created by older builds.
func migrateUserTable() {
	var tableName string
	err := DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='users'").Scan(&tableName)
	if err != nil {
		if err == sql.ErrNoRows {
			// Table will be created with the full schema; nothing to migrate.
			return
		}
		if logger.L != nil {
			logger.L.Error("Error checking for 'users' table", "error", err)
		} else {
			stdlog.Printf("Error checking for 'users' table: %v", err)
		}
		return
	}

	rows, err := DB.Query("PRAGMA table_info(users)")
	if err != nil {
		if logger.L != nil {
			logger.L.Error("Error reading users table info", "error", err)
		}
		return
	}
	defer rows.Close()

	existing := map[string]bool{}
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			continue
		}
		existing[name] = true
	}

	addColumns := map[string]string{
		"name":        "ALTER TABLE users ADD COLUMN name TEXT NOT NULL DEFAULT ''",
		"email":       "ALTER TABLE users ADD COLUMN email TEXT NOT NULL DEFAULT ''",
		"send_report": "ALTER TABLE users ADD COLUMN send_report BOOLEAN DEFAULT FALSE",
	}
	for col, stmt := range addColumns {
		if existing[col] {
			continue
		}
		if _, err := DB.Exec(stmt); err != nil {
			if logger.L != nil {
				logger.L.Error("Failed to add users column", "column", col, "error", err)
			} else {
				stdlog.Printf("Failed to add users column %s: %v", col, err)
			}
		} else if logger.L != nil {
			logger.L.Info("Added missing users column", "column", col)
		}
	}
}
