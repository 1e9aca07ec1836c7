// Package store provides SQLite-backed persistence for the roster (team
// members and skills) and an append-only assignment audit log. The
// reasoning engine never reads the store directly — snapshots are fetched
// per request — but the dashboard uses it as the source for skills the
// tracker itself does not hold.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/projectnexus/taskpilot/pkg/models"
)

// Store wraps an SQLite database with roster and audit operations.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex
}

// DefaultPath returns the store path under the XDG data directory.
func DefaultPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "taskpilot", "taskpilot.db")
}

// Open opens (and if necessary creates) the store at the given path.
// WAL mode is enabled for concurrent reads.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	store := &Store{db: db, path: path}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// UpsertMember inserts or updates one roster member keyed by ID.
func (s *Store) UpsertMember(ctx context.Context, member models.TeamMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO team_members (id, name, email)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, email = excluded.email
	`, member.ID, member.Name, member.Email)
	if err != nil {
		return fmt.Errorf("upsert member %s: %w", member.ID, err)
	}
	return nil
}

// ListMembers returns the roster in insertion order.
func (s *Store) ListMembers(ctx context.Context) ([]models.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, email FROM team_members ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []models.TeamMember
	for rows.Next() {
		var member models.TeamMember
		var email sql.NullString
		if err := rows.Scan(&member.ID, &member.Name, &email); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		member.Email = email.String
		members = append(members, member)
	}
	return members, rows.Err()
}

// AddSkill records a skill, skipping duplicates. Duplicate detection is by
// the case-insensitive (name, category, owner) triple; the return reports
// whether a row was actually inserted.
func (s *Store) AddSkill(ctx context.Context, skill models.Skill) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM skills
		WHERE lower(name) = lower(?) AND lower(category) = lower(?) AND lower(owner_id) = lower(?)
	`, skill.Name, skill.Category, skill.OwnerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check duplicate skill: %w", err)
	}
	if exists > 0 {
		return false, nil
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO skills (name, category, owner_id, owner_name)
		VALUES (?, ?, ?, ?)
	`, skill.Name, skill.Category, skill.OwnerID, skill.OwnerName)
	if err != nil {
		return false, fmt.Errorf("insert skill %s: %w", skill.Name, err)
	}
	return true, nil
}

// ListSkills returns all skills in insertion order.
func (s *Store) ListSkills(ctx context.Context) ([]models.Skill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT name, category, owner_id, owner_name FROM skills ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	var skills []models.Skill
	for rows.Next() {
		var skill models.Skill
		var ownerID, ownerName sql.NullString
		if err := rows.Scan(&skill.Name, &skill.Category, &ownerID, &ownerName); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		skill.OwnerID = ownerID.String
		skill.OwnerName = ownerName.String
		skills = append(skills, skill)
	}
	return skills, rows.Err()
}

// RecordAssignment appends one row to the assignment audit log. Every
// redemption attempt is recorded, including no-ops and failures.
func (s *Store) RecordAssignment(ctx context.Context, issueKey, assigneeID, outcome, detail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO assignment_audit (issue_key, assignee_id, outcome, detail, recorded_at)
		VALUES (?, ?, ?, ?, ?)
	`, issueKey, assigneeID, outcome, detail, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record assignment: %w", err)
	}
	return nil
}

// AuditEntry is one recorded assignment attempt.
type AuditEntry struct {
	IssueKey   string
	AssigneeID string
	Outcome    string
	Detail     string
	RecordedAt time.Time
}

// ListAuditEntries returns the audit log, newest first.
func (s *Store) ListAuditEntries(ctx context.Context, limit int) ([]AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT issue_key, assignee_id, outcome, detail, recorded_at
		FROM assignment_audit ORDER BY rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var entry AuditEntry
		var recordedAt string
		if err := rows.Scan(&entry.IssueKey, &entry.AssigneeID, &entry.Outcome, &entry.Detail, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, recordedAt); err == nil {
			entry.RecordedAt = ts
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// migrate creates the tables if they don't exist.
func (s *Store) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS team_members (
			id    TEXT PRIMARY KEY,
			name  TEXT NOT NULL,
			email TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS skills (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL,
			category   TEXT NOT NULL,
			owner_id   TEXT,
			owner_name TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS assignment_audit (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			issue_key   TEXT NOT NULL,
			assignee_id TEXT NOT NULL,
			outcome     TEXT NOT NULL,
			detail      TEXT,
			recorded_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_skills_owner ON skills(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_issue ON assignment_audit(issue_key)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
