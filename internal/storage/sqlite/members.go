package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

const memberColumns = `id, trip_id, user_id, name, email, avatar, is_owner, created_at`

func scanMember(row rowScanner) (*models.Member, error) {
	m := &models.Member{}
	var userID sql.NullString
	err := row.Scan(&m.ID, &m.TripID, &userID, &m.Name, &m.Email, &m.Avatar, &m.IsOwner, &m.CreatedAt)
	m.UserID = userID.String
	return m, err
}

func insertMember(ctx context.Context, tx *sql.Tx, m *models.Member) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt == 0 {
		m.CreatedAt = time.Now().Unix()
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO members (`+memberColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.TripID, nullable(m.UserID), m.Name, m.Email, m.Avatar, m.IsOwner, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// AddMember adds a member to an existing trip.
func (s *SQLiteStore) AddMember(ctx context.Context, member *models.Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM trips WHERE id = ?", member.TripID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("trip %s: %w", member.TripID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check trip: %w", err)
	}

	if err := insertMember(ctx, tx, member); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetMember retrieves a member by ID.
func (s *SQLiteStore) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	m, err := scanMember(s.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = ?`, memberID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("member %s: %w", memberID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return m, nil
}

// ListMembers returns a trip's members in the order they were added.
func (s *SQLiteStore) ListMembers(ctx context.Context, tripID string) ([]*models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE trip_id = ? ORDER BY rowid`, tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := []*models.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// UpdateMember overwrites a member's display fields and user link.
func (s *SQLiteStore) UpdateMember(ctx context.Context, member *models.Member) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE members SET user_id = ?, name = ?, email = ?, avatar = ? WHERE id = ?`,
		nullable(member.UserID), member.Name, member.Email, member.Avatar, member.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	return expectAffected(res, "member", member.ID)
}

// DeleteMember removes a member that no expense, split or payment references.
func (s *SQLiteStore) DeleteMember(ctx context.Context, memberID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var refs int
	err = tx.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM expenses WHERE paid_by = ?) +
		(SELECT COUNT(*) FROM expense_splits WHERE member_id = ?) +
		(SELECT COUNT(*) FROM payments WHERE from_member = ? OR to_member = ?)`,
		memberID, memberID, memberID, memberID,
	).Scan(&refs)
	if err != nil {
		return fmt.Errorf("failed to count member references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("member %s has %d ledger entries: %w", memberID, refs, storage.ErrInUse)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM members WHERE id = ?", memberID)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	if err := expectAffected(res, "member", memberID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
