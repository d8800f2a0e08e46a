package change

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance/models"
	id "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain"
	"github.com/realassetcoin-RAC/ignite-rewards/pkg/platform/sentinel"
	txcontext "github.com/realassetcoin-RAC/ignite-rewards/pkg/platform/tx"
)

// PostgresStore persists change records. Id assignment rides on the
// governance_counters row: the counter increment and the insert share one
// transaction, so concurrent proposers never collide.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const changeColumns = `domain, id, change_type, parameter_name, old_value, new_value, reason,
	proposed_by, status, proposal_id, created_at, updated_at, approved_at, implemented_at`

func (s *PostgresStore) Create(ctx context.Context, rec *models.ChangeRecord) (*models.ChangeRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var next uint64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO governance_counters (domain, total_changes)
		VALUES ($1, 1)
		ON CONFLICT (domain)
		DO UPDATE SET total_changes = governance_counters.total_changes + 1
		RETURNING total_changes`, rec.Domain.String()).Scan(&next)
	if err != nil {
		return nil, fmt.Errorf("increment change counter: %w", err)
	}

	stored := rec.Clone()
	stored.ID = id.ChangeID(next)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO governance_changes (`+changeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		stored.Domain.String(), uint64(stored.ID), stored.ChangeType.String(),
		stored.ParameterName, stored.OldValue, stored.NewValue, stored.Reason,
		stored.ProposedBy.String(), string(stored.Status), nullableProposalID(stored.ProposalID),
		stored.CreatedAt, stored.UpdatedAt, stored.ApprovedAt, stored.ImplementedAt)
	if err != nil {
		return nil, fmt.Errorf("insert change: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit change: %w", err)
	}
	return stored, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, domain models.Domain, changeID id.ChangeID) (*models.ChangeRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+changeColumns+`
		FROM governance_changes
		WHERE domain = $1 AND id = $2`, domain.String(), uint64(changeID))
	return scanChange(row)
}

// Execute locks the row FOR UPDATE, runs validate, applies mutate, and
// writes the result back, all in one transaction. Concurrent callers racing
// on the same transition see exactly one winner. The validate callback
// receives a context carrying the open transaction, so writes it issues
// through other stores land in the same commit.
func (s *PostgresStore) Execute(ctx context.Context, domain models.Domain, changeID id.ChangeID, validate func(context.Context, *models.ChangeRecord) error, mutate func(*models.ChangeRecord)) (*models.ChangeRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	row := tx.QueryRowContext(ctx, `
		SELECT `+changeColumns+`
		FROM governance_changes
		WHERE domain = $1 AND id = $2
		FOR UPDATE`, domain.String(), uint64(changeID))
	rec, err := scanChange(row)
	if err != nil {
		return nil, err
	}

	if err := validate(txcontext.WithTx(ctx, tx), rec.Clone()); err != nil {
		return nil, err
	}
	mutate(rec)

	_, err = tx.ExecContext(ctx, `
		UPDATE governance_changes
		SET status = $3, proposal_id = $4, updated_at = $5, approved_at = $6, implemented_at = $7
		WHERE domain = $1 AND id = $2`,
		domain.String(), uint64(changeID),
		string(rec.Status), nullableProposalID(rec.ProposalID),
		rec.UpdatedAt, rec.ApprovedAt, rec.ImplementedAt)
	if err != nil {
		return nil, fmt.Errorf("update change: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit change update: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) ListByStatus(ctx context.Context, domain models.Domain, status *models.ChangeStatus) ([]*models.ChangeRecord, error) {
	query := `SELECT ` + changeColumns + ` FROM governance_changes WHERE domain = $1`
	args := []any{domain.String()}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, string(*status))
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list changes: %w", err)
	}
	defer rows.Close()

	var out []*models.ChangeRecord
	for rows.Next() {
		rec, err := scanChange(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context, domain models.Domain) (uint64, error) {
	var count uint64
	err := s.db.QueryRowContext(ctx, `
		SELECT total_changes FROM governance_counters WHERE domain = $1`,
		domain.String()).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read change counter: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChange(row rowScanner) (*models.ChangeRecord, error) {
	var (
		rec        models.ChangeRecord
		domain     string
		changeID   uint64
		changeType string
		proposedBy string
		status     string
		proposalID sql.NullInt64
	)
	err := row.Scan(&domain, &changeID, &changeType,
		&rec.ParameterName, &rec.OldValue, &rec.NewValue, &rec.Reason,
		&proposedBy, &status, &proposalID,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.ApprovedAt, &rec.ImplementedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan change: %w", err)
	}

	rec.Domain = models.Domain(domain)
	rec.ID = id.ChangeID(changeID)
	rec.ChangeType = models.ChangeType(changeType)
	rec.Status = models.ChangeStatus(status)
	rec.ProposedBy, err = id.ParseAccountID(proposedBy)
	if err != nil {
		return nil, fmt.Errorf("scan change proposer: %w", err)
	}
	if proposalID.Valid {
		pid := id.ProposalID(proposalID.Int64)
		rec.ProposalID = &pid
	}
	return &rec, nil
}

func nullableProposalID(pid *id.ProposalID) sql.NullInt64 {
	if pid == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*pid), Valid: true}
}
