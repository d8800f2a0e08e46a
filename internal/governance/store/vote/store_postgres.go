package vote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance/models"
	id "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain"
	"github.com/realassetcoin-RAC/ignite-rewards/pkg/platform/sentinel"
	txcontext "github.com/realassetcoin-RAC/ignite-rewards/pkg/platform/tx"
)

// PostgresStore is the durable vote ledger. The (domain, proposal_id, voter)
// primary key enforces one vote per account per proposal.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// execer resolves the context transaction when one is open. Votes are
// inserted from inside the proposal store's Execute callback, and the
// insert must commit or roll back together with the tally update.
func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, v models.VoteRecord) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO governance_votes (domain, proposal_id, voter, direction, weight, cast_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		v.Domain.String(), uint64(v.ProposalID), v.Voter.String(),
		string(v.Direction), v.Weight, v.CastAt)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, domain models.Domain, proposalID id.ProposalID, voter id.AccountID) (models.VoteRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT domain, proposal_id, voter, direction, weight, cast_at
		FROM governance_votes
		WHERE domain = $1 AND proposal_id = $2 AND voter = $3`,
		domain.String(), uint64(proposalID), voter.String())
	v, err := scanVote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.VoteRecord{}, sentinel.ErrNotFound
	}
	return v, err
}

func (s *PostgresStore) ListByProposal(ctx context.Context, domain models.Domain, proposalID id.ProposalID) ([]models.VoteRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT domain, proposal_id, voter, direction, weight, cast_at
		FROM governance_votes
		WHERE domain = $1 AND proposal_id = $2
		ORDER BY cast_at, voter`,
		domain.String(), uint64(proposalID))
	if err != nil {
		return nil, fmt.Errorf("query votes: %w", err)
	}
	defer rows.Close()

	var out []models.VoteRecord
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate votes: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVote(row rowScanner) (models.VoteRecord, error) {
	var (
		v         models.VoteRecord
		domain    string
		pid       uint64
		voter     string
		direction string
	)
	if err := row.Scan(&domain, &pid, &voter, &direction, &v.Weight, &v.CastAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return v, err
		}
		return v, fmt.Errorf("scan vote: %w", err)
	}
	v.Domain = models.Domain(domain)
	v.ProposalID = id.ProposalID(pid)
	v.Direction = models.VoteDirection(direction)
	var err error
	v.Voter, err = id.ParseAccountID(voter)
	if err != nil {
		return v, fmt.Errorf("scan vote voter: %w", err)
	}
	return v, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
