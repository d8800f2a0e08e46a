package proposal

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

// PostgresStore persists proposals. Tally increments and finalization go
// through Execute, which locks the row FOR UPDATE.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// execer resolves the context transaction when one is open, so a Create
// issued from inside a change store Execute callback commits or rolls
// back together with the change row update.
func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const proposalColumns = `domain, id, change_id, title, description, kind, status, proposer,
	votes_for, votes_against, created_at, updated_at, ends_at, finalized_at`

func (s *PostgresStore) Create(ctx context.Context, p *models.Proposal) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO governance_proposals (`+proposalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		p.Domain.String(), uint64(p.ID), uint64(p.ChangeID), p.Title, p.Description,
		string(p.Kind), string(p.Status), p.Proposer.String(),
		p.VotesFor, p.VotesAgainst, p.CreatedAt, p.UpdatedAt, p.EndsAt, p.FinalizedAt)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert proposal: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, domain models.Domain, proposalID id.ProposalID) (*models.Proposal, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+proposalColumns+`
		FROM governance_proposals
		WHERE domain = $1 AND id = $2`, domain.String(), uint64(proposalID))
	return scanProposal(row)
}

// Execute locks the row FOR UPDATE, runs validate, applies mutate, and
// writes the result back in one transaction. The validate callback
// receives a context carrying the open transaction, so writes it issues
// through other stores land in the same commit.
func (s *PostgresStore) Execute(ctx context.Context, domain models.Domain, proposalID id.ProposalID, validate func(context.Context, *models.Proposal) error, mutate func(*models.Proposal)) (*models.Proposal, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	row := tx.QueryRowContext(ctx, `
		SELECT `+proposalColumns+`
		FROM governance_proposals
		WHERE domain = $1 AND id = $2
		FOR UPDATE`, domain.String(), uint64(proposalID))
	p, err := scanProposal(row)
	if err != nil {
		return nil, err
	}

	if err := validate(txcontext.WithTx(ctx, tx), p.Clone()); err != nil {
		return nil, err
	}
	mutate(p)

	_, err = tx.ExecContext(ctx, `
		UPDATE governance_proposals
		SET status = $3, votes_for = $4, votes_against = $5, updated_at = $6, finalized_at = $7
		WHERE domain = $1 AND id = $2`,
		domain.String(), uint64(proposalID),
		string(p.Status), p.VotesFor, p.VotesAgainst, p.UpdatedAt, p.FinalizedAt)
	if err != nil {
		return nil, fmt.Errorf("update proposal: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit proposal update: %w", err)
	}
	return p, nil
}

func scanProposal(row *sql.Row) (*models.Proposal, error) {
	var (
		p        models.Proposal
		domain   string
		pid      uint64
		changeID uint64
		kind     string
		status   string
		proposer string
	)
	err := row.Scan(&domain, &pid, &changeID, &p.Title, &p.Description, &kind, &status, &proposer,
		&p.VotesFor, &p.VotesAgainst, &p.CreatedAt, &p.UpdatedAt, &p.EndsAt, &p.FinalizedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan proposal: %w", err)
	}

	p.Domain = models.Domain(domain)
	p.ID = id.ProposalID(pid)
	p.ChangeID = id.ChangeID(changeID)
	p.Kind = models.ProposalKind(kind)
	p.Status = models.ProposalStatus(status)
	p.Proposer, err = id.ParseAccountID(proposer)
	if err != nil {
		return nil, fmt.Errorf("scan proposal proposer: %w", err)
	}
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
