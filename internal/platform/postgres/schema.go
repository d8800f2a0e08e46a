package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS governance_counters (
	domain TEXT PRIMARY KEY,
	total_changes BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS governance_changes (
	domain TEXT NOT NULL,
	id BIGINT NOT NULL,
	change_type TEXT NOT NULL,
	parameter_name TEXT NOT NULL,
	old_value TEXT NOT NULL,
	new_value TEXT NOT NULL,
	reason TEXT NOT NULL,
	proposed_by TEXT NOT NULL,
	status TEXT NOT NULL,
	proposal_id BIGINT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	approved_at TIMESTAMPTZ,
	implemented_at TIMESTAMPTZ,
	PRIMARY KEY (domain, id)
);
CREATE INDEX IF NOT EXISTS idx_governance_changes_status ON governance_changes(domain, status);

CREATE TABLE IF NOT EXISTS governance_proposals (
	domain TEXT NOT NULL,
	id BIGINT NOT NULL,
	change_id BIGINT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	kind TEXT NOT NULL,
	status TEXT NOT NULL,
	proposer TEXT NOT NULL,
	votes_for BIGINT NOT NULL DEFAULT 0,
	votes_against BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	ends_at TIMESTAMPTZ NOT NULL,
	finalized_at TIMESTAMPTZ,
	PRIMARY KEY (domain, id)
);
CREATE INDEX IF NOT EXISTS idx_governance_proposals_status ON governance_proposals(domain, status);

CREATE TABLE IF NOT EXISTS governance_votes (
	domain TEXT NOT NULL,
	proposal_id BIGINT NOT NULL,
	voter TEXT NOT NULL,
	direction TEXT NOT NULL,
	weight BIGINT NOT NULL,
	cast_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (domain, proposal_id, voter)
);
`

// Migrate creates the governance tables if they do not exist. It is safe to
// run on every startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
