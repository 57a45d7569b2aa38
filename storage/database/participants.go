package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/roster"
)

// ParticipantDirectory resolves external account identifiers against the
// participants table.
type ParticipantDirectory struct {
	db *sqlx.DB
}

var _ roster.Directory = (*ParticipantDirectory)(nil) // interface compliance check

func NewParticipantDirectory(db *sqlx.DB) *ParticipantDirectory {
	return &ParticipantDirectory{db: db}
}

// ResolveName matches the stored github handle by suffix; classroom
// reports usernames without the org prefix the directory records.
func (pd *ParticipantDirectory) ResolveName(ctx context.Context, githubUsername string) (string, error) {
	var name string
	err := pd.db.GetContext(ctx, &name, "SELECT name FROM participants WHERE github LIKE $1", "%"+githubUsername)
	if err == sql.ErrNoRows {
		return "", roster.ErrUnknownParticipant
	}
	if err != nil {
		return "", errors.Wrapf(err, "resolving participant %s", githubUsername)
	}
	return name, nil
}
