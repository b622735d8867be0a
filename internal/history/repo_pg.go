package history

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Append inserts an interaction.
func (r *PGRepo) Append(ctx context.Context, in Interaction) error {
	in, err := prepare(in)
	if err != nil {
		return err
	}
	const query = `
INSERT INTO interactions (
    id, owner_id, kind, document_id, file_name, format, question, outcome, answer_chars, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.DB.ExecContext(ctx, query,
		in.ID,
		in.OwnerID,
		in.Kind,
		nullString(in.DocumentID),
		nullString(in.FileName),
		nullString(in.Format),
		nullString(in.Question),
		in.Outcome,
		in.AnswerChars,
		in.CreatedAt,
	)
	return err
}

// ListByOwner lists interactions ordered newest-first.
func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string, limit int) ([]Interaction, error) {
	const query = `
SELECT id, owner_id, kind, document_id, file_name, format, question, outcome, answer_chars, created_at
FROM interactions
WHERE owner_id = $1
ORDER BY created_at DESC
LIMIT $2`

	rows, err := r.DB.QueryContext(ctx, query, ownerID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Interaction
	for rows.Next() {
		var (
			in                                     Interaction
			documentID, fileName, format, question sql.NullString
		)
		if err := rows.Scan(
			&in.ID,
			&in.OwnerID,
			&in.Kind,
			&documentID,
			&fileName,
			&format,
			&question,
			&in.Outcome,
			&in.AnswerChars,
			&in.CreatedAt,
		); err != nil {
			return nil, err
		}
		in.DocumentID = documentID.String
		in.FileName = fileName.String
		in.Format = format.String
		in.Question = question.String
		out = append(out, in)
	}
	return out, rows.Err()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ Repo = (*PGRepo)(nil)
