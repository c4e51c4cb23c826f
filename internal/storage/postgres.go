package storage

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"opsalert/internal/incidents"
)

// PostgresStore keeps incidents in the incidents table (sql/schema.sql).
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Put(ctx context.Context, inc *incidents.Incident) error {
	const q = `
		INSERT INTO incidents
		(incident_id, ts, source, detail_type, ai_severity, ai_summary, ai_recommendation)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (incident_id) DO UPDATE SET
			ts = EXCLUDED.ts,
			source = EXCLUDED.source,
			detail_type = EXCLUDED.detail_type,
			ai_severity = EXCLUDED.ai_severity,
			ai_summary = EXCLUDED.ai_summary,
			ai_recommendation = EXCLUDED.ai_recommendation
	`
	_, err := s.db.ExecContext(ctx, q,
		inc.IncidentID,
		inc.Timestamp,
		inc.Source,
		inc.DetailType,
		string(inc.Severity),
		inc.Summary,
		inc.Recommendation,
	)
	return err
}

const selectColumns = "incident_id, ts, source, detail_type, ai_severity, ai_summary, ai_recommendation"

func (s *PostgresStore) Get(ctx context.Context, id string) (*incidents.Incident, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+selectColumns+" FROM incidents WHERE incident_id = $1", id)
	inc, err := scanIncident(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, incidents.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return inc, nil
}

func (s *PostgresStore) List(ctx context.Context, f incidents.ListFilter) ([]incidents.Incident, error) {
	query, args := buildListQuery(f)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []incidents.Incident
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *inc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func buildListQuery(f incidents.ListFilter) (string, []interface{}) {
	clauses := []string{"1=1"}
	args := []interface{}{}
	idx := 1
	if f.Severity != "" {
		clauses = append(clauses, "ai_severity = $"+strconv.Itoa(idx))
		args = append(args, string(f.Severity))
		idx++
	}
	if f.Source != "" {
		clauses = append(clauses, "source = $"+strconv.Itoa(idx))
		args = append(args, f.Source)
	}
	query := "SELECT " + selectColumns + " FROM incidents WHERE " + strings.Join(clauses, " AND ") +
		" ORDER BY ts DESC LIMIT " + strconv.Itoa(clampLimit(f.Limit))
	return query, args
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanIncident(sc scanner) (*incidents.Incident, error) {
	var inc incidents.Incident
	var sev string
	if err := sc.Scan(&inc.IncidentID, &inc.Timestamp, &inc.Source, &inc.DetailType,
		&sev, &inc.Summary, &inc.Recommendation); err != nil {
		return nil, err
	}
	inc.Severity = incidents.Severity(sev)
	inc.Timestamp = inc.Timestamp.UTC()
	return &inc, nil
}
