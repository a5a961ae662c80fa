package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tukoalluca/NomadRoute/internal/geo"
	"github.com/tukoalluca/NomadRoute/internal/journey"
)

func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

func Ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

// FetchJourney loads a journey with its legs and ordered path points.
// Schema: journeys(journey_id, name), journey_legs(journey_id, leg_seq,
// mode, from_name, to_name), leg_points(journey_id, leg_seq, pt_seq, lat, lon).
func FetchJourney(ctx context.Context, db *sql.DB, journeyID string) (*journey.Journey, error) {
	var name sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT name FROM journeys WHERE journey_id = $1`, journeyID).Scan(&name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("journey %q not found", journeyID)
	}
	if err != nil {
		return nil, fmt.Errorf("query journey: %w", err)
	}

	j := &journey.Journey{Name: name.String}

	rows, err := db.QueryContext(ctx,
		`SELECT leg_seq, mode, COALESCE(from_name, ''), COALESCE(to_name, '')
         FROM journey_legs WHERE journey_id = $1 ORDER BY leg_seq`, journeyID)
	if err != nil {
		return nil, fmt.Errorf("query legs: %w", err)
	}
	defer rows.Close()

	var legSeqs []int
	for rows.Next() {
		var seq int
		var mode, from, to string
		if err := rows.Scan(&seq, &mode, &from, &to); err != nil {
			return nil, err
		}
		legSeqs = append(legSeqs, seq)
		j.Legs = append(j.Legs, journey.Leg{
			Mode:     journey.Mode(mode),
			FromName: from,
			ToName:   to,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, seq := range legSeqs {
		pts, err := fetchLegPoints(ctx, db, journeyID, seq)
		if err != nil {
			return nil, err
		}
		j.Legs[i].Path = pts
	}
	return j, nil
}

func fetchLegPoints(ctx context.Context, db *sql.DB, journeyID string, legSeq int) ([]geo.Point, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT lat, lon FROM leg_points
         WHERE journey_id = $1 AND leg_seq = $2 ORDER BY pt_seq`, journeyID, legSeq)
	if err != nil {
		return nil, fmt.Errorf("query leg points: %w", err)
	}
	defer rows.Close()

	var pts []geo.Point
	for rows.Next() {
		var p geo.Point
		if err := rows.Scan(&p.Lat, &p.Lon); err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	return pts, rows.Err()
}

// ListJourneyIDs returns the ids of all stored journeys.
func ListJourneyIDs(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT journey_id FROM journeys ORDER BY journey_id`)
	if err != nil {
		return nil, fmt.Errorf("query journeys: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
