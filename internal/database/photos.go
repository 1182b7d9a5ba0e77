// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmaier-io/photoglobe/internal/cluster"
	"github.com/dmaier-io/photoglobe/internal/geo"
	"github.com/dmaier-io/photoglobe/internal/metrics"
)

// Photo is one library entry. Latitude and Longitude are nil for photos
// without GPS metadata.
type Photo struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	TakenAt   *time.Time `json:"taken_at,omitempty"`
	Latitude  *float64   `json:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Located reports whether the photo carries usable GPS coordinates.
func (p *Photo) Located() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// Stats summarizes the library for the stats endpoint.
type Stats struct {
	Total     int64 `json:"total"`
	Located   int64 `json:"located"`
	Unlocated int64 `json:"unlocated"`
}

// NewPhoto describes one photo to import. The ID is assigned on insert.
type NewPhoto struct {
	Title     string
	TakenAt   *time.Time
	Latitude  *float64
	Longitude *float64
}

// InsertPhotos writes a batch of photos inside one transaction and returns
// the assigned IDs in input order.
func (db *DB) InsertPhotos(ctx context.Context, photos []NewPhoto) ([]uuid.UUID, error) {
	start := time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		metrics.ObserveDBQuery("insert_photos", start, err)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO photos (id, title, taken_at, latitude, longitude) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		metrics.ObserveDBQuery("insert_photos", start, err)
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	ids := make([]uuid.UUID, len(photos))
	for i, p := range photos {
		ids[i] = uuid.New()
		if _, err := stmt.ExecContext(ctx, ids[i], p.Title, p.TakenAt, p.Latitude, p.Longitude); err != nil {
			metrics.ObserveDBQuery("insert_photos", start, err)
			return nil, fmt.Errorf("failed to insert photo %q: %w", p.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		metrics.ObserveDBQuery("insert_photos", start, err)
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	metrics.ObserveDBQuery("insert_photos", start, nil)
	metrics.PhotosImported.Add(float64(len(photos)))
	return ids, nil
}

// ListPhotos returns a page of photos ordered by creation time descending.
func (db *DB) ListPhotos(ctx context.Context, limit, offset int) ([]Photo, error) {
	start := time.Now()

	stmt, err := db.getStmt(ctx,
		`SELECT id, title, taken_at, latitude, longitude, created_at
		 FROM photos ORDER BY created_at DESC, id LIMIT ? OFFSET ?`)
	if err != nil {
		metrics.ObserveDBQuery("list_photos", start, err)
		return nil, err
	}

	rows, err := stmt.QueryContext(ctx, limit, offset)
	if err != nil {
		metrics.ObserveDBQuery("list_photos", start, err)
		return nil, fmt.Errorf("failed to query photos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var photos []Photo
	for rows.Next() {
		var p Photo
		var takenAt sql.NullTime
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&p.ID, &p.Title, &takenAt, &lat, &lng, &p.CreatedAt); err != nil {
			metrics.ObserveDBQuery("list_photos", start, err)
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		if takenAt.Valid {
			t := takenAt.Time
			p.TakenAt = &t
		}
		if lat.Valid && lng.Valid {
			la, lo := lat.Float64, lng.Float64
			p.Latitude, p.Longitude = &la, &lo
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		metrics.ObserveDBQuery("list_photos", start, err)
		return nil, fmt.Errorf("failed to iterate photos: %w", err)
	}

	metrics.ObserveDBQuery("list_photos", start, nil)
	return photos, nil
}

// GetStats returns library totals.
func (db *DB) GetStats(ctx context.Context) (*Stats, error) {
	start := time.Now()

	stmt, err := db.getStmt(ctx,
		`SELECT count(*),
		        count(*) FILTER (WHERE latitude IS NOT NULL AND longitude IS NOT NULL)
		 FROM photos`)
	if err != nil {
		metrics.ObserveDBQuery("stats", start, err)
		return nil, err
	}

	var stats Stats
	if err := stmt.QueryRowContext(ctx).Scan(&stats.Total, &stats.Located); err != nil {
		metrics.ObserveDBQuery("stats", start, err)
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	stats.Unlocated = stats.Total - stats.Located

	metrics.ObserveDBQuery("stats", start, nil)
	return &stats, nil
}

// ListClusterPhotos returns up to limit photos in the shape the clustering
// pass consumes. Unlocated photos are included so the cluster result can
// report them; coordinates default to zero with Located=false.
func (db *DB) ListClusterPhotos(ctx context.Context, limit int) ([]cluster.Photo, error) {
	start := time.Now()

	stmt, err := db.getStmt(ctx,
		`SELECT id, latitude, longitude
		 FROM photos ORDER BY created_at DESC, id LIMIT ?`)
	if err != nil {
		metrics.ObserveDBQuery("list_cluster_photos", start, err)
		return nil, err
	}

	rows, err := stmt.QueryContext(ctx, limit)
	if err != nil {
		metrics.ObserveDBQuery("list_cluster_photos", start, err)
		return nil, fmt.Errorf("failed to query cluster photos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var photos []cluster.Photo
	for rows.Next() {
		var id uuid.UUID
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&id, &lat, &lng); err != nil {
			metrics.ObserveDBQuery("list_cluster_photos", start, err)
			return nil, fmt.Errorf("failed to scan cluster photo: %w", err)
		}
		p := cluster.Photo{ID: id.String()}
		if lat.Valid && lng.Valid {
			p.Lat, p.Lng = lat.Float64, lng.Float64
			p.Located = true
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		metrics.ObserveDBQuery("list_cluster_photos", start, err)
		return nil, fmt.Errorf("failed to iterate cluster photos: %w", err)
	}

	metrics.ObserveDBQuery("list_cluster_photos", start, nil)
	return photos, nil
}

// ListGeoPoints returns the coordinates of every located photo, capped at
// limit (0 means no cap). The region density pass samples from this set.
func (db *DB) ListGeoPoints(ctx context.Context, limit int) ([]geo.Point, error) {
	start := time.Now()

	query := `SELECT latitude, longitude FROM photos
	          WHERE latitude IS NOT NULL AND longitude IS NOT NULL`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	stmt, err := db.getStmt(ctx, query)
	if err != nil {
		metrics.ObserveDBQuery("list_geo_points", start, err)
		return nil, err
	}

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		metrics.ObserveDBQuery("list_geo_points", start, err)
		return nil, fmt.Errorf("failed to query geo points: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []geo.Point
	for rows.Next() {
		var p geo.Point
		if err := rows.Scan(&p.Lat, &p.Lng); err != nil {
			metrics.ObserveDBQuery("list_geo_points", start, err)
			return nil, fmt.Errorf("failed to scan geo point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		metrics.ObserveDBQuery("list_geo_points", start, err)
		return nil, fmt.Errorf("failed to iterate geo points: %w", err)
	}

	metrics.ObserveDBQuery("list_geo_points", start, nil)
	return points, nil
}
