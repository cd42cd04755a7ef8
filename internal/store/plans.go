package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/stowpack/stowpack/internal/packing"
)

// PlanMeta is the summary row shown in plan listings.
type PlanMeta struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Width      float64   `json:"width"`
	Depth      float64   `json:"depth"`
	Height     float64   `json:"height"`
	MaxWeight  float64   `json:"max_weight"`
	Containers int       `json:"containers"`
	Placed     int       `json:"placed"`
}

// SavePlan persists a plan and its placements in one transaction.
// A ULID is assigned when the plan has no ID yet; the assigned ID is
// written back to the plan and returned.
func (s *Store) SavePlan(plan *packing.Plan) (string, error) {
	if plan.ID == "" {
		plan.ID = ulid.Make().String()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}

	unplaced, err := json.Marshal(plan.Unplaced)
	if err != nil {
		return "", fmt.Errorf("failed to encode unplaced items: %w", err)
	}
	oversized, err := json.Marshal(plan.Oversized)
	if err != nil {
		return "", fmt.Errorf("failed to encode oversized items: %w", err)
	}

	tx, err := s.conn.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	summary := plan.Summary()
	_, err = tx.Exec(`
		INSERT INTO plans (
			id, created_at, width, depth, height, max_weight,
			containers, placed, unplaced_json, oversized_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		plan.ID,
		plan.CreatedAt,
		plan.Width,
		plan.Depth,
		plan.Height,
		plan.MaxWeight,
		summary.Containers,
		summary.Placed,
		string(unplaced),
		string(oversized),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert plan: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO placements (plan_id, container_idx, name, dx, dy, dz, weight, x, y, z)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare placement insert: %w", err)
	}
	defer stmt.Close()

	for ci, load := range plan.Loads {
		for _, pl := range load.Placements {
			if _, err := stmt.Exec(plan.ID, ci, pl.Item.Name,
				pl.Item.DX, pl.Item.DY, pl.Item.DZ, pl.Item.Weight,
				pl.X, pl.Y, pl.Z); err != nil {
				return "", fmt.Errorf("failed to insert placement: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit plan: %w", err)
	}
	return plan.ID, nil
}

// GetPlan retrieves a plan with all placements reconstructed into
// container loads. Returns nil, nil if the plan does not exist.
func (s *Store) GetPlan(id string) (*packing.Plan, error) {
	plan := &packing.Plan{}
	var containers int
	var unplacedJSON, oversizedJSON sql.NullString

	err := s.conn.QueryRow(`
		SELECT id, created_at, width, depth, height, max_weight, containers,
		       unplaced_json, oversized_json
		FROM plans WHERE id = ?
	`, id).Scan(
		&plan.ID,
		&plan.CreatedAt,
		&plan.Width,
		&plan.Depth,
		&plan.Height,
		&plan.MaxWeight,
		&containers,
		&unplacedJSON,
		&oversizedJSON,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query plan: %w", err)
	}

	if unplacedJSON.Valid && unplacedJSON.String != "" {
		if err := json.Unmarshal([]byte(unplacedJSON.String), &plan.Unplaced); err != nil {
			return nil, fmt.Errorf("failed to decode unplaced items: %w", err)
		}
	}
	if oversizedJSON.Valid && oversizedJSON.String != "" {
		if err := json.Unmarshal([]byte(oversizedJSON.String), &plan.Oversized); err != nil {
			return nil, fmt.Errorf("failed to decode oversized items: %w", err)
		}
	}

	plan.Loads = make([]*packing.ContainerLoad, containers)
	for i := range plan.Loads {
		plan.Loads[i] = &packing.ContainerLoad{}
	}

	rows, err := s.conn.Query(`
		SELECT container_idx, name, dx, dy, dz, weight, x, y, z
		FROM placements WHERE plan_id = ? ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query placements: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ci int
		var pl packing.Placement
		if err := rows.Scan(&ci, &pl.Item.Name,
			&pl.Item.DX, &pl.Item.DY, &pl.Item.DZ, &pl.Item.Weight,
			&pl.X, &pl.Y, &pl.Z); err != nil {
			return nil, fmt.Errorf("failed to scan placement: %w", err)
		}
		if ci < 0 || ci >= len(plan.Loads) {
			return nil, fmt.Errorf("placement references container %d of %d", ci, containers)
		}
		load := plan.Loads[ci]
		load.Placements = append(load.Placements, pl)
		load.Weight += pl.Item.Weight
		load.UsedVolume += pl.Item.Volume()
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate placements: %w", err)
	}

	return plan, nil
}

// ListPlans returns plan summaries, newest first.
func (s *Store) ListPlans() ([]PlanMeta, error) {
	rows, err := s.conn.Query(`
		SELECT id, created_at, width, depth, height, max_weight, containers, placed
		FROM plans ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var out []PlanMeta
	for rows.Next() {
		var m PlanMeta
		if err := rows.Scan(&m.ID, &m.CreatedAt, &m.Width, &m.Depth, &m.Height,
			&m.MaxWeight, &m.Containers, &m.Placed); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeletePlan removes a plan and its placements (cascade).
// Deleting a missing plan is not an error.
func (s *Store) DeletePlan(id string) error {
	if _, err := s.conn.Exec(`DELETE FROM plans WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	return nil
}
