package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrClaimExists is returned when a claimant already has a recorded claim.
var ErrClaimExists = errors.New("storage: reward already claimed")

// RewardClaim is a recorded reward claim.
type RewardClaim struct {
	ID        int64
	Claimant  string
	Score     int
	Threshold int
	CreatedAt time.Time
}

// SaveRewardClaim records a claim for claimant. Each claimant can claim
// once; a second call returns ErrClaimExists.
func (s *Store) SaveRewardClaim(claimant string, score, threshold int) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO reward_claims (claimant, score, threshold)
		 VALUES (?, ?, ?)
		 ON CONFLICT(claimant) DO NOTHING`,
		claimant, score, threshold,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save reward claim: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot read affected rows: %w", err)
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: %s", ErrClaimExists, claimant)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RewardClaimed reports whether claimant has a recorded claim.
func (s *Store) RewardClaimed(claimant string) (bool, error) {
	_, err := s.RewardClaim(claimant)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RewardClaim returns the claim recorded for claimant. It returns an
// error wrapping sql.ErrNoRows when there is none.
func (s *Store) RewardClaim(claimant string) (*RewardClaim, error) {
	var c RewardClaim
	var createdAt any
	err := s.db.QueryRow(
		`SELECT id, claimant, score, threshold, created_at
		 FROM reward_claims
		 WHERE claimant = ?`,
		claimant,
	).Scan(&c.ID, &c.Claimant, &c.Score, &c.Threshold, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query reward claim: %w", err)
	}
	c.CreatedAt = parseTime(createdAt)
	return &c, nil
}
