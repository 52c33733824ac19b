// Package reward tracks progress towards the score reward and records
// claims. It only looks at cumulative scores; the engine never decides
// eligibility itself.
package reward

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-2048/internal/storage"
)

// DefaultThreshold is the score at which a reward becomes claimable.
const DefaultThreshold = 2048

var (
	// ErrNotEligible is returned when claiming below the threshold.
	ErrNotEligible = errors.New("reward: score below threshold")
	// ErrAlreadyClaimed is returned when the claimant has already claimed.
	ErrAlreadyClaimed = errors.New("reward: already claimed")
)

// ClaimStore persists claims. *storage.Store implements it.
type ClaimStore interface {
	SaveRewardClaim(claimant string, score, threshold int) (int64, error)
	RewardClaimed(claimant string) (bool, error)
}

// Tracker computes reward progress and records claims.
type Tracker struct {
	threshold int
	store     ClaimStore
}

// NewTracker creates a tracker. A non-positive threshold uses
// DefaultThreshold. store may be nil, in which case claims are checked
// but not recorded.
func NewTracker(threshold int, store ClaimStore) *Tracker {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Tracker{threshold: threshold, store: store}
}

// Threshold returns the score needed to claim.
func (t *Tracker) Threshold() int {
	return t.threshold
}

// Progress returns progress towards the threshold as a whole percentage
// in [0, 100].
func (t *Tracker) Progress(score int) int {
	if score <= 0 {
		return 0
	}
	if score >= t.threshold {
		return 100
	}
	return score * 100 / t.threshold
}

// Eligible reports whether score reaches the threshold.
func (t *Tracker) Eligible(score int) bool {
	return score >= t.threshold
}

// Claimed reports whether claimant has already claimed.
func (t *Tracker) Claimed(claimant string) (bool, error) {
	if t.store == nil {
		return false, nil
	}
	return t.store.RewardClaimed(claimant)
}

// Claim records a reward for claimant at score.
func (t *Tracker) Claim(claimant string, score int) error {
	if !t.Eligible(score) {
		return fmt.Errorf("%w: %d < %d", ErrNotEligible, score, t.threshold)
	}
	if t.store == nil {
		return nil
	}

	_, err := t.store.SaveRewardClaim(claimant, score, t.threshold)
	if errors.Is(err, storage.ErrClaimExists) {
		return fmt.Errorf("%w: %s", ErrAlreadyClaimed, claimant)
	}
	return err
}
