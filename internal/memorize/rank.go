package memorize

import (
	"errors"
	"fmt"
)

// Unbounded as a Tier.MaxCount marks an open-ended final tier.
const Unbounded = -1

// Tier is a named band of mastered-verse counts, inclusive on both ends.
type Tier struct {
	Name     string `json:"name" yaml:"name"`
	MinCount int    `json:"min_count" yaml:"min"`
	MaxCount int    `json:"max_count" yaml:"max"`
	Next     string `json:"next,omitempty" yaml:"next"`
}

// IsUnbounded reports whether the tier has no ceiling.
func (t Tier) IsUnbounded() bool {
	return t.MaxCount == Unbounded
}

// IsTerminal reports whether there is no tier after this one.
func (t Tier) IsTerminal() bool {
	return t.Next == ""
}

// Contains reports whether count falls inside the tier.
func (t Tier) Contains(count int) bool {
	return count >= t.MinCount && (t.IsUnbounded() || count <= t.MaxCount)
}

// TierTable is an ordered list of tiers, lowest first.
type TierTable []Tier

var (
	ErrNoTiers       = errors.New("tier table is empty")
	ErrTierGap       = errors.New("tier ranges are not contiguous")
	ErrTierRange     = errors.New("tier range is invalid")
	ErrTierUnbounded = errors.New("only the last tier may be unbounded")
	ErrTierNext      = errors.New("tier points at an unknown next tier")
)

// Validate checks that the table is non-empty, ordered, contiguous and
// that every Next name refers to a tier in the table.
func (tt TierTable) Validate() error {
	if len(tt) == 0 {
		return ErrNoTiers
	}

	names := make(map[string]bool, len(tt))
	for _, tier := range tt {
		names[tier.Name] = true
	}

	for i, tier := range tt {
		if tier.Name == "" {
			return fmt.Errorf("tier %d: %w: missing name", i, ErrTierRange)
		}
		if tier.MinCount < 0 {
			return fmt.Errorf("tier %q: %w: negative minimum", tier.Name, ErrTierRange)
		}
		if tier.IsUnbounded() {
			if i != len(tt)-1 {
				return fmt.Errorf("tier %q: %w", tier.Name, ErrTierUnbounded)
			}
		} else if tier.MaxCount < tier.MinCount {
			return fmt.Errorf("tier %q: %w: max %d below min %d", tier.Name, ErrTierRange, tier.MaxCount, tier.MinCount)
		}
		if i > 0 && tier.MinCount != tt[i-1].MaxCount+1 {
			return fmt.Errorf("tier %q: %w: starts at %d after %q ends at %d",
				tier.Name, ErrTierGap, tier.MinCount, tt[i-1].Name, tt[i-1].MaxCount)
		}
		if tier.Next != "" && !names[tier.Next] {
			return fmt.Errorf("tier %q: %w: %q", tier.Name, ErrTierNext, tier.Next)
		}
	}

	return nil
}

// Lookup returns the tier with the given name.
func (tt TierTable) Lookup(name string) (Tier, bool) {
	for _, tier := range tt {
		if tier.Name == name {
			return tier, true
		}
	}
	return Tier{}, false
}

// Progression is where a mastered-verse count sits in a tier table.
type Progression struct {
	Tier             Tier    `json:"tier"`
	VersesMastered   int     `json:"verses_mastered"`
	Progress         float64 `json:"progress"`
	VersesToNextRank int     `json:"verses_to_next_rank"`
}

// CalculateRank maps versesMastered to its tier, the 0..100 progress within
// that tier and the verses still needed to reach the next tier. Counts at or
// below zero sit at the start of the first tier; counts past every tier
// clamp to the last one. An empty table yields a zero Progression carrying
// only the clamped count.
func CalculateRank(tiers TierTable, versesMastered int) Progression {
	if len(tiers) == 0 {
		return Progression{VersesMastered: max(versesMastered, 0)}
	}
	first := tiers[0]
	if versesMastered <= 0 {
		return Progression{
			Tier:             first,
			VersesMastered:   max(versesMastered, 0),
			Progress:         0,
			VersesToNextRank: first.MinCount,
		}
	}

	tier := currentTier(tiers, versesMastered)

	return Progression{
		Tier:             tier,
		VersesMastered:   versesMastered,
		Progress:         tierProgress(tier, versesMastered),
		VersesToNextRank: versesToNext(tier, versesMastered),
	}
}

// CanAdvance reports whether versesMastered has reached the ceiling of a
// tier that has a successor.
func CanAdvance(tiers TierTable, versesMastered int) bool {
	if versesMastered <= 0 || len(tiers) == 0 {
		return false
	}
	tier := currentTier(tiers, versesMastered)
	if tier.IsTerminal() || tier.IsUnbounded() {
		return false
	}
	return versesMastered >= tier.MaxCount
}

func currentTier(tiers TierTable, count int) Tier {
	for _, tier := range tiers {
		if tier.Contains(count) {
			return tier
		}
	}
	return tiers[len(tiers)-1]
}

func tierProgress(tier Tier, count int) float64 {
	if tier.IsUnbounded() {
		return 100
	}
	span := tier.MaxCount - tier.MinCount + 1
	progress := float64(count-tier.MinCount+1) / float64(span) * 100
	return min(max(progress, 0), 100)
}

func versesToNext(tier Tier, count int) int {
	if tier.IsTerminal() || tier.IsUnbounded() {
		return 0
	}
	return max(tier.MaxCount+1-count, 0)
}
