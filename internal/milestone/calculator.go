package milestone

import (
	"math"
	"sort"

	"github.com/richardprab/auroramart/internal/config"
	"github.com/richardprab/auroramart/internal/pricing"
)

// Tier is one loyalty badge. Reward is the value of the personal voucher
// issued when the tier is first reached; zero means no reward.
type Tier struct {
	Threshold pricing.Money `json:"threshold"`
	Name      string        `json:"name"`
	Reward    pricing.Money `json:"voucherReward,omitempty"`
}

// Progress describes where a customer stands on the tier ladder.
type Progress struct {
	CurrentBadge       *Tier         `json:"currentBadge"`
	NextBadge          *Tier         `json:"nextBadge"`
	CurrentAmount      pricing.Money `json:"currentAmount"`
	ProgressPercentage float64       `json:"progressPercentage"`
	AmountNeeded       pricing.Money `json:"amountNeeded"`
}

// Milestone is a tier annotated with the customer's standing against it.
type Milestone struct {
	Tier
	Earned             bool          `json:"earned"`
	ProgressPercentage float64       `json:"progressPercentage"`
	AmountNeeded       pricing.Money `json:"amountNeeded"`
	RewardIssued       bool          `json:"rewardIssued"`
}

// TiersFromConfig converts configured tiers, sorted by threshold.
func TiersFromConfig(in []config.MilestoneTier) []Tier {
	out := make([]Tier, 0, len(in))
	for _, t := range in {
		out = append(out, Tier{Threshold: t.Threshold, Name: t.Name, Reward: t.Reward})
	}
	return sortTiers(out)
}

func sortTiers(tiers []Tier) []Tier {
	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Threshold < sorted[j].Threshold })
	return sorted
}

// Calculate maps a lifetime spend to the current and next badge.
func Calculate(tiers []Tier, amount pricing.Money) Progress {
	tiers = sortTiers(tiers)
	p := Progress{CurrentAmount: amount}

	next := -1
	for i := range tiers {
		if tiers[i].Threshold <= amount {
			t := tiers[i]
			p.CurrentBadge = &t
			continue
		}
		next = i
		break
	}
	if next < 0 {
		return p
	}
	t := tiers[next]
	p.NextBadge = &t

	var floor pricing.Money
	if p.CurrentBadge != nil {
		floor = p.CurrentBadge.Threshold
	}
	p.ProgressPercentage = percent(amount-floor, t.Threshold-floor)
	p.AmountNeeded = t.Threshold - amount
	return p
}

// AllMilestones lists every tier with the customer's progress toward it.
// Per-tier progress is measured from zero.
func AllMilestones(tiers []Tier, amount pricing.Money) []Milestone {
	tiers = sortTiers(tiers)
	out := make([]Milestone, 0, len(tiers))
	for _, t := range tiers {
		m := Milestone{Tier: t}
		if amount >= t.Threshold {
			m.Earned = true
			m.ProgressPercentage = 100
		} else {
			m.ProgressPercentage = percent(amount, t.Threshold)
			m.AmountNeeded = t.Threshold - amount
		}
		out = append(out, m)
	}
	return out
}

// EarnedRewards returns the tiers at or below amount that carry a reward.
func EarnedRewards(tiers []Tier, amount pricing.Money) []Tier {
	var out []Tier
	for _, t := range sortTiers(tiers) {
		if t.Threshold <= amount && t.Reward > 0 {
			out = append(out, t)
		}
	}
	return out
}

func percent(progress, span pricing.Money) float64 {
	if span <= 0 || progress <= 0 {
		return 0
	}
	pct := float64(progress) / float64(span) * 100
	if pct > 100 {
		pct = 100
	}
	return math.Round(pct*100) / 100
}
