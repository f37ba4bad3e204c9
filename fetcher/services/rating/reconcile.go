package ratingservice

import (
	"nexusiq/pkg/database/models"
)

// Plan is the in memory diff between the stored and the fetched entries.
type Plan struct {
	// Stored entries with the fetched standing, same id and league.
	Update []models.RatingEntry
	// Stored entries without a fetched counterpart.
	Retire []models.RatingEntry
	// Fetched entries without a stored counterpart.
	Create []models.RatingEntry
}

// RetiredIds returns the ids to delete.
func (p Plan) RetiredIds() []uint {
	ids := make([]uint, 0, len(p.Retire))
	for _, entry := range p.Retire {
		ids = append(ids, entry.ID)
	}
	return ids
}

// Result returns the entries the player has after the plan is applied.
func (p Plan) Result() []models.RatingEntry {
	result := make([]models.RatingEntry, 0, len(p.Update)+len(p.Create))
	result = append(result, p.Update...)
	result = append(result, p.Create...)
	return result
}

// Empty tells if applying the plan changes nothing.
func (p Plan) Empty() bool {
	return len(p.Update) == 0 && len(p.Retire) == 0 && len(p.Create) == 0
}

// Keep only the first fetched entry of each queue.
func dedupeByQueue(fetched []models.RatingEntry) []models.RatingEntry {
	seen := make(map[string]bool, len(fetched))
	result := make([]models.RatingEntry, 0, len(fetched))
	for _, entry := range fetched {
		if seen[entry.Queue] {
			continue
		}
		seen[entry.Queue] = true
		result = append(result, entry)
	}
	return result
}

// Reconcile diffs the stored entries against the fetched ones, keyed by league id.
// A matched entry is overwritten in place, unmatched stored ones are retired and fetched only ones are created.
// The result holds at most one entry per queue.
func Reconcile(existing []models.RatingEntry, fetched []models.RatingEntry) Plan {
	fetched = dedupeByQueue(fetched)

	fetchedByLeague := make(map[string]models.RatingEntry, len(fetched))
	for _, entry := range fetched {
		if _, ok := fetchedByLeague[entry.LeagueId]; !ok {
			fetchedByLeague[entry.LeagueId] = entry
		}
	}

	var plan Plan
	matched := make(map[string]bool, len(fetched))

	for _, stored := range existing {
		entry, ok := fetchedByLeague[stored.LeagueId]

		// A second stored entry of the same league is a leftover duplicate.
		if !ok || matched[stored.LeagueId] {
			plan.Retire = append(plan.Retire, stored)
			continue
		}
		matched[stored.LeagueId] = true

		updated := stored
		updated.Queue = entry.Queue
		updated.Tier = entry.Tier
		updated.Rank = entry.Rank
		updated.NumericScore = entry.NumericScore
		updated.LeaguePoints = entry.LeaguePoints
		updated.Wins = entry.Wins
		updated.Losses = entry.Losses
		updated.Veteran = entry.Veteran
		updated.Inactive = entry.Inactive
		updated.FreshBlood = entry.FreshBlood
		updated.HotStreak = entry.HotStreak
		plan.Update = append(plan.Update, updated)
	}

	for _, entry := range fetched {
		if matched[entry.LeagueId] {
			continue
		}
		// Two fetched queues sharing a league, only the first one is kept.
		matched[entry.LeagueId] = true
		plan.Create = append(plan.Create, entry)
	}

	return plan
}
