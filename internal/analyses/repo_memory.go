package analyses

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores analyses in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Analysis
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Analysis)}
}

func (r *MemoryRepo) Create(ctx context.Context, analysis Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[analysis.ID] = analysis
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	analysis, ok := r.byID[id]
	if !ok {
		return Analysis{}, ErrNotFound
	}
	return analysis, nil
}

// ListByUser returns analyses for a user, newest first, with limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}

	analyses := r.userAnalyses(userID, "")
	if offset >= len(analyses) {
		return []Analysis{}, nil
	}
	end := len(analyses)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return analyses[offset:end], nil
}

func (r *MemoryRepo) Stats(ctx context.Context, userID, resumeID string) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	return computeStats(r.userAnalyses(userID, resumeID)), nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *MemoryRepo) DeleteByUser(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.byID {
		if a.UserID == userID {
			delete(r.byID, id)
		}
	}
	return nil
}

func (r *MemoryRepo) userAnalyses(userID, resumeID string) []Analysis {
	r.mu.RLock()
	out := make([]Analysis, 0)
	for _, a := range r.byID {
		if a.UserID != userID || (resumeID != "" && a.ResumeID != resumeID) {
			continue
		}
		out = append(out, a)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func computeStats(analyses []Analysis) Stats {
	stats := Stats{TotalAnalyses: len(analyses)}
	if len(analyses) == 0 {
		return stats
	}
	sum := 0.0
	high, low := analyses[0].MatchPercentage, analyses[0].MatchPercentage
	for _, a := range analyses {
		sum += a.MatchPercentage
		high = max(high, a.MatchPercentage)
		low = min(low, a.MatchPercentage)
	}
	avg := sum / float64(len(analyses))
	stats.AverageMatch, stats.HighestMatch, stats.LowestMatch = &avg, &high, &low
	return stats
}

var _ Repo = (*MemoryRepo)(nil)
