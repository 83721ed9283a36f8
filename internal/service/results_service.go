package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/edupulse/school-portal-api/internal/dto"
	"github.com/edupulse/school-portal-api/internal/grading"
	"github.com/edupulse/school-portal-api/internal/repository"
)

// ResultsService maintains each teacher's list of checked papers and the
// read-side views over it.
type ResultsService interface {
	Append(ctx context.Context, session Session, result grading.PaperResult) (grading.PaperResult, error)
	Remove(ctx context.Context, session Session, id string) error
	List(ctx context.Context, session Session, filter dto.PaperResultFilter) ([]grading.PaperResult, error)
	Aggregate(ctx context.Context, session Session) (dto.PaperResultAggregate, error)
}

type resultsService struct {
	store    repository.PaperResultStore
	cache    *redis.Client
	logger   zerolog.Logger
	cacheTTL time.Duration
	now      func() time.Time
}

// NewResultsService constructs the results reconciler. The cache client may
// be nil; aggregates are then computed on every call.
func NewResultsService(store repository.PaperResultStore, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) ResultsService {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &resultsService{
		store:    store,
		cache:    cache,
		logger:   logger.With().Str("component", "results_service").Logger(),
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// Append records a checked paper at the tail of the teacher's list, filling
// in identity, letter grade, and timestamps when absent.
func (s *resultsService) Append(ctx context.Context, session Session, result grading.PaperResult) (grading.PaperResult, error) {
	if !session.Authenticated() {
		return grading.PaperResult{}, ErrNotAuthenticated
	}

	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.Grade == "" {
		result.Grade = grading.ClassifyGrade(result.Score)
	}
	now := s.now()
	if result.SubmittedAt.IsZero() {
		result.SubmittedAt = now
	}
	if result.CheckedAt.IsZero() {
		result.CheckedAt = now
	}

	if err := s.store.Create(ctx, session.UserID, result); err != nil {
		return grading.PaperResult{}, err
	}
	s.invalidateAggregate(ctx, session.UserID)

	return result, nil
}

// Remove deletes a result by id. Removing an absent id succeeds quietly.
func (s *resultsService) Remove(ctx context.Context, session Session, id string) error {
	if !session.Authenticated() {
		return ErrNotAuthenticated
	}

	if err := s.store.Delete(ctx, session.UserID, id); err != nil {
		return err
	}
	s.invalidateAggregate(ctx, session.UserID)
	return nil
}

// List returns the teacher's results with the requested filter and sort
// applied. The stored list itself is never reordered.
func (s *resultsService) List(ctx context.Context, session Session, filter dto.PaperResultFilter) ([]grading.PaperResult, error) {
	if !session.Authenticated() {
		return nil, ErrNotAuthenticated
	}

	results, err := s.store.List(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	results = FilterResults(results, filter.Query)
	if filter.Sort != "" {
		results = SortResults(results, filter.Sort)
	}
	return results, nil
}

// Aggregate summarizes the teacher's full list. An empty list yields zeros.
func (s *resultsService) Aggregate(ctx context.Context, session Session) (dto.PaperResultAggregate, error) {
	if !session.Authenticated() {
		return dto.PaperResultAggregate{}, ErrNotAuthenticated
	}

	if cached, ok := s.cachedAggregate(ctx, session.UserID); ok {
		return cached, nil
	}

	results, err := s.store.List(ctx, session.UserID)
	if err != nil {
		return dto.PaperResultAggregate{}, err
	}

	aggregate := AggregateResults(results)
	s.storeAggregate(ctx, session.UserID, aggregate)
	return aggregate, nil
}

// FilterResults keeps results whose student or assignment name contains the
// query, case-insensitively. It never mutates its input.
func FilterResults(results []grading.PaperResult, query string) []grading.PaperResult {
	if query == "" {
		return results
	}

	needle := strings.ToLower(query)
	out := make([]grading.PaperResult, 0, len(results))
	for _, result := range results {
		if strings.Contains(strings.ToLower(result.StudentName), needle) ||
			strings.Contains(strings.ToLower(result.AssignmentName), needle) {
			out = append(out, result)
		}
	}
	return out
}

// SortResults returns a sorted copy. Supported keys are date (checked date,
// newest first), score (highest first), name, and assignment. The sort is
// stable, so equal keys keep their arrival order.
func SortResults(results []grading.PaperResult, key string) []grading.PaperResult {
	out := make([]grading.PaperResult, len(results))
	copy(out, results)

	switch key {
	case "date":
		sort.SliceStable(out, func(i, j int) bool { return out[i].CheckedAt.After(out[j].CheckedAt) })
	case "score":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	case "name":
		sort.SliceStable(out, func(i, j int) bool { return out[i].StudentName < out[j].StudentName })
	case "assignment":
		sort.SliceStable(out, func(i, j int) bool { return out[i].AssignmentName < out[j].AssignmentName })
	}
	return out
}

// AggregateResults computes the rounded mean score and distinct student and
// assignment counts.
func AggregateResults(results []grading.PaperResult) dto.PaperResultAggregate {
	if len(results) == 0 {
		return dto.PaperResultAggregate{}
	}

	var sum float64
	students := make(map[string]struct{}, len(results))
	assignments := make(map[string]struct{}, len(results))
	for _, result := range results {
		sum += float64(result.Score)
		students[result.StudentName] = struct{}{}
		assignments[result.AssignmentName] = struct{}{}
	}

	return dto.PaperResultAggregate{
		AverageScore:            int(math.Round(sum / float64(len(results)))),
		DistinctStudentCount:    len(students),
		DistinctAssignmentCount: len(assignments),
	}
}

func aggregateCacheKey(teacherID uint) string {
	return fmt.Sprintf("results:aggregate:%d", teacherID)
}

func (s *resultsService) cachedAggregate(ctx context.Context, teacherID uint) (dto.PaperResultAggregate, bool) {
	if s.cache == nil {
		return dto.PaperResultAggregate{}, false
	}

	raw, err := s.cache.Get(ctx, aggregateCacheKey(teacherID)).Result()
	if err != nil {
		return dto.PaperResultAggregate{}, false
	}

	var aggregate dto.PaperResultAggregate
	if err := json.Unmarshal([]byte(raw), &aggregate); err != nil {
		return dto.PaperResultAggregate{}, false
	}
	return aggregate, true
}

func (s *resultsService) storeAggregate(ctx context.Context, teacherID uint, aggregate dto.PaperResultAggregate) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(aggregate)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, aggregateCacheKey(teacherID), payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache aggregate")
	}
}

func (s *resultsService) invalidateAggregate(ctx context.Context, teacherID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, aggregateCacheKey(teacherID)).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate aggregate cache")
	}
}
