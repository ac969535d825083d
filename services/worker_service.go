package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"enricher-worker/domain"
)

// Consumer-side interfaces
type Enricher interface {
	GetState(ctx context.Context, url string) (*domain.StateTree, error)
	FetchFeed(ctx context.Context, call domain.FeedCall, query domain.FeedQuery) domain.FeedResult
	FetchContent(ctx context.Context, author, permlink string) domain.Content
}

type StateCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type SnapshotRepository interface {
	InsertSnapshots(jobID, symbol string, feed []domain.Content) error
}

type JobStatusRepository interface {
	UpdateJobStatus(ctx context.Context, jobID string, kind string, status string) error
	UpdateJobStatusFull(ctx context.Context, jobID string, status string, completedAt string, errMsg string) error
}

type SearchIndexer interface {
	IndexContent(ctx context.Context, jobID, symbol string, post domain.Content) error
}

type SnapshotStore interface {
	UploadBytes(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error)
}

type ResultPublisher interface {
	SendMessage(ctx context.Context, queueURL string, msg interface{}) error
}

// WorkerService runs one queued enrichment job end to end. Every backend
// except the enricher is optional.
type WorkerService struct {
	enricher    Enricher
	cache       StateCache
	cacheTTL    time.Duration
	snapshots   SnapshotRepository
	statusRepo  JobStatusRepository
	indexer     SearchIndexer
	store       SnapshotStore
	bucket      string
	publisher   ResultPublisher
	outputQueue string
	symbol      string
	logger      *logrus.Logger
	now         func() time.Time
}

// Functional Options Pattern
type WorkerOption func(*WorkerService)

func WithEnricher(e Enricher) WorkerOption {
	return func(s *WorkerService) { s.enricher = e }
}

func WithStateCache(c StateCache, ttl time.Duration) WorkerOption {
	return func(s *WorkerService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

func WithSnapshotRepository(r SnapshotRepository) WorkerOption {
	return func(s *WorkerService) { s.snapshots = r }
}

func WithJobStatusRepository(r JobStatusRepository) WorkerOption {
	return func(s *WorkerService) { s.statusRepo = r }
}

func WithSearchIndexer(i SearchIndexer) WorkerOption {
	return func(s *WorkerService) { s.indexer = i }
}

func WithSnapshotStore(store SnapshotStore, bucket string) WorkerOption {
	return func(s *WorkerService) {
		s.store = store
		s.bucket = bucket
	}
}

func WithResultPublisher(p ResultPublisher, queueURL string) WorkerOption {
	return func(s *WorkerService) {
		s.publisher = p
		s.outputQueue = queueURL
	}
}

func WithJobTokenSymbol(symbol string) WorkerOption {
	return func(s *WorkerService) { s.symbol = symbol }
}

func WithWorkerLogger(l *logrus.Logger) WorkerOption {
	return func(s *WorkerService) { s.logger = l }
}

func NewWorkerService(opts ...WorkerOption) *WorkerService {
	s := &WorkerService{
		logger: logrus.StandardLogger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessMessage runs one job and reports its result. The returned error is
// the job failure; bookkeeping failures (status, cache, archive, index) are
// only logged.
func (s *WorkerService) ProcessMessage(ctx context.Context, req domain.EnrichRequest) (domain.EnrichResult, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	log := s.logger.WithFields(logrus.Fields{"job_id": req.ID, "kind": req.Kind})

	if s.statusRepo != nil {
		if err := s.statusRepo.UpdateJobStatus(ctx, req.ID, req.Kind, domain.StatusPending); err != nil {
			log.WithError(err).Warn("Failed to mark job pending")
		}
	}

	result := domain.EnrichResult{ID: req.ID, Kind: req.Kind}
	var err error
	switch req.Kind {
	case domain.KindState:
		result.State, err = s.processState(ctx, req)
	case domain.KindFeed:
		result.Feed, err = s.processFeed(ctx, req)
	case domain.KindContent:
		result.Content, err = s.processContent(ctx, req)
	default:
		err = fmt.Errorf("unknown job kind %q", req.Kind)
	}

	result.Status = domain.StatusCompleted
	if err != nil {
		result.Status = domain.StatusFailed
		result.Error = err.Error()
		log.WithError(err).Error("Job failed")
	}

	JobsProcessed.WithLabelValues(req.Kind, result.Status).Inc()

	if s.statusRepo != nil {
		completedAt := s.now().UTC().Format(time.RFC3339)
		if sErr := s.statusRepo.UpdateJobStatusFull(ctx, req.ID, result.Status, completedAt, result.Error); sErr != nil {
			log.WithError(sErr).Warn("Failed to record final job status")
		}
	}

	if s.publisher != nil && s.outputQueue != "" {
		if pErr := s.publisher.SendMessage(ctx, s.outputQueue, result); pErr != nil {
			log.WithError(pErr).Error("Failed to publish job result")
		}
	}

	return result, err
}

func (s *WorkerService) processState(ctx context.Context, req domain.EnrichRequest) (json.RawMessage, error) {
	if req.Route == "" {
		return nil, fmt.Errorf("state job %s has no route", req.ID)
	}
	path, _, _ := strings.Cut(req.Route, "?")
	cacheKey := fmt.Sprintf(domain.RedisKeyState, s.symbol, path)
	log := s.logger.WithFields(logrus.Fields{"job_id": req.ID, "route": path})

	if s.cache != nil {
		cached, found, err := s.cache.Get(ctx, cacheKey)
		if err != nil {
			log.WithError(err).Warn("State cache lookup failed")
		} else if found {
			log.Debug("State served from cache")
			return cached, nil
		}
	}

	state, err := s.enricher.GetState(ctx, req.Route)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate state for %s: %w", path, err)
	}

	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state for %s: %w", path, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, data, s.cacheTTL); err != nil {
			log.WithError(err).Warn("Failed to cache state")
		}
	}

	if s.store != nil && s.bucket != "" {
		key := fmt.Sprintf("state/%s/%s.json", s.now().UTC().Format("2006-01-02"), req.ID)
		if location, err := s.store.UploadBytes(ctx, s.bucket, key, data, "application/json"); err != nil {
			log.WithError(err).Warn("Failed to archive state snapshot")
		} else {
			log.WithField("location", location).Debug("Archived state snapshot")
		}
	}

	return data, nil
}

func (s *WorkerService) processFeed(ctx context.Context, req domain.EnrichRequest) (*domain.FeedResult, error) {
	call, err := domain.ParseFeedCall(string(req.Call))
	if err != nil {
		return nil, err
	}
	query := req.Query
	if query.Limit <= 0 {
		query.Limit = domain.StateFeedLimit
	}

	feed := s.enricher.FetchFeed(ctx, call, query)

	if s.snapshots != nil {
		if err := s.snapshots.InsertSnapshots(req.ID, s.symbol, feed.FeedData); err != nil {
			s.logger.WithError(err).WithField("job_id", req.ID).Warn("Failed to persist feed snapshots")
		}
	}
	for _, post := range feed.FeedData {
		s.index(ctx, req.ID, post)
	}

	return &feed, nil
}

func (s *WorkerService) processContent(ctx context.Context, req domain.EnrichRequest) (domain.Content, error) {
	if req.Author == "" || req.Permlink == "" {
		return nil, fmt.Errorf("content job %s needs author and permlink", req.ID)
	}

	post := s.enricher.FetchContent(ctx, req.Author, req.Permlink)
	if post.Author() != "" {
		s.index(ctx, req.ID, post)
	}
	return post, nil
}

func (s *WorkerService) index(ctx context.Context, jobID string, post domain.Content) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexContent(ctx, jobID, s.symbol, post); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"job_id":   jobID,
			"author":   post.Author(),
			"permlink": post.Permlink(),
		}).Warn("Failed to index content")
	}
}
