package testresults

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/dnd-test-dialog/internal/domain/dialog"
	dnderr "github.com/KirkDiggler/dnd-test-dialog/internal/errors"
)

// DefaultTTL is how long results are kept when no TTL is configured
const DefaultTTL = 7 * 24 * time.Hour

// Data is the serialized form of a result in Redis
type Data struct {
	ID            string          `json:"id"`
	ActorID       string          `json:"actor_id"`
	Title         string          `json:"title"`
	Subject       string          `json:"subject"`
	Speaker       *dialog.Speaker `json:"speaker,omitempty"`
	Targets       []dialog.Target `json:"targets"`
	Context       dialog.Context  `json:"context"`
	Fields        map[string]any  `json:"fields"`
	State         string          `json:"state"`
	ActiveScripts []string        `json:"active_scripts"`
	ResolvedAt    time.Time       `json:"resolved_at"`
	CreatedAt     time.Time       `json:"created_at"`
}

// RedisConfig holds the dependencies of the Redis repository
type RedisConfig struct {
	Client       redis.UniversalClient
	TimeProvider TimeProvider
	// TTL applies to every stored result and actor index (default: 7 days)
	TTL time.Duration
}

type redisRepo struct {
	client       redis.UniversalClient
	timeProvider TimeProvider
	ttl          time.Duration
}

// NewRedisRepository creates a Redis-backed result repository
func NewRedisRepository(cfg *RedisConfig) (Repository, error) {
	if cfg == nil {
		return nil, dnderr.InvalidArgument("redis config is required")
	}
	if cfg.Client == nil {
		return nil, dnderr.InvalidArgument("redis client is required")
	}

	timeProvider := cfg.TimeProvider
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	return &redisRepo{
		client:       cfg.Client,
		timeProvider: timeProvider,
		ttl:          ttl,
	}, nil
}

func (r *redisRepo) key(id string) string {
	return fmt.Sprintf("testresult:%s", id)
}

func (r *redisRepo) actorResultsKey(actorID string) string {
	return fmt.Sprintf("actor:%s:testresults", actorID)
}

// Create stores a new result
func (r *redisRepo) Create(ctx context.Context, result *dialog.Result) error {
	if result == nil {
		return dnderr.InvalidArgument("result cannot be nil")
	}
	if result.ID == "" {
		return dnderr.InvalidArgument("result ID is required")
	}

	exists, err := r.client.Exists(ctx, r.key(result.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check result existence: %w", err)
	}
	if exists > 0 {
		return dnderr.AlreadyExistsf("result with ID '%s' already exists", result.ID).
			WithMeta("result_id", result.ID)
	}

	data := toData(result, r.timeProvider.Now())
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(result.ID), string(jsonData), r.ttl)
	if data.ActorID != "" {
		pipe.SAdd(ctx, r.actorResultsKey(data.ActorID), result.ID)
		pipe.Expire(ctx, r.actorResultsKey(data.ActorID), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create result: %w", err)
	}

	return nil
}

// Get retrieves a result by ID
func (r *redisRepo) Get(ctx context.Context, id string) (*dialog.Result, error) {
	if id == "" {
		return nil, dnderr.InvalidArgument("result ID is required")
	}

	jsonData, err := r.client.Get(ctx, r.key(id)).Result()
	if err == redis.Nil {
		return nil, dnderr.NotFoundf("result with ID '%s' not found", id).
			WithMeta("result_id", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	var data Data
	if err := json.Unmarshal([]byte(jsonData), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return fromData(&data), nil
}

// ListByActor returns the actor's results, newest first. Results that
// expired after being indexed are skipped.
func (r *redisRepo) ListByActor(ctx context.Context, actorID string) ([]*dialog.Result, error) {
	if actorID == "" {
		return nil, dnderr.InvalidArgument("actor ID is required")
	}

	ids, err := r.client.SMembers(ctx, r.actorResultsKey(actorID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list result IDs: %w", err)
	}

	found := make([]*dialog.Result, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			result, err := r.Get(gctx, id)
			if dnderr.IsNotFound(err) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get result %s: %w", id, err)
			}
			found[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return sortNewestFirst(found), nil
}

func toData(result *dialog.Result, createdAt time.Time) *Data {
	data := &Data{
		ID:            result.ID,
		Title:         result.Title,
		Subject:       result.Subject,
		Targets:       result.Targets,
		Context:       result.Context,
		Fields:        result.Fields,
		State:         string(result.State),
		ActiveScripts: result.ActiveScripts,
		ResolvedAt:    result.ResolvedAt,
		CreatedAt:     createdAt,
	}
	if result.Speaker != nil {
		speaker := *result.Speaker
		data.Speaker = &speaker
		data.ActorID = speaker.ActorID
	}
	return data
}

func fromData(data *Data) *dialog.Result {
	return &dialog.Result{
		ID:            data.ID,
		Title:         data.Title,
		Subject:       data.Subject,
		Speaker:       data.Speaker,
		Targets:       data.Targets,
		Context:       data.Context,
		Fields:        dialog.NormalizeFields(data.Fields),
		State:         dialog.State(data.State),
		ActiveScripts: data.ActiveScripts,
		ResolvedAt:    data.ResolvedAt,
	}
}

func sortNewestFirst(results []*dialog.Result) []*dialog.Result {
	out := make([]*dialog.Result, 0, len(results))
	for _, result := range results {
		if result != nil {
			out = append(out, result)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ResolvedAt.Equal(out[j].ResolvedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ResolvedAt.After(out[j].ResolvedAt)
	})
	return out
}
