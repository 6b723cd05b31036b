package testresults

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/dnd-test-dialog/internal/domain/dialog"
	dnderr "github.com/KirkDiggler/dnd-test-dialog/internal/errors"
	"github.com/KirkDiggler/dnd-test-dialog/internal/repositories/testresults/mocks"
)

type RedisRepoTestSuite struct {
	suite.Suite
	mockClient   *redis.Client
	mock         redismock.ClientMock
	repo         Repository
	mockCtrl     *gomock.Controller
	timeProvider *mocks.MockTimeProvider
	ttl          time.Duration
}

func (s *RedisRepoTestSuite) SetupTest() {
	s.mockClient, s.mock = redismock.NewClientMock()
	s.mockCtrl = gomock.NewController(s.T())
	s.timeProvider = mocks.NewMockTimeProvider(s.mockCtrl)
	s.ttl = time.Hour

	repo, err := NewRedisRepository(&RedisConfig{
		Client:       s.mockClient,
		TimeProvider: s.timeProvider,
		TTL:          s.ttl,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func testResult(resolvedAt time.Time) *dialog.Result {
	return &dialog.Result{
		ID:      "result-1",
		Title:   "Test",
		Subject: "Athletics",
		Speaker: &dialog.Speaker{ActorID: "hero", TokenID: "t-hero", Alias: "Aldric"},
		Targets: []dialog.Target{{TokenID: "t-goblin", ActorID: "goblin", Name: "Goblin"}},
		Context: dialog.Context{
			Tags:      map[string]string{"blessed": "Blessed"},
			Breakdown: []string{"Blessed: advantage changed from 0 to 1"},
		},
		Fields: dialog.Fields{
			dialog.FieldModifier:   10,
			dialog.FieldDifficulty: "hard",
			dialog.FieldState:      "advantage",
		},
		State:         dialog.StateAdvantage,
		ActiveScripts: []string{"Blessed"},
		ResolvedAt:    resolvedAt,
	}
}

func (s *RedisRepoTestSuite) expectedJSON(result *dialog.Result, createdAt time.Time) string {
	jsonData, err := json.Marshal(Data{
		ID:            result.ID,
		ActorID:       result.Speaker.ActorID,
		Title:         result.Title,
		Subject:       result.Subject,
		Speaker:       result.Speaker,
		Targets:       result.Targets,
		Context:       result.Context,
		Fields:        result.Fields,
		State:         string(result.State),
		ActiveScripts: result.ActiveScripts,
		ResolvedAt:    result.ResolvedAt,
		CreatedAt:     createdAt,
	})
	s.Require().NoError(err)
	return string(jsonData)
}

func (s *RedisRepoTestSuite) TestNewRedisRepository() {
	_, err := NewRedisRepository(nil)
	s.True(dnderr.IsInvalidArgument(err))

	_, err = NewRedisRepository(&RedisConfig{})
	s.True(dnderr.IsInvalidArgument(err))
}

func (s *RedisRepoTestSuite) TestCreate() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	result := testResult(now)
	s.timeProvider.EXPECT().Now().Return(now)

	s.mock.ExpectExists("testresult:result-1").SetVal(0)
	s.mock.ExpectSet("testresult:result-1", s.expectedJSON(result, now), s.ttl).SetVal("OK")
	s.mock.ExpectSAdd("actor:hero:testresults", "result-1").SetVal(1)
	s.mock.ExpectExpire("actor:hero:testresults", s.ttl).SetVal(true)

	err := s.repo.Create(ctx, result)
	s.NoError(err)
}

func (s *RedisRepoTestSuite) TestCreate_AlreadyExists() {
	ctx := context.Background()

	s.mock.ExpectExists("testresult:result-1").SetVal(1)

	err := s.repo.Create(ctx, testResult(time.Now()))
	s.True(dnderr.IsAlreadyExists(err))
}

func (s *RedisRepoTestSuite) TestCreate_DependencyError() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	result := testResult(now)
	s.timeProvider.EXPECT().Now().Return(now)

	s.mock.ExpectExists("testresult:result-1").SetVal(0)
	s.mock.ExpectSet("testresult:result-1", s.expectedJSON(result, now), s.ttl).SetErr(errors.New("redis error"))

	err := s.repo.Create(ctx, result)
	s.Error(err)
}

func (s *RedisRepoTestSuite) TestCreate_InputValidation() {
	ctx := context.Background()

	err := s.repo.Create(ctx, nil)
	s.True(dnderr.IsInvalidArgument(err))

	err = s.repo.Create(ctx, &dialog.Result{})
	s.True(dnderr.IsInvalidArgument(err))
}

func (s *RedisRepoTestSuite) TestGet() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	result := testResult(now)

	// Happy path
	s.mock.ExpectGet("testresult:result-1").SetVal(s.expectedJSON(result, now))

	got, err := s.repo.Get(ctx, "result-1")
	s.Require().NoError(err)
	s.Equal("result-1", got.ID)
	s.Equal(10, got.Modifier())
	s.Equal(dialog.DifficultyHard, got.Difficulty())
	s.Equal(dialog.StateAdvantage, got.State)
	s.Equal("hero", got.Speaker.ActorID)
	s.Equal([]string{"Blessed"}, got.ActiveScripts)
	s.Equal("Blessed", got.Context.Tags["blessed"])
	s.True(now.Equal(got.ResolvedAt))

	// Not found
	s.mock.ExpectGet("testresult:result-1").RedisNil()

	_, err = s.repo.Get(ctx, "result-1")
	s.True(dnderr.IsNotFound(err))

	// Dependency error
	s.mock.ExpectGet("testresult:result-1").SetErr(errors.New("redis error"))

	_, err = s.repo.Get(ctx, "result-1")
	s.Error(err)
	s.False(dnderr.IsNotFound(err))

	// Input validation
	_, err = s.repo.Get(ctx, "")
	s.True(dnderr.IsInvalidArgument(err))
}

func (s *RedisRepoTestSuite) TestListByActor() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	result := testResult(now)

	s.mock.ExpectSMembers("actor:hero:testresults").SetVal([]string{"result-1"})
	s.mock.ExpectGet("testresult:result-1").SetVal(s.expectedJSON(result, now))

	results, err := s.repo.ListByActor(ctx, "hero")
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal("result-1", results[0].ID)
}

func (s *RedisRepoTestSuite) TestListByActor_SkipsExpired() {
	ctx := context.Background()

	s.mock.ExpectSMembers("actor:hero:testresults").SetVal([]string{"gone"})
	s.mock.ExpectGet("testresult:gone").RedisNil()

	results, err := s.repo.ListByActor(ctx, "hero")
	s.Require().NoError(err)
	s.Empty(results)
}

func (s *RedisRepoTestSuite) TestListByActor_Errors() {
	ctx := context.Background()

	s.mock.ExpectSMembers("actor:hero:testresults").SetErr(errors.New("redis error"))

	_, err := s.repo.ListByActor(ctx, "hero")
	s.Error(err)

	_, err = s.repo.ListByActor(ctx, "")
	s.True(dnderr.IsInvalidArgument(err))
}
