package repository

import (
	"context"
	"sync"
	"testing"

	"tago-service/internal/domain/entity"
	"tago-service/internal/domain/repository"
	"tago-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// warnRecorder keeps the messages passed to Warn
type warnRecorder struct {
	mu       sync.Mutex
	warnings []string
}

func (r *warnRecorder) Debug(string, ...interface{}) {}
func (r *warnRecorder) Info(string, ...interface{})  {}
func (r *warnRecorder) Error(string, ...interface{}) {}
func (r *warnRecorder) Fatal(string, ...interface{}) {}

func (r *warnRecorder) Warn(msg string, _ ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, msg)
}

func (r *warnRecorder) With(...interface{}) logger.Logger { return r }

func (r *warnRecorder) Warnings() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.warnings...)
}

func TestMongoAuditLogRepository_IndexFailureIsLogged(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("index creation rejected", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized to create indexes",
		}))
		log := &warnRecorder{}

		repo := NewMongoAuditLogRepository(context.Background(), mt.DB, log)

		assert.NotNil(mt, repo)
		assert.Equal(mt, []string{"Failed to create audit log indexes"}, log.Warnings())
	})

	mt.Run("indexes created", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		log := &warnRecorder{}

		repo := NewMongoAuditLogRepository(context.Background(), mt.DB, log)

		assert.NotNil(mt, repo)
		assert.Empty(mt, log.Warnings())
	})
}

func TestMongoAuditLogRepository_Append(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())
		repo := NewMongoAuditLogRepository(context.Background(), mt.DB, logger.NewNopLogger())

		err := repo.Append(context.Background(), &entity.AuditLogEntry{
			ID:        "log-1",
			Action:    entity.ActionCreate,
			EntityPNR: "ABC123",
		})

		require.NoError(mt, err)
	})
}

func TestMongoStore_Get(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing key", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "tago.kv_store", mtest.FirstBatch))
		store := NewMongoStore(mt.DB)

		_, err := store.Get(context.Background(), "flight_groups_v3")

		assert.ErrorIs(mt, err, repository.ErrKeyNotFound)
	})

	mt.Run("stored blob", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "tago.kv_store", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "airline_list_v1"},
			{Key: "value", Value: `["ET"]`},
		}))
		store := NewMongoStore(mt.DB)

		value, err := store.Get(context.Background(), "airline_list_v1")

		require.NoError(mt, err)
		assert.Equal(mt, `["ET"]`, string(value))
	})
}
