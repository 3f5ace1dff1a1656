package service

import (
	"context"
	"time"

	"furniture/admin/internal/client"
	"furniture/admin/internal/domain"
	"furniture/admin/internal/domain/event"
	"furniture/admin/internal/session"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

type mockAPI struct {
	mock.Mock
	token string
}

func (m *mockAPI) SetToken(token string) { m.token = token }
func (m *mockAPI) ClearToken()           { m.token = "" }
func (m *mockAPI) HasToken() bool        { return m.token != "" }

func (m *mockAPI) Login(ctx context.Context) (*domain.LoginResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoginResponse), args.Error(1)
}

func (m *mockAPI) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *mockAPI) CategoryTree(ctx context.Context) ([]domain.CategoryNode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryNode), args.Error(1)
}

func (m *mockAPI) CreateCategory(ctx context.Context, input domain.CategoryInput) (*domain.Category, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *mockAPI) UpdateCategory(ctx context.Context, id domain.ID, input domain.CategoryInput) (*domain.Category, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *mockAPI) DeleteCategory(ctx context.Context, id domain.ID, deleteChildren bool) error {
	args := m.Called(ctx, id, deleteChildren)
	return args.Error(0)
}

func (m *mockAPI) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockAPI) GetProduct(ctx context.Context, id domain.ID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockAPI) CreateProduct(ctx context.Context, payload *client.ProductPayload) (*domain.Product, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockAPI) UpdateProduct(ctx context.Context, id domain.ID, payload *client.ProductPayload) (*domain.Product, error) {
	args := m.Called(ctx, id, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockAPI) SetProductStatus(ctx context.Context, id domain.ID, status domain.ProductStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockAPI) DeleteProduct(ctx context.Context, id domain.ID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAPI) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockAPI) RegisterUser(ctx context.Context, input domain.UserInput) (*domain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockAPI) UpdateUser(ctx context.Context, id domain.ID, input domain.UserInput) (*domain.User, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockAPI) DeleteUser(ctx context.Context, id domain.ID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Load(ctx context.Context) (*session.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *mockStore) Save(ctx context.Context, s *session.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, e event.Event) (string, error) {
	args := m.Called(ctx, e)
	return args.String(0), args.Error(1)
}

type mockQueue struct {
	mock.Mock
}

func (m *mockQueue) Publish(ctx context.Context, e event.Event) (string, error) {
	args := m.Called(ctx, e)
	return args.String(0), args.Error(1)
}

func (m *mockQueue) Read(ctx context.Context, consumer, stream string) (*redis.XMessage, error) {
	args := m.Called(ctx, consumer, stream)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redis.XMessage), args.Error(1)
}

func (m *mockQueue) Ack(ctx context.Context, stream, msgID string) error {
	args := m.Called(ctx, stream, msgID)
	return args.Error(0)
}

func (m *mockQueue) AutoClaim(ctx context.Context, consumer, stream string, minIdleTime time.Duration) ([]redis.XMessage, error) {
	args := m.Called(ctx, consumer, stream, minIdleTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]redis.XMessage), args.Error(1)
}

func (m *mockQueue) EnsureStreamsExist(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockQueue) StreamName(eventType string) string {
	return "test:stream:" + eventType
}

type mockAuditRepo struct {
	mock.Mock
}

func (m *mockAuditRepo) EnsureSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockAuditRepo) Save(ctx context.Context, record *event.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockAuditRepo) Recent(ctx context.Context, limit int) ([]event.Record, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]event.Record), args.Error(1)
}
