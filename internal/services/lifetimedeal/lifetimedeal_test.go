package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bizsubs/bizsubs/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateDeal(ctx context.Context, d models.LifetimeDeal) (int, error) {
	args := m.Called(ctx, d)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadDeal(ctx context.Context, id int, userUID string) (*models.LifetimeDeal, error) {
	args := m.Called(ctx, id, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LifetimeDeal), args.Error(1)
}
func (m *RepoMock) UpdateDeal(ctx context.Context, d models.LifetimeDeal, id int, userUID string) (int, error) {
	args := m.Called(ctx, d, id, userUID)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) RemoveDeal(ctx context.Context, id int, userUID string) (int, error) {
	args := m.Called(ctx, id, userUID)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListDeals(ctx context.Context, userUID string) ([]*models.LifetimeDeal, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LifetimeDeal), args.Error(1)
}
func (m *RepoMock) MarkDealResold(ctx context.Context, id int, userUID string, price decimal.Decimal, date time.Time) (int, error) {
	args := m.Called(ctx, id, userUID, price, date)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) InsertActivity(ctx context.Context, a models.ActivityLog) error {
	return m.Called(ctx, a).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(keys ...string) error {
	return m.Called(keys).Error(0)
}
func (m *CacheMock) InvalidatePattern(pattern string) error {
	return m.Called(pattern).Error(0)
}

// jsonCache хранит значения в памяти, прогоняя их через JSON,
// как это делает Redis-кеш.
type jsonCache struct {
	data map[string][]byte
}

func newJSONCache() *jsonCache {
	return &jsonCache{data: make(map[string][]byte)}
}

func (c *jsonCache) Get(key string, result any) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, result)
}

func (c *jsonCache) Set(key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *jsonCache) Invalidate(keys ...string) error {
	for _, key := range keys {
		delete(c.data, key)
	}
	return nil
}

func (c *jsonCache) InvalidatePattern(string) error { return nil }

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestDealService_Create(t *testing.T) {
	req := models.DummyLifetimeDeal{
		ProductName:  "AppSumo SEO Tool",
		OriginalCost: 69,
		PurchaseDate: "2025-03-10",
		Platform:     "AppSumo",
	}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		req        models.DummyLifetimeDeal
		wantID     int
		wantErr    bool
	}{
		{
			name: "success create with active status",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("CreateDeal", mock.Anything, mock.MatchedBy(func(d models.LifetimeDeal) bool {
					return d.ProductName == "AppSumo SEO Tool" &&
						d.UserUID == "uid-1" &&
						d.Status == models.DealActive &&
						d.OriginalCost.Equal(decimal.NewFromInt(69))
				})).Return(5, nil).Once()
				r.On("InsertActivity", mock.Anything, mock.MatchedBy(func(a models.ActivityLog) bool {
					return a.Action == "created" && a.EntityType == "lifetime_deal" && a.EntityID == 5
				})).Return(nil).Once()
				c.On("Invalidate", []string{"deal:uid-1:5", "deals:user:uid-1", "report:portfolio:uid-1"}).Return(nil).Once()
				c.On("InvalidatePattern", "report:tax:uid-1:*").Return(nil).Once()
			},
			req:     req,
			wantID:  5,
			wantErr: false,
		},
		{
			name:       "invalid purchase date",
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			req: models.DummyLifetimeDeal{
				ProductName:  "AppSumo SEO Tool",
				OriginalCost: 69,
				PurchaseDate: "10.03.2025",
			},
			wantID:  0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cacheMock := new(CacheMock)
			svc := NewDealService(repo, cacheMock, newNoopLogger())

			tt.setupMocks(repo, cacheMock)

			got, err := svc.Create(context.Background(), "uid-1", tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, got)
			}

			repo.AssertExpectations(t)
			cacheMock.AssertExpectations(t)
		})
	}
}

// Повторное чтение после прогрева должно обслуживаться из кеша даже после
// JSON-сериализации значения. Чужой запрос промахивается мимо ключа
// владельца и проверяется хранилищем.
func TestDealService_Read_SecondReadServedFromCache(t *testing.T) {
	deal := &models.LifetimeDeal{
		ID:           5,
		UserUID:      "uid-1",
		ProductName:  "AppSumo SEO Tool",
		OriginalCost: decimal.NewFromInt(69),
		Status:       models.DealActive,
	}

	repo := new(RepoMock)
	repo.On("ReadDeal", mock.Anything, 5, "uid-1").Return(deal, nil).Once()
	repo.On("ReadDeal", mock.Anything, 5, "uid-2").Return(nil, errors.New("deal not found")).Once()

	svc := NewDealService(repo, newJSONCache(), newNoopLogger())

	first, err := svc.Read(context.Background(), 5, "uid-1")
	assert.NoError(t, err)
	assert.Equal(t, "AppSumo SEO Tool", first.ProductName)

	second, err := svc.Read(context.Background(), 5, "uid-1")
	assert.NoError(t, err)
	assert.Equal(t, 5, second.ID)
	assert.True(t, second.OriginalCost.Equal(decimal.NewFromInt(69)))
	repo.AssertNumberOfCalls(t, "ReadDeal", 1)

	// Чужой UID не видит кешированную сделку
	_, err = svc.Read(context.Background(), 5, "uid-2")
	assert.Error(t, err)
	repo.AssertNumberOfCalls(t, "ReadDeal", 2)
}

func TestDealService_Resell(t *testing.T) {
	resold := &models.LifetimeDeal{
		ID:          5,
		UserUID:     "uid-1",
		ProductName: "AppSumo SEO Tool",
		Status:      models.DealResold,
	}
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	priceMatch := mock.MatchedBy(func(p decimal.Decimal) bool {
		return p.Equal(decimal.NewFromInt(120))
	})

	tests := []struct {
		name       string
		req        models.DummyResell
		setupMocks func(r *RepoMock, c *CacheMock)
		want       *models.LifetimeDeal
		wantErr    error
	}{
		{
			name: "success resell",
			req:  models.DummyResell{ResoldPrice: 120, ResoldDate: "2025-06-01"},
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("MarkDealResold", mock.Anything, 5, "uid-1", priceMatch, date).Return(1, nil).Once()
				r.On("InsertActivity", mock.Anything, mock.MatchedBy(func(a models.ActivityLog) bool {
					return a.Action == "resold" && a.Details == "120.00"
				})).Return(nil).Once()
				c.On("Invalidate", mock.Anything).Return(nil).Once()
				c.On("InvalidatePattern", mock.Anything).Return(nil).Once()
				r.On("ReadDeal", mock.Anything, 5, "uid-1").Return(resold, nil).Once()
			},
			want: resold,
		},
		{
			name: "deal not active returns conflict error",
			req:  models.DummyResell{ResoldPrice: 120, ResoldDate: "2025-06-01"},
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("MarkDealResold", mock.Anything, 5, "uid-1", priceMatch, date).Return(0, nil).Once()
			},
			wantErr: ErrDealNotResellable,
		},
		{
			name:       "invalid resold date",
			req:        models.DummyResell{ResoldPrice: 120, ResoldDate: "01-06-2025"},
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			wantErr:    errors.New("invalid resold date"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cacheMock := new(CacheMock)
			svc := NewDealService(repo, cacheMock, newNoopLogger())

			tt.setupMocks(repo, cacheMock)

			got, err := svc.Resell(context.Background(), 5, "uid-1", tt.req)
			if tt.wantErr != nil {
				assert.Error(t, err)
				if errors.Is(tt.wantErr, ErrDealNotResellable) {
					assert.ErrorIs(t, err, ErrDealNotResellable)
				}
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			repo.AssertExpectations(t)
			cacheMock.AssertExpectations(t)
		})
	}
}

func TestDealService_List(t *testing.T) {
	deals := []*models.LifetimeDeal{
		{ProductName: "AppSumo SEO Tool", UserUID: "uid-1"},
		{ProductName: "Lifetime CRM", UserUID: "uid-1"},
	}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		want       []*models.LifetimeDeal
		wantErr    bool
	}{
		{
			name: "cache hit",
			setupMocks: func(_ *RepoMock, c *CacheMock) {
				c.On("Get", "deals:user:uid-1", mock.Anything).Return(true, nil).Run(func(args mock.Arguments) {
					ptr := args.Get(1).(*[]*models.LifetimeDeal)
					*ptr = deals
				}).Once()
			},
			want:    deals,
			wantErr: false,
		},
		{
			name: "cache miss then repo",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "deals:user:uid-1", mock.Anything).Return(false, nil).Once()
				r.On("ListDeals", mock.Anything, "uid-1").Return(deals, nil).Once()
				c.On("Set", "deals:user:uid-1", deals, time.Hour).Return(nil).Once()
			},
			want:    deals,
			wantErr: false,
		},
		{
			name: "repo error",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "deals:user:uid-1", mock.Anything).Return(false, nil).Once()
				r.On("ListDeals", mock.Anything, "uid-1").Return(nil, errors.New("db error")).Once()
			},
			want:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cacheMock := new(CacheMock)
			svc := NewDealService(repo, cacheMock, newNoopLogger())

			tt.setupMocks(repo, cacheMock)

			got, err := svc.List(context.Background(), "uid-1")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			repo.AssertExpectations(t)
			cacheMock.AssertExpectations(t)
		})
	}
}
