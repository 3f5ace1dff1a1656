package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"furniture/admin/internal/config"
	"furniture/admin/internal/domain"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// AdminAPI is the catalog REST API as the admin console consumes it
type AdminAPI interface {
	SetToken(token string)
	ClearToken()
	HasToken() bool
	Login(ctx context.Context) (*domain.LoginResponse, error)

	ListCategories(ctx context.Context) ([]domain.Category, error)
	CategoryTree(ctx context.Context) ([]domain.CategoryNode, error)
	CreateCategory(ctx context.Context, input domain.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id domain.ID, input domain.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id domain.ID, deleteChildren bool) error

	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id domain.ID) (*domain.Product, error)
	CreateProduct(ctx context.Context, payload *ProductPayload) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id domain.ID, payload *ProductPayload) (*domain.Product, error)
	SetProductStatus(ctx context.Context, id domain.ID, status domain.ProductStatus) error
	DeleteProduct(ctx context.Context, id domain.ID) error

	ListUsers(ctx context.Context) ([]domain.User, error)
	RegisterUser(ctx context.Context, input domain.UserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id domain.ID, input domain.UserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id domain.ID) error
}

type apiClient struct {
	rl         ratelimit.Limiter
	config     config.APIConfig
	httpClient *resty.Client

	tokenMutex sync.RWMutex
	token      string

	// Circuit breaker for repeated 429 answers
	circuitBreakerMutex sync.RWMutex
	throttledUntil      time.Time
	circuitBreakerDelay time.Duration
}

func NewAdminAPI(cfg config.APIConfig) AdminAPI {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.TimeoutDuration()).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", cfg.UserAgent)

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	return &apiClient{
		rl:                  rl,
		config:              cfg,
		httpClient:          client,
		circuitBreakerDelay: cfg.CooldownDuration(),
	}
}

func (c *apiClient) SetToken(token string) {
	c.tokenMutex.Lock()
	defer c.tokenMutex.Unlock()
	c.token = token
}

func (c *apiClient) ClearToken() {
	c.SetToken("")
}

func (c *apiClient) HasToken() bool {
	return c.currentToken() != ""
}

func (c *apiClient) currentToken() string {
	c.tokenMutex.RLock()
	defer c.tokenMutex.RUnlock()
	return c.token
}

func (c *apiClient) Login(ctx context.Context) (*domain.LoginResponse, error) {
	var out domain.LoginResponse
	_, err := c.send(ctx, http.MethodPost, "/users/login", func(r *resty.Request) error {
		r.SetBody(map[string]any{}).SetResult(&out)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return &out, nil
}

func (c *apiClient) ListCategories(ctx context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0)
	if err := c.get(ctx, "/categories", &out); err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	log.Debugf("Fetched %d categories", len(out))
	return out, nil
}

func (c *apiClient) CategoryTree(ctx context.Context) ([]domain.CategoryNode, error) {
	out := make([]domain.CategoryNode, 0)
	if err := c.get(ctx, "/categories/tree/hierarchy", &out); err != nil {
		return nil, fmt.Errorf("failed to fetch category tree: %w", err)
	}
	return out, nil
}

func (c *apiClient) CreateCategory(ctx context.Context, input domain.CategoryInput) (*domain.Category, error) {
	var out domain.Category
	_, err := c.send(ctx, http.MethodPost, "/categories", func(r *resty.Request) error {
		r.SetBody(input).SetResult(&out)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create category %q: %w", input.Name, err)
	}
	return &out, nil
}

func (c *apiClient) UpdateCategory(ctx context.Context, id domain.ID, input domain.CategoryInput) (*domain.Category, error) {
	var out domain.Category
	_, err := c.send(ctx, http.MethodPut, "/categories/{id}", func(r *resty.Request) error {
		r.SetPathParam("id", id.String()).SetBody(input).SetResult(&out)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update category %s: %w", id, err)
	}
	return &out, nil
}

func (c *apiClient) DeleteCategory(ctx context.Context, id domain.ID, deleteChildren bool) error {
	_, err := c.send(ctx, http.MethodDelete, "/categories/{id}", func(r *resty.Request) error {
		r.SetPathParam("id", id.String())
		if deleteChildren {
			r.SetQueryParam("deleteChildren", "true")
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", id, err)
	}
	return nil
}

func (c *apiClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0)
	if err := c.get(ctx, "/products", &out); err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	log.Debugf("Fetched %d products", len(out))
	return out, nil
}

func (c *apiClient) GetProduct(ctx context.Context, id domain.ID) (*domain.Product, error) {
	var out domain.Product
	_, err := c.send(ctx, http.MethodGet, "/products/{id}", func(r *resty.Request) error {
		r.SetPathParam("id", id.String()).SetResult(&out)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %s: %w", id, err)
	}
	return &out, nil
}

func (c *apiClient) CreateProduct(ctx context.Context, payload *ProductPayload) (*domain.Product, error) {
	var out domain.Product
	_, err := c.send(ctx, http.MethodPost, "/products", func(r *resty.Request) error {
		r.SetResult(&out)
		return payload.apply(r)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &out, nil
}

func (c *apiClient) UpdateProduct(ctx context.Context, id domain.ID, payload *ProductPayload) (*domain.Product, error) {
	var out domain.Product
	_, err := c.send(ctx, http.MethodPut, "/products/{id}", func(r *resty.Request) error {
		r.SetPathParam("id", id.String()).SetResult(&out)
		return payload.apply(r)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}
	return &out, nil
}

func (c *apiClient) SetProductStatus(ctx context.Context, id domain.ID, status domain.ProductStatus) error {
	_, err := c.send(ctx, http.MethodPatch, "/products/{id}/status", func(r *resty.Request) error {
		r.SetPathParam("id", id.String()).SetBody(map[string]string{"status": status.String()})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update product status %s: %w", id, err)
	}
	return nil
}

func (c *apiClient) DeleteProduct(ctx context.Context, id domain.ID) error {
	_, err := c.send(ctx, http.MethodDelete, "/products/{id}", func(r *resty.Request) error {
		r.SetPathParam("id", id.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return nil
}

func (c *apiClient) ListUsers(ctx context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0)
	if err := c.get(ctx, "/users", &out); err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return out, nil
}

func (c *apiClient) RegisterUser(ctx context.Context, input domain.UserInput) (*domain.User, error) {
	var out domain.User
	_, err := c.send(ctx, http.MethodPost, "/users/register", func(r *resty.Request) error {
		r.SetBody(input).SetResult(&out)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", input.Phone, err)
	}
	return &out, nil
}

func (c *apiClient) UpdateUser(ctx context.Context, id domain.ID, input domain.UserInput) (*domain.User, error) {
	var out domain.User
	input.Password = ""
	_, err := c.send(ctx, http.MethodPut, "/users/{id}", func(r *resty.Request) error {
		r.SetPathParam("id", id.String()).SetBody(input).SetResult(&out)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", id, err)
	}
	return &out, nil
}

func (c *apiClient) DeleteUser(ctx context.Context, id domain.ID) error {
	_, err := c.send(ctx, http.MethodDelete, "/users/{id}", func(r *resty.Request) error {
		r.SetPathParam("id", id.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}

func (c *apiClient) get(ctx context.Context, path string, out any) error {
	_, err := c.send(ctx, http.MethodGet, path, func(r *resty.Request) error {
		r.SetResult(out)
		return nil
	})
	return err
}

func (c *apiClient) send(ctx context.Context, method, path string, prepare func(*resty.Request) error) (*resty.Response, error) {
	if c.isCircuitBreakerOpen() {
		remaining := c.getRemainingCircuitBreakerTime()
		log.Debugf("🚫 Request blocked by circuit breaker. Remaining time: %v", remaining.Round(time.Second))
		return nil, fmt.Errorf("%w: retry in %v", ErrCircuitOpen, remaining.Round(time.Second))
	}

	c.rl.Take()

	req := c.httpClient.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString()).
		SetError(&errorBody{})

	if token := c.currentToken(); token != "" {
		req.SetHeader("Authorization", "Basic "+token)
	}

	if prepare != nil {
		if err := prepare(req); err != nil {
			return nil, err
		}
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("failed to %s %s: %w", method, path, err)
	}

	if resp.IsError() {
		apiErr := newAPIError(method, path, resp)

		switch resp.StatusCode() {
		case http.StatusUnauthorized:
			c.ClearToken()
			log.Warnf("🔒 %s %s rejected credentials, session cleared", method, path)
		case http.StatusTooManyRequests:
			c.triggerCircuitBreaker()
		}

		return resp, apiErr
	}

	log.Debugf("%s %s -> %d in %v", method, path, resp.StatusCode(), resp.Duration().Round(time.Millisecond))
	return resp, nil
}

func (c *apiClient) isCircuitBreakerOpen() bool {
	c.circuitBreakerMutex.RLock()
	now := time.Now()
	wasOpen := now.Before(c.throttledUntil)
	wasTriggered := !c.throttledUntil.IsZero()
	c.circuitBreakerMutex.RUnlock()

	if !wasOpen && wasTriggered {
		c.circuitBreakerMutex.Lock()
		// Double-check after acquiring write lock
		if !c.throttledUntil.IsZero() && now.After(c.throttledUntil) {
			c.throttledUntil = time.Time{}
			log.Infof("✅ Circuit breaker closed - requests are allowed again")
		}
		c.circuitBreakerMutex.Unlock()
	}

	return wasOpen
}

func (c *apiClient) triggerCircuitBreaker() {
	if c.circuitBreakerDelay <= 0 {
		return
	}

	c.circuitBreakerMutex.Lock()
	defer c.circuitBreakerMutex.Unlock()

	c.throttledUntil = time.Now().Add(c.circuitBreakerDelay)
	log.Warnf("🚫 API is throttling us, requests disabled until %v",
		c.throttledUntil.Format("15:04:05"))
}

func (c *apiClient) getRemainingCircuitBreakerTime() time.Duration {
	c.circuitBreakerMutex.RLock()
	defer c.circuitBreakerMutex.RUnlock()

	remaining := time.Until(c.throttledUntil)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsUnauthorized reports whether err means the session is no longer valid
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
