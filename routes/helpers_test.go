package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Kariqs/satshop-api/config"
	"github.com/Kariqs/satshop-api/events"
	"github.com/Kariqs/satshop-api/gateways"
	"github.com/Kariqs/satshop-api/initializers"
	"github.com/Kariqs/satshop-api/models"
	"github.com/Kariqs/satshop-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	testJWTSecret      = "jwt-test-secret"
	testWebhookSecret  = "whsec_test_secret"
	testChargilySecret = "chargily-test-secret"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	t         *testing.T
	router    *gin.Engine
	db        *gorm.DB
	processor *fakeProcessor
	checkout  *fakeCheckout
	storage   *fakeStorage
	mailer    *fakeMailer
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	api := &testAPI{
		t:         t,
		db:        db,
		processor: &fakeProcessor{},
		checkout:  &fakeCheckout{},
		storage:   &fakeStorage{},
		mailer:    &fakeMailer{},
	}

	initializers.DB = db
	initializers.Config = &config.Config{
		JWT:     config.JWTConfig{Secret: testJWTSecret, TTLHours: 1},
		Stripe:  config.StripeConfig{DefaultCurrency: "eur"},
		Redis:   config.RedisConfig{CacheTTL: 60},
		Metrics: config.MetricsConfig{Path: "/metrics"},
		Mail:    config.MailConfig{ResetURL: "http://shop.test/reset"},
		CORS:    config.CORSConfig{AllowOrigins: []string{"http://shop.test"}},
	}
	initializers.Redis = nil
	initializers.Metrics = nil
	initializers.Registry = nil
	initializers.Publisher = events.NopPublisher{}

	stripe := gateways.NewStripeGateway("sk_test", testWebhookSecret)
	chargily := gateways.NewChargilyGateway(gateways.ChargilyConfig{BaseURL: "http://chargily.invalid", SecretKey: testChargilySecret})
	initializers.Gateways = initializers.PaymentGateways{
		Processor:       api.processor,
		Checkout:        api.checkout,
		StripeWebhook:   stripe,
		ChargilyWebhook: chargily,
		Storage:         api.storage,
		Mailer:          api.mailer,
	}
	initializers.BuildServices()

	api.router = NewRouter()
	return api
}

func (a *testAPI) request(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) createUser(email, role string) (*models.User, string) {
	a.t.Helper()
	user := &models.User{Email: email, DisplayName: "Test", Password: "x", Role: role}
	require.NoError(a.t, a.db.Create(user).Error)
	token, err := utils.GenerateJWT(user.ID, user.Email, user.Role, testJWTSecret, time.Hour)
	require.NoError(a.t, err)
	return user, token
}

func (a *testAPI) seedProduct(name, price string, stock int) *models.Product {
	a.t.Helper()
	p := &models.Product{Name: name, Price: decimal.RequireFromString(price), Stock: stock}
	require.NoError(a.t, a.db.Create(p).Error)
	return p
}

func (a *testAPI) reloadProduct(id string) models.Product {
	a.t.Helper()
	var p models.Product
	require.NoError(a.t, a.db.Where("id = ?", id).First(&p).Error)
	return p
}

func (a *testAPI) reloadOrder(id string) models.Order {
	a.t.Helper()
	var o models.Order
	require.NoError(a.t, a.db.Where("id = ?", id).First(&o).Error)
	return o
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type fakeProcessor struct {
	mu         sync.Mutex
	refunds    []string
	fullAmount int64
}

func (f *fakeProcessor) CreatePaymentIntent(_ context.Context, amount int64, currency, orderID string) (*gateways.PaymentIntent, error) {
	return &gateways.PaymentIntent{ID: "pi_" + orderID, ClientSecret: fmt.Sprintf("secret_%s_%d_%s", orderID, amount, currency)}, nil
}

func (f *fakeProcessor) Refund(_ context.Context, paymentID string, amount int64, _ string) (*gateways.Refund, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refunds = append(f.refunds, paymentID)
	if amount == 0 {
		amount = f.fullAmount
	}
	return &gateways.Refund{ID: "re_" + paymentID, Amount: amount, Status: "succeeded"}, nil
}

type fakeCheckout struct {
	req gateways.CheckoutRequest
}

func (f *fakeCheckout) CreateCheckout(_ context.Context, req gateways.CheckoutRequest) (*gateways.Checkout, error) {
	f.req = req
	return &gateways.Checkout{ID: "chk_" + req.OrderID, CheckoutURL: "https://pay.test/" + req.OrderID, Status: "pending"}, nil
}

type fakeStorage struct {
	keys []string
}

func (f *fakeStorage) Upload(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	f.keys = append(f.keys, key)
	return "https://cdn.test/" + key, nil
}

type fakeMailer struct {
	sent []utils.EmailData
	to   []string
}

func (f *fakeMailer) SendEmail(to, _ string, data utils.EmailData, _ string) error {
	f.to = append(f.to, to)
	f.sent = append(f.sent, data)
	return nil
}
