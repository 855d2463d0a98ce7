package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Kariqs/satshop-api/gateways"
	"github.com/Kariqs/satshop-api/models"
	"github.com/Kariqs/satshop-api/utils"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: dec(price), Stock: stock}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedCategory(t *testing.T, db *gorm.DB, name string, parentID *string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name, Slug: Slugify(name), ParentID: parentID}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, DisplayName: "Test User", Password: "x", Role: models.RoleCustomer}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedOrder(t *testing.T, db *gorm.DB, userID, status string, items ...models.OrderItem) *models.Order {
	t.Helper()
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	o := &models.Order{
		UserID:        userID,
		Items:         items,
		Subtotal:      total,
		Total:         total,
		PaymentMethod: models.PaymentMethodStripe,
		Status:        status,
	}
	require.NoError(t, db.Create(o).Error)
	return o
}

func reload[T any](t *testing.T, db *gorm.DB, id string) T {
	t.Helper()
	var v T
	require.NoError(t, db.Where("id = ?", id).First(&v).Error)
	return v
}

type recordedEvent struct {
	Type    string
	Key     string
	Payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, eventType, key string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Type: eventType, Key: key, Payload: payload})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeProcessor struct {
	intentAmount   int64
	intentCurrency string
	intentOrderID  string
	refundCalls    int
	refundAmount   int64
	refundReason   string
	fullAmount     int64
	err            error
}

func (f *fakeProcessor) CreatePaymentIntent(_ context.Context, amount int64, currency, orderID string) (*gateways.PaymentIntent, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.intentAmount, f.intentCurrency, f.intentOrderID = amount, currency, orderID
	return &gateways.PaymentIntent{ID: "pi_test", ClientSecret: "pi_test_secret"}, nil
}

func (f *fakeProcessor) Refund(_ context.Context, paymentID string, amount int64, reason string) (*gateways.Refund, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.refundCalls++
	f.refundAmount, f.refundReason = amount, reason
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
	return &gateways.Checkout{ID: "chk_1", CheckoutURL: "https://pay.example/chk_1", Status: "pending"}, nil
}

type sentMail struct {
	To       string
	Subject  string
	Data     utils.EmailData
	Template string
}

type fakeMailer struct {
	sent []sentMail
}

func (f *fakeMailer) SendEmail(to, subject string, data utils.EmailData, templateName string) error {
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Data: data, Template: templateName})
	return nil
}

type memoryCache struct {
	data    map[string][]byte
	hits    int
	deletes int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	c.deletes++
	return nil
}
