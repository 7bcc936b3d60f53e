package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pehenava/storefront/internal/domain"
	"github.com/pehenava/storefront/internal/email"
	"github.com/pehenava/storefront/internal/repository"
	pkgerrors "github.com/pehenava/storefront/pkg/errors"
)

// fakeCartStore persists snapshots through a JSON round trip, so a Get
// after Save behaves like a reload from real storage.
type fakeCartStore struct {
	snapshots map[string][]byte
	saveErr   error
	saveCalls int
	clearErr  error
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{snapshots: make(map[string][]byte)}
}

func (s *fakeCartStore) Get(_ context.Context, userID string) (*domain.Cart, error) {
	data, ok := s.snapshots[userID]
	if !ok {
		return &domain.Cart{UserID: userID, Items: []domain.CartItem{}}, nil
	}
	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *fakeCartStore) Save(_ context.Context, cart *domain.Cart) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	cart.UpdatedAt = time.Now()
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	s.snapshots[cart.UserID] = data
	s.saveCalls++
	return nil
}

func (s *fakeCartStore) Clear(_ context.Context, userID string) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	delete(s.snapshots, userID)
	return nil
}

type fakeOrderRepo struct {
	orders    map[uuid.UUID]*domain.Order
	items     map[uuid.UUID][]*domain.OrderItem
	createErr error
	itemsErr  error
	statuses  []domain.OrderStatus
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: make(map[uuid.UUID]*domain.Order),
		items:  make(map[uuid.UUID][]*domain.OrderItem),
	}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *domain.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) CreateItems(_ context.Context, items []*domain.OrderItem) error {
	if r.itemsErr != nil {
		return r.itemsErr
	}
	for _, item := range items {
		r.items[item.OrderID] = append(r.items[item.OrderID], item)
	}
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, &pkgerrors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	return order, nil
}

func (r *fakeOrderRepo) GetItems(_ context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error) {
	return r.items[orderID], nil
}

func (r *fakeOrderRepo) ListByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	var orders []*domain.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (r *fakeOrderRepo) List(_ context.Context, _ *domain.OrderStatus) ([]*domain.Order, error) {
	var orders []*domain.Order
	for _, order := range r.orders {
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.OrderStatus) error {
	order, ok := r.orders[id]
	if !ok {
		return &pkgerrors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	order.Status = status
	r.statuses = append(r.statuses, status)
	return nil
}

type stockCall struct {
	productID string
	quantity  int
}

type fakeProductRepo struct {
	stockCalls []stockCall
	stockErr   error
}

func (r *fakeProductRepo) List(context.Context, repository.ProductFilter) ([]*domain.Product, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeProductRepo) Search(context.Context, repository.SearchQuery) ([]*domain.Product, int, error) {
	return nil, 0, errors.New("not implemented")
}

func (r *fakeProductRepo) GetBySlug(_ context.Context, slug string) (*domain.Product, error) {
	return nil, &pkgerrors.ErrNotFound{Resource: "product", ID: slug}
}

func (r *fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	return nil, &pkgerrors.ErrNotFound{Resource: "product", ID: id.String()}
}

func (r *fakeProductRepo) DecrementStock(_ context.Context, productID string, quantity int) error {
	if r.stockErr != nil {
		return r.stockErr
	}
	r.stockCalls = append(r.stockCalls, stockCall{productID: productID, quantity: quantity})
	return nil
}

type fakeUserRepo struct {
	byEmail   map[string]*domain.User
	verified  []uuid.UUID
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.byEmail[user.Email] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range r.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, &pkgerrors.ErrNotFound{Resource: "user", ID: id.String()}
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, &pkgerrors.ErrNotFound{Resource: "user", ID: email}
	}
	return user, nil
}

func (r *fakeUserRepo) MarkVerified(_ context.Context, id uuid.UUID) error {
	for _, user := range r.byEmail {
		if user.ID == id {
			user.IsVerified = true
			r.verified = append(r.verified, id)
			return nil
		}
	}
	return &pkgerrors.ErrNotFound{Resource: "user", ID: id.String()}
}

type fakeVerificationRepo struct {
	latest    map[string]*domain.EmailVerification
	used      []uuid.UUID
	createErr error
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{latest: make(map[string]*domain.EmailVerification)}
}

func (r *fakeVerificationRepo) Create(_ context.Context, v *domain.EmailVerification) error {
	if r.createErr != nil {
		return r.createErr
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.CreatedAt = time.Now()
	r.latest[v.Email] = v
	return nil
}

func (r *fakeVerificationRepo) GetLatest(_ context.Context, email string) (*domain.EmailVerification, error) {
	v, ok := r.latest[email]
	if !ok {
		return nil, &pkgerrors.ErrNotFound{Resource: "email verification", ID: email}
	}
	return v, nil
}

func (r *fakeVerificationRepo) MarkUsed(_ context.Context, id uuid.UUID) error {
	for _, v := range r.latest {
		if v.ID == id {
			v.IsUsed = true
			r.used = append(r.used, id)
			return nil
		}
	}
	return &pkgerrors.ErrNotFound{Resource: "email verification", ID: id.String()}
}

type fakeNotificationRepo struct {
	created   []*domain.Notification
	createErr error
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = time.Now()
	r.created = append(r.created, n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID string) ([]*domain.Notification, int, error) {
	var (
		result []*domain.Notification
		unread int
	)
	for _, n := range r.created {
		if n.UserID == userID {
			result = append(result, n)
			if !n.IsRead {
				unread++
			}
		}
	}
	return result, unread, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	for _, n := range r.created {
		if n.ID == id {
			n.IsRead = true
			return nil
		}
	}
	return &pkgerrors.ErrNotFound{Resource: "notification", ID: id.String()}
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	for _, n := range r.created {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

type publishedEvent struct {
	topic string
	key   string
	event any
}

type fakePublisher struct {
	events     []publishedEvent
	publishErr error
}

func (p *fakePublisher) PublishEvent(_ context.Context, topic string, key string, event any) error {
	if p.publishErr != nil {
		return p.publishErr
	}
	p.events = append(p.events, publishedEvent{topic: topic, key: key, event: event})
	return nil
}

type fakeSender struct {
	messages []email.Message
	sendErr  error
}

func (s *fakeSender) Send(_ context.Context, msg email.Message) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.messages = append(s.messages, msg)
	return nil
}
