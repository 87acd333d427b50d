package handler

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ekoseller/eko-seller-api/internal/model"
	"github.com/ekoseller/eko-seller-api/internal/repository"
)

// In-memory stores backing the handler tests.  They implement the
// store interfaces with map-based state and the same sentinel errors
// the Mongo repositories return.

type fakeUserStore struct {
	users map[primitive.ObjectID]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[primitive.ObjectID]*model.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, u *model.User) error {
	for _, existing := range s.users {
		if existing.Email == u.Email || existing.Phone == u.Phone {
			return repository.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) FindPublicByID(_ context.Context, id primitive.ObjectID) (*model.PublicUser, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return publicOf(u), nil
}

func publicOf(u *model.User) *model.PublicUser {
	return &model.PublicUser{
		ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: u.Role,
		MarketLocation: u.MarketLocation, Description: u.Description,
		LocalGovernmentArea: u.LocalGovernmentArea, State: u.State,
		Country: u.Country, IsVerified: u.IsVerified,
	}
}

func (s *fakeUserStore) List(_ context.Context, f repository.UserFilter, page, limit int) ([]model.PublicUser, int64, error) {
	var out []model.PublicUser
	for _, u := range s.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.IsVerified != nil && u.IsVerified != *f.IsVerified {
			continue
		}
		out = append(out, *publicOf(u))
	}
	return out, int64(len(out)), nil
}

func (s *fakeUserStore) ListSellers(_ context.Context, f repository.SellerFilter, limit int) ([]model.PublicUser, error) {
	var out []model.PublicUser
	for _, u := range s.users {
		if u.Role != model.RoleSeller {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, *publicOf(u))
	}
	return out, nil
}

func (s *fakeUserStore) SetOTP(_ context.Context, id primitive.ObjectID, code string, expiry time.Time) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.VerificationCode = code
	u.OTPExpiry = &expiry
	return nil
}

func (s *fakeUserStore) MarkVerified(_ context.Context, id primitive.ObjectID) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsVerified = true
	u.VerificationCode = ""
	u.OTPExpiry = nil
	return nil
}

func (s *fakeUserStore) UpdateProfile(_ context.Context, id primitive.ObjectID, p repository.ProfileUpdate) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.Name != "" {
		u.Name = p.Name
	}
	if p.Email != "" {
		u.Email = p.Email
	}
	if p.Phone != "" {
		u.Phone = p.Phone
	}
	if p.State != "" {
		u.State = p.State
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

type fakeOTPStore struct {
	records map[string]model.OTPRecord
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{records: map[string]model.OTPRecord{}}
}

func (s *fakeOTPStore) Upsert(_ context.Context, email, code string, expiry time.Time) error {
	s.records[email] = model.OTPRecord{Email: email, OTP: code, ExpiryTime: expiry}
	return nil
}

type fakeMailer struct {
	sent []string // codes in send order
	fail bool
}

func (m *fakeMailer) SendOTP(email, name, code string, resend bool) error {
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, code)
	return nil
}

type fakeCategoryStore struct {
	cats map[primitive.ObjectID]*model.Category
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{cats: map[primitive.ObjectID]*model.Category{}}
}

func (s *fakeCategoryStore) Create(_ context.Context, cat *model.Category) error {
	cat.ID = primitive.NewObjectID()
	cp := *cat
	s.cats[cat.ID] = &cp
	return nil
}

func (s *fakeCategoryStore) FindByID(_ context.Context, id primitive.ObjectID) (*model.Category, error) {
	cat, ok := s.cats[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *cat
	return &cp, nil
}

func (s *fakeCategoryStore) List(_ context.Context) ([]model.PopulatedCategory, error) {
	var out []model.PopulatedCategory
	for _, cat := range s.cats {
		p, _ := s.PopulateParent(context.Background(), cat)
		out = append(out, *p)
	}
	return out, nil
}

func (s *fakeCategoryStore) PopulateParent(_ context.Context, cat *model.Category) (*model.PopulatedCategory, error) {
	p := &model.PopulatedCategory{Category: *cat}
	if cat.ParentCategory != nil {
		if parent, ok := s.cats[*cat.ParentCategory]; ok {
			p.ParentName = parent.Name
		}
	}
	return p, nil
}

func (s *fakeCategoryStore) Update(_ context.Context, id primitive.ObjectID, name, icon, color string) (*model.Category, error) {
	cat, ok := s.cats[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if name != "" {
		cat.Name = name
	}
	if icon != "" {
		cat.Icon = icon
	}
	if color != "" {
		cat.Color = color
	}
	cp := *cat
	return &cp, nil
}

func (s *fakeCategoryStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.cats[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.cats, id)
	return nil
}

type fakeProductStore struct {
	products map[primitive.ObjectID]*model.Product
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: map[primitive.ObjectID]*model.Product{}}
}

func (s *fakeProductStore) add(price float64) primitive.ObjectID {
	p := &model.Product{
		ID:    primitive.NewObjectID(),
		Name:  "item",
		Price: price,
		Size:  model.LabelSize("M"),
	}
	s.products[p.ID] = p
	return p.ID
}

func (s *fakeProductStore) Create(_ context.Context, p *model.Product) error {
	p.ID = primitive.NewObjectID()
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *fakeProductStore) FindByID(_ context.Context, id primitive.ObjectID) (*model.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakeProductStore) FindPopulatedByID(_ context.Context, id primitive.ObjectID) (*model.PopulatedProduct, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &model.PopulatedProduct{Product: *p}, nil
}

func (s *fakeProductStore) List(_ context.Context, f repository.ProductFilter, sort bson.D, page, limit int) ([]model.PopulatedProduct, int64, error) {
	var out []model.PopulatedProduct
	for _, p := range s.products {
		if f.Brand != "" && p.Brand != f.Brand {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		out = append(out, model.PopulatedProduct{Product: *p})
	}
	return out, int64(len(out)), nil
}

func (s *fakeProductStore) ByCategory(_ context.Context, categoryID primitive.ObjectID) ([]model.PopulatedProduct, error) {
	var out []model.PopulatedProduct
	for _, p := range s.products {
		if p.Category == categoryID {
			out = append(out, model.PopulatedProduct{Product: *p})
		}
	}
	return out, nil
}

func (s *fakeProductStore) Count(_ context.Context) (int64, error) {
	return int64(len(s.products)), nil
}

func (s *fakeProductStore) Update(_ context.Context, id primitive.ObjectID, set bson.M) (*model.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if v, ok := set["name"].(string); ok {
		p.Name = v
	}
	if v, ok := set["price"].(float64); ok {
		p.Price = v
	}
	cp := *p
	return &cp, nil
}

func (s *fakeProductStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

type fakeOrderStore struct {
	items      map[primitive.ObjectID]*model.OrderItem
	orders     map[primitive.ObjectID]*model.Order
	failInsert bool // next InsertOrder fails
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		items:  map[primitive.ObjectID]*model.OrderItem{},
		orders: map[primitive.ObjectID]*model.Order{},
	}
}

func (s *fakeOrderStore) InsertItem(_ context.Context, item *model.OrderItem) error {
	item.ID = primitive.NewObjectID()
	cp := *item
	s.items[item.ID] = &cp
	return nil
}

func (s *fakeOrderStore) DeleteItems(_ context.Context, ids []primitive.ObjectID) error {
	for _, id := range ids {
		delete(s.items, id)
	}
	return nil
}

func (s *fakeOrderStore) InsertOrder(_ context.Context, o *model.Order) error {
	if s.failInsert {
		return errors.New("write failed")
	}
	o.ID = primitive.NewObjectID()
	cp := *o
	s.orders[o.ID] = &cp
	return nil
}

func (s *fakeOrderStore) List(_ context.Context) ([]model.PopulatedOrder, error) {
	var out []model.PopulatedOrder
	for _, o := range s.orders {
		out = append(out, model.PopulatedOrder{Order: *o})
	}
	return out, nil
}

func (s *fakeOrderStore) ByUser(_ context.Context, userID primitive.ObjectID) ([]model.PopulatedOrder, error) {
	var out []model.PopulatedOrder
	for _, o := range s.orders {
		if o.User == userID {
			out = append(out, model.PopulatedOrder{Order: *o})
		}
	}
	return out, nil
}

func (s *fakeOrderStore) FindByID(_ context.Context, id primitive.ObjectID) (*model.PopulatedOrder, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &model.PopulatedOrder{Order: *o}, nil
}

func (s *fakeOrderStore) UpdateStatus(_ context.Context, id primitive.ObjectID, status string) (*model.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	o.Status = status
	cp := *o
	return &cp, nil
}

func (s *fakeOrderStore) Delete(_ context.Context, id primitive.ObjectID) error {
	o, ok := s.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	for _, itemID := range o.OrderItems {
		delete(s.items, itemID)
	}
	delete(s.orders, id)
	return nil
}

func (s *fakeOrderStore) TotalSales(_ context.Context) (float64, error) {
	var total float64
	for _, o := range s.orders {
		total += o.TotalPrice
	}
	return total, nil
}

func (s *fakeOrderStore) Count(_ context.Context) (int64, error) {
	return int64(len(s.orders)), nil
}
