package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/craftora/pkg/audit"
	"github.com/example/craftora/pkg/models"
	"github.com/example/craftora/pkg/store"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCaptcha            = errors.New("captcha not solved")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateRequest   = errors.New("signup request already pending")
	ErrNotFound           = errors.New("not found")
)

// demoAccount is one of the four seeded demo logins. Unlike the source
// system, every role verifies the full credential triple; there is no
// username-only shortcut for admin or consultant.
type demoAccount struct {
	id       string
	username string
	phone    string
	password string
	role     models.Role
}

var demoAccounts = []demoAccount{
	{id: "customer1", username: "Manikanta", phone: "9032646737", password: "manikanta123", role: models.RoleCustomer},
	{id: "artisan", username: "artisan", phone: "123", password: "artisan123", role: models.RoleArtisan},
	{id: "admin", username: "admin", phone: "1234", password: "admin123", role: models.RoleAdmin},
	{id: "consultant", username: "consultant", phone: "12345", password: "consultant123", role: models.RoleConsultant},
}

// Service resolves credentials to roles, owns the captcha, and manages
// customer/artisan signups and account removal.
type Service struct {
	store   store.Store
	captcha *Captcha
	audit   *audit.Recorder
	logger  *zap.Logger
}

func NewService(st store.Store, rec *audit.Recorder, logger *zap.Logger) *Service {
	return &Service{
		store:   st,
		captcha: NewCaptcha(),
		audit:   rec,
		logger:  logger,
	}
}

// NewChallenge issues a fresh captcha for the login form.
func (s *Service) NewChallenge() Challenge {
	return s.captcha.NewChallenge()
}

// LoginInput carries the credential triple plus the captcha solution.
type LoginInput struct {
	Username      string
	Phone         string
	Password      string
	CaptchaID     string
	CaptchaAnswer string
}

// Login verifies the captcha, resolves the triple against stored customers,
// then stored artisans, then the seeded demo accounts, and on success writes
// the session record. Any miss reports a generic ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, in LoginInput) (models.Session, error) {
	if !s.captcha.Verify(in.CaptchaID, in.CaptchaAnswer) {
		return models.Session{}, ErrCaptcha
	}

	sess, ok := s.resolve(ctx, in)
	if !ok {
		s.logger.Info("login rejected", zap.String("username", in.Username))
		return models.Session{}, ErrInvalidCredentials
	}

	if err := store.SaveOne(ctx, s.store, store.SlotSession, sess); err != nil {
		return models.Session{}, fmt.Errorf("save session: %w", err)
	}
	s.logger.Info("login", zap.String("username", sess.Username), zap.String("role", string(sess.Role)))
	return sess, nil
}

func (s *Service) resolve(ctx context.Context, in LoginInput) (models.Session, bool) {
	for _, c := range store.Load[models.Customer](ctx, s.store, store.SlotCustomers) {
		if c.Username == in.Username && c.Password == in.Password && c.Phone == in.Phone {
			return models.Session{ID: c.ID, Username: c.Username, Role: models.RoleCustomer}, true
		}
	}
	for _, a := range store.Load[models.Artisan](ctx, s.store, store.SlotArtisans) {
		if a.Username == in.Username && a.Password == in.Password && a.Phone == in.Phone {
			return models.Session{ID: a.ID, Username: a.Username, Role: models.RoleArtisan}, true
		}
	}
	for _, d := range demoAccounts {
		if strings.EqualFold(d.username, in.Username) && d.phone == in.Phone && d.password == in.Password {
			return models.Session{ID: d.id, Username: d.username, Role: d.role}, true
		}
	}
	return models.Session{}, false
}

// Logout clears the session and the cart.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, store.SlotSession); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return s.store.Delete(ctx, store.SlotCart)
}

// CurrentSession reads the session record, if any.
func (s *Service) CurrentSession(ctx context.Context) (models.Session, bool) {
	sess, ok := store.LoadOne[models.Session](ctx, s.store, store.SlotSession)
	if !ok || sess.Role == "" {
		return models.Session{}, false
	}
	return sess, true
}

// SignupCustomer registers a new customer. Usernames are unique within the
// customers slot.
func (s *Service) SignupCustomer(ctx context.Context, username, password, phone string) (models.Customer, error) {
	if username == "" || password == "" || phone == "" {
		return models.Customer{}, ErrInvalidInput
	}

	cust := models.Customer{
		ID:       "cust_" + uuid.NewString(),
		Username: username,
		Password: password,
		Phone:    phone,
	}
	err := store.Update(ctx, s.store, store.SlotCustomers, func(customers []models.Customer) ([]models.Customer, error) {
		for _, c := range customers {
			if c.Username == username {
				return nil, ErrDuplicateUsername
			}
		}
		return append([]models.Customer{cust}, customers...), nil
	})
	if err != nil {
		return models.Customer{}, err
	}
	return cust, nil
}

// SignupArtisan does not create an account: it files a pending request for
// consultant review, at most one per username.
func (s *Service) SignupArtisan(ctx context.Context, username, password, phone string) (models.ArtisanRequest, error) {
	if username == "" || password == "" || phone == "" {
		return models.ArtisanRequest{}, ErrInvalidInput
	}

	req := models.ArtisanRequest{
		ID:          "artisan_req_" + uuid.NewString(),
		Username:    username,
		Password:    password,
		Phone:       phone,
		Status:      "pending",
		RequestedAt: time.Now(),
	}
	err := store.Update(ctx, s.store, store.SlotArtisanRequests, func(reqs []models.ArtisanRequest) ([]models.ArtisanRequest, error) {
		for _, r := range reqs {
			if r.Username == username {
				return nil, ErrDuplicateRequest
			}
		}
		return append([]models.ArtisanRequest{req}, reqs...), nil
	})
	if err != nil {
		return models.ArtisanRequest{}, err
	}
	return req, nil
}

// DeleteCustomer removes a customer account. Admin only; the gateway
// enforces the role.
func (s *Service) DeleteCustomer(ctx context.Context, actor, id string) error {
	err := store.Update(ctx, s.store, store.SlotCustomers, func(customers []models.Customer) ([]models.Customer, error) {
		return removeByID(customers, id, func(c models.Customer) string { return c.ID })
	})
	if err != nil {
		return err
	}
	s.audit.Record(actor, "delete_customer", id, nil)
	return nil
}

// DeleteArtisan removes an artisan account. Admin only.
func (s *Service) DeleteArtisan(ctx context.Context, actor, id string) error {
	err := store.Update(ctx, s.store, store.SlotArtisans, func(artisans []models.Artisan) ([]models.Artisan, error) {
		return removeByID(artisans, id, func(a models.Artisan) string { return a.ID })
	})
	if err != nil {
		return err
	}
	s.audit.Record(actor, "delete_artisan", id, nil)
	return nil
}

// ListCustomers returns all registered customers (admin view).
func (s *Service) ListCustomers(ctx context.Context) []models.Customer {
	return store.Load[models.Customer](ctx, s.store, store.SlotCustomers)
}

// ListArtisans returns all approved artisans (admin view).
func (s *Service) ListArtisans(ctx context.Context) []models.Artisan {
	return store.Load[models.Artisan](ctx, s.store, store.SlotArtisans)
}

func removeByID[T any](items []T, id string, key func(T) string) ([]T, error) {
	next := make([]T, 0, len(items))
	found := false
	for _, it := range items {
		if key(it) == id {
			found = true
			continue
		}
		next = append(next, it)
	}
	if !found {
		return nil, ErrNotFound
	}
	return next, nil
}
