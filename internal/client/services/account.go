package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/shopkeeper/internal/client/models"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/cryptox"
	"github.com/dmitrijs2005/shopkeeper/internal/inputx"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/metrics"
	"github.com/dmitrijs2005/shopkeeper/internal/ratelimit"
)

const (
	// DefaultSignInMaxAttempts is the number of sign-in attempts allowed per
	// identifier inside DefaultSignInWindow.
	DefaultSignInMaxAttempts = 5
	DefaultSignInWindow      = 15 * time.Minute

	minPasswordLength = 6
)

// Phase is the lifecycle state of the account store.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseInitializing
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// AccountState is a snapshot of the account store.
type AccountState struct {
	Phase       Phase
	Users       models.Users
	CurrentUser *models.User
}

// SignUpInput carries raw, unsanitized registration data.
type SignUpInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// ProfileUpdate holds the fields to change; nil fields are left alone.
type ProfileUpdate struct {
	Name  *string
	Email *string
	Phone *string
}

// AccountService manages users and the single signed-in session.
//
// Validation, conflict, credential and rate-limit failures are returned to
// the caller. Storage failures never are.
type AccountService interface {
	Init(ctx context.Context) error
	SignUp(ctx context.Context, in SignUpInput) (*models.User, error)
	SignIn(ctx context.Context, identifier, password string) (*models.User, error)
	SignOut(ctx context.Context)
	UpdateProfile(ctx context.Context, upd ProfileUpdate) (*models.User, error)
	AddOrderToUser(ctx context.Context, order models.Order)
	GetUserOrders(ctx context.Context) []models.Order
	CurrentUser() *models.User
	State() AccountState
}

// AccountConfig tunes an AccountService. Zero values select defaults.
type AccountConfig struct {
	Hasher            *cryptox.Hasher
	Limiter           *ratelimit.Limiter
	SignInMaxAttempts int
	SignInWindow      time.Duration
	Logger            logging.Logger
	Now               func() time.Time
}

type accountService struct {
	mu sync.Mutex

	store       Persister
	hasher      *cryptox.Hasher
	limiter     *ratelimit.Limiter
	maxAttempts int
	window      time.Duration
	log         logging.Logger
	now         func() time.Time

	phase     Phase
	users     models.Users
	sessionID string
}

// NewAccountService constructs an uninitialized AccountService.
func NewAccountService(store Persister, cfg AccountConfig) AccountService {
	s := &accountService{
		store:       store,
		hasher:      cfg.Hasher,
		limiter:     cfg.Limiter,
		maxAttempts: cfg.SignInMaxAttempts,
		window:      cfg.SignInWindow,
		log:         cfg.Logger,
		now:         cfg.Now,
	}
	if s.hasher == nil {
		s.hasher = cryptox.NewHasher("")
	}
	if s.limiter == nil {
		s.limiter = ratelimit.Default()
	}
	if s.maxAttempts <= 0 {
		s.maxAttempts = DefaultSignInMaxAttempts
	}
	if s.window <= 0 {
		s.window = DefaultSignInWindow
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.log = s.log.With("component", "accounts")
	return s
}

// Init loads users and the persisted session. Calling it again is a no-op.
func (s *accountService) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseReady {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.phase = PhaseInitializing

	var (
		users     models.Users
		primaryOK bool
	)
	if s.store.Available() {
		if err := s.store.LoadAll(ctx, common.CollectionUsers, &users); err == nil {
			primaryOK = true
		} else {
			s.log.Debug(ctx, "users not loaded from primary", "error", err)
		}
	}

	if len(users) == 0 {
		var flat models.Users
		if err := s.store.LoadFlat(ctx, common.FlatKeyUsers, &flat); err == nil && len(flat) > 0 {
			users = flat
			if primaryOK {
				s.log.Info(ctx, "restoring users into primary store", "count", len(flat))
				s.store.Save(ctx, common.CollectionUsers, common.FlatKeyUsers, flat)
			}
		}
	}
	s.users = users

	var ptr models.SessionPointer
	if err := s.store.LoadFlat(ctx, common.FlatKeyCurrentUser, &ptr); err == nil {
		if s.indexByID(ptr.ID) >= 0 {
			s.sessionID = ptr.ID
		} else {
			s.log.Debug(ctx, "stale session pointer ignored", "id", ptr.ID)
		}
	}

	s.phase = PhaseReady
	s.log.Debug(ctx, "account store ready", "users", len(s.users), "session", s.sessionID != "")
	return nil
}

func (s *accountService) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReady {
		return nil, common.ErrNotReady
	}

	name := inputx.Sanitize(in.Name)
	email := inputx.NormalizeEmail(in.Email)
	phone := inputx.NormalizePhone(in.Phone)

	if name == "" {
		return nil, common.NewValidationError("name", "name is required")
	}
	if !inputx.ValidEmail(email) {
		return nil, common.NewValidationError("email", "invalid email address")
	}
	if !inputx.ValidPhone(phone) {
		return nil, common.NewValidationError("phone", "invalid phone number")
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLength {
		return nil, common.NewValidationError("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	for _, u := range s.users {
		if u.Email == email {
			return nil, fmt.Errorf("%w: email is already registered", common.ErrConflict)
		}
		if u.Phone == phone {
			return nil, fmt.Errorf("%w: phone is already registered", common.ErrConflict)
		}
	}

	hash, err := s.hasher.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	id, err := newID()
	if err != nil {
		return nil, fmt.Errorf("generate user id: %w", err)
	}

	user := models.User{
		ID:           id,
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
		Orders:       []models.Order{},
	}

	s.users = append(s.users, user)
	s.sessionID = id

	s.persistUsers(ctx)
	s.persistSession(ctx)

	s.log.Info(ctx, "user signed up", "user_id", id)
	return user.Clone(), nil
}

func (s *accountService) SignIn(ctx context.Context, identifier, password string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReady {
		return nil, common.ErrNotReady
	}

	key, isPhone := signInKey(identifier)

	res := s.limiter.Check(key, s.maxAttempts, s.window)
	if !res.Allowed {
		metrics.SignInAttempts.WithLabelValues(metrics.ResultRateLimited).Inc()
		s.log.Warn(ctx, "sign-in rate limited", "identifier", key, "wait_minutes", res.WaitMinutes)
		return nil, &common.RateLimitedError{WaitMinutes: res.WaitMinutes, Message: res.Message}
	}

	idx := s.indexByEmail(key)
	if isPhone {
		idx = s.indexByPhone(key)
	}
	if idx < 0 || !s.hasher.VerifyPassword(password, s.users[idx].PasswordHash) {
		metrics.SignInAttempts.WithLabelValues(metrics.ResultInvalid).Inc()
		return nil, common.ErrInvalidCredentials
	}

	s.limiter.Reset(key)
	s.sessionID = s.users[idx].ID
	s.persistSession(ctx)

	metrics.SignInAttempts.WithLabelValues(metrics.ResultSuccess).Inc()
	s.log.Info(ctx, "user signed in", "user_id", s.sessionID)
	return s.users[idx].Clone(), nil
}

func (s *accountService) SignOut(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessionID = ""
	s.store.Remove(ctx, common.CollectionUsers, common.FlatKeyCurrentUser)
}

func (s *accountService) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReady {
		return nil, common.ErrNotReady
	}

	idx := s.indexByID(s.sessionID)
	if idx < 0 {
		return nil, nil
	}
	user := s.users[idx]

	if upd.Name != nil {
		name := inputx.Sanitize(*upd.Name)
		if name == "" {
			return nil, common.NewValidationError("name", "name is required")
		}
		user.Name = name
	}
	// Uniqueness against other users is not re-checked here.
	if upd.Email != nil {
		email := inputx.NormalizeEmail(*upd.Email)
		if !inputx.ValidEmail(email) {
			return nil, common.NewValidationError("email", "invalid email address")
		}
		user.Email = email
	}
	if upd.Phone != nil {
		phone := inputx.NormalizePhone(*upd.Phone)
		if !inputx.ValidPhone(phone) {
			return nil, common.NewValidationError("phone", "invalid phone number")
		}
		user.Phone = phone
	}

	s.users[idx] = user
	s.persistUsers(ctx)
	s.persistSession(ctx)

	return user.Clone(), nil
}

func (s *accountService) AddOrderToUser(ctx context.Context, order models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByID(s.sessionID)
	if idx < 0 {
		return
	}

	s.users[idx].Orders = append(s.users[idx].Orders, order.Clone())
	s.persistUsers(ctx)
	s.persistSession(ctx)
}

// GetUserOrders looks orders up by the session user's email or phone,
// falling back to the orders embedded in the user record.
func (s *accountService) GetUserOrders(ctx context.Context) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByID(s.sessionID)
	if idx < 0 {
		return []models.Order{}
	}
	user := s.users[idx]

	var found models.Orders
	err := s.store.Find(ctx, common.CollectionOrders, user.Email, user.Phone, &found)
	if err != nil {
		if !errors.Is(err, common.ErrPrimaryUnavailable) {
			s.log.Warn(ctx, "order lookup failed, using embedded orders", "error", err)
		}
		return user.Clone().Orders
	}
	if found == nil {
		found = models.Orders{}
	}
	return found
}

func (s *accountService) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByID(s.sessionID)
	if idx < 0 {
		return nil
	}
	return s.users[idx].Clone()
}

func (s *accountService) State() AccountState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := AccountState{Phase: s.phase, Users: make(models.Users, len(s.users))}
	for i := range s.users {
		st.Users[i] = *s.users[i].Clone()
	}
	if idx := s.indexByID(s.sessionID); idx >= 0 {
		st.CurrentUser = s.users[idx].Clone()
	}
	return st
}

func (s *accountService) indexByID(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *accountService) indexByEmail(email string) int {
	for i := range s.users {
		if email != "" && s.users[i].Email == email {
			return i
		}
	}
	return -1
}

func (s *accountService) indexByPhone(phone string) int {
	for i := range s.users {
		if phone != "" && s.users[i].Phone == phone {
			return i
		}
	}
	return -1
}

// signInKey reduces an identifier to the single form used both for the
// limiter and for the lookup: the whitespace-free phone number when it
// parses as one, the lower-cased email otherwise.
func signInKey(identifier string) (key string, isPhone bool) {
	if phone := inputx.NormalizePhone(identifier); inputx.ValidPhone(phone) {
		return phone, true
	}
	return inputx.NormalizeEmail(identifier), false
}

func (s *accountService) persistUsers(ctx context.Context) {
	s.store.Save(ctx, common.CollectionUsers, common.FlatKeyUsers, s.users)
}

func (s *accountService) persistSession(ctx context.Context) {
	s.store.SaveFlat(ctx, common.FlatKeyCurrentUser, models.SessionPointer{ID: s.sessionID})
}
