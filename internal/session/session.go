// Package session tracks who is signed in on a client and owns the per-email
// profile records.
package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/david/youth-hub/internal/i18n"
	"github.com/david/youth-hub/internal/models"
	"github.com/david/youth-hub/internal/storage"
)

var (
	ErrMissingFields      = errors.New("email and password are required")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrAccountExists      = errors.New("account already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrAdminSession       = errors.New("admin sessions have no profile")
	ErrInvalidProfile     = errors.New("invalid profile")

	// ErrNameRequired is the ErrInvalidProfile of a setup without a real name.
	ErrNameRequired = fmt.Errorf("%w: please enter your name", ErrInvalidProfile)
)

var userMessages = map[error]string{
	ErrMissingFields:   "Please fill in all fields.",
	ErrInvalidEmail:    "Please enter a valid email address.",
	ErrAccountExists:   "An account with this email already exists. Please sign in.",
	ErrAccountNotFound: "No account found with this email. Please sign up.",
}

// UserMessage returns the sign-in form text for err, or err's own text.
func UserMessage(err error) string {
	for target, msg := range userMessages {
		if errors.Is(err, target) {
			return msg
		}
	}
	return err.Error()
}

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

type Phase string

const (
	LoggedOut         Phase = "logged_out"
	Admin             Phase = "admin"
	ProfileIncomplete Phase = "profile_incomplete"
	ProfileComplete   Phase = "profile_complete"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// View is the landing page for the session: admins start on the dashboard.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewHub       View = "hub"
)

type State struct {
	Phase   Phase               `json:"phase"`
	Email   string              `json:"email,omitempty"`
	Role    Role                `json:"role,omitempty"`
	View    View                `json:"view,omitempty"`
	Profile *models.UserProfile `json:"profile,omitempty"`
}

func (s State) LoggedIn() bool { return s.Phase != LoggedOut }

// NeedsSetup reports whether the mandatory profile setup is pending.
func (s State) NeedsSetup() bool { return s.Phase == ProfileIncomplete }

type Credential struct {
	Email    string
	Password string
}

type account struct {
	Password string `json:"password"`
}

// Manager holds what is shared by every client: the credential table and
// the profiles.
type Manager struct {
	kv          storage.KV
	admin       Credential
	socialEmail string
	log         *zap.Logger
	now         func() time.Time

	usersMu   sync.Mutex
	clientsMu sync.Mutex
}

func NewManager(kv storage.KV, admin Credential, socialEmail string, log *zap.Logger) *Manager {
	return &Manager{kv: kv, admin: admin, socialEmail: socialEmail, log: log, now: time.Now}
}

// SocialEmail is the account every social login signs in as.
func (m *Manager) SocialEmail() string { return m.socialEmail }

// Session returns the view of one client. The empty id is the single local
// client.
func (m *Manager) Session(clientID string) *Session {
	return &Session{
		id:    clientID,
		m:     m,
		flags: storage.WithPrefix(m.kv, storage.SessionPrefix(clientID)),
		log:   m.log.With(zap.String("client", clientID)),
	}
}

// Session is the login state of one client.
type Session struct {
	id    string
	m     *Manager
	flags storage.KV
	log   *zap.Logger
}

func validateCredentials(email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", ErrMissingFields
	}
	if !emailPattern.MatchString(email) {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func (m *Manager) isAdmin(email, password string) bool {
	return m.admin.Email != "" && email == m.admin.Email && password == m.admin.Password
}

// Register creates an account and signs it in. The static admin pair signs
// in as admin instead.
func (s *Session) Register(ctx context.Context, email, password string) (State, error) {
	email, err := validateCredentials(email, password)
	if err != nil {
		return State{}, err
	}
	if s.m.isAdmin(email, password) {
		return s.enter(ctx, email, true)
	}

	s.m.usersMu.Lock()
	users, err := s.m.users(ctx)
	if err != nil {
		s.m.usersMu.Unlock()
		return State{}, err
	}
	if _, ok := users[email]; ok {
		s.m.usersMu.Unlock()
		return State{}, ErrAccountExists
	}
	users[email] = account{Password: password}
	err = storage.SetJSON(ctx, s.m.kv, storage.KeyUsers, users)
	s.m.usersMu.Unlock()
	if err != nil {
		return State{}, fmt.Errorf("save account: %w", err)
	}

	if err := s.m.saveProfile(ctx, models.DefaultProfile(email, models.PlaceholderName)); err != nil {
		return State{}, err
	}
	s.log.Info("account registered", zap.String("email", email))
	return s.enter(ctx, email, false)
}

func (s *Session) Login(ctx context.Context, email, password string) (State, error) {
	email, err := validateCredentials(email, password)
	if err != nil {
		return State{}, err
	}
	if s.m.isAdmin(email, password) {
		return s.enter(ctx, email, true)
	}

	s.m.usersMu.Lock()
	users, err := s.m.users(ctx)
	s.m.usersMu.Unlock()
	if err != nil {
		return State{}, err
	}
	acct, ok := users[email]
	if !ok {
		return State{}, ErrAccountNotFound
	}
	if acct.Password != password {
		return State{}, ErrInvalidCredentials
	}
	return s.enter(ctx, email, false)
}

// SocialLogin signs in the fixed social account, creating its profile on
// first use.
func (s *Session) SocialLogin(ctx context.Context) (State, error) {
	email := s.m.socialEmail
	if _, err := s.m.profile(ctx, email, models.SocialPlaceholderName); err != nil {
		return State{}, err
	}
	return s.enter(ctx, email, false)
}

// Logout clears this client's flags only. Profiles and accounts stay. A
// tracked client is forgotten entirely, language included, since its id is
// never reused.
func (s *Session) Logout(ctx context.Context) error {
	if s.id != "" {
		if err := s.m.Forget(ctx, s.id); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
		s.log.Info("logged out")
		return nil
	}
	for _, key := range []string{storage.KeyLoggedIn, storage.KeyIsAdmin, storage.KeyCurrentUser} {
		if err := s.flags.Delete(ctx, key); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
	}
	s.log.Info("logged out")
	return nil
}

func (s *Session) enter(ctx context.Context, email string, admin bool) (State, error) {
	if err := s.flags.Set(ctx, storage.KeyLoggedIn, []byte("true")); err != nil {
		return State{}, fmt.Errorf("login: %w", err)
	}
	if err := s.flags.Set(ctx, storage.KeyCurrentUser, []byte(email)); err != nil {
		return State{}, fmt.Errorf("login: %w", err)
	}
	if admin {
		if err := s.flags.Set(ctx, storage.KeyIsAdmin, []byte("true")); err != nil {
			return State{}, fmt.Errorf("login: %w", err)
		}
	} else if err := s.flags.Delete(ctx, storage.KeyIsAdmin); err != nil {
		return State{}, fmt.Errorf("login: %w", err)
	}
	s.log.Info("logged in", zap.String("email", email), zap.Bool("admin", admin))
	return s.State(ctx)
}

// State restores the session from the persisted flags.
func (s *Session) State(ctx context.Context) (State, error) {
	loggedIn, err := s.flag(ctx, storage.KeyLoggedIn)
	if err != nil || !loggedIn {
		return State{Phase: LoggedOut}, err
	}
	raw, err := s.flags.Get(ctx, storage.KeyCurrentUser)
	if errors.Is(err, storage.ErrNotFound) {
		return State{Phase: LoggedOut}, nil
	}
	if err != nil {
		return State{}, err
	}
	email := string(raw)

	admin, err := s.flag(ctx, storage.KeyIsAdmin)
	if err != nil {
		return State{}, err
	}
	if admin {
		return State{Phase: Admin, Email: email, Role: RoleAdmin, View: ViewDashboard}, nil
	}

	p, err := s.m.profile(ctx, email, models.PlaceholderName)
	if err != nil {
		return State{}, err
	}
	st := State{Phase: ProfileComplete, Email: email, Role: RoleUser, View: ViewHub, Profile: &p}
	if p.IsPlaceholder() {
		st.Phase = ProfileIncomplete
	}
	return st, nil
}

func (s *Session) flag(ctx context.Context, key string) (bool, error) {
	raw, err := s.flags.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return string(raw) == "true", nil
}

// user returns the signed-in non-admin email.
func (s *Session) user(ctx context.Context) (string, error) {
	st, err := s.State(ctx)
	if err != nil {
		return "", err
	}
	switch st.Phase {
	case LoggedOut:
		return "", ErrNotLoggedIn
	case Admin:
		return "", ErrAdminSession
	}
	return st.Email, nil
}

func (s *Session) Profile(ctx context.Context) (models.UserProfile, error) {
	email, err := s.user(ctx)
	if err != nil {
		return models.UserProfile{}, err
	}
	return s.m.profile(ctx, email, models.PlaceholderName)
}

// SaveProfile stores a full form edit. The email is always the session's.
func (s *Session) SaveProfile(ctx context.Context, p models.UserProfile) (models.UserProfile, error) {
	email, err := s.user(ctx)
	if err != nil {
		return models.UserProfile{}, err
	}
	p.Email = email
	p.Normalize()
	if p.EducationLevel != "" && !models.IsEducationLevel(p.EducationLevel) {
		return models.UserProfile{}, fmt.Errorf("%w: unknown education level %q", ErrInvalidProfile, p.EducationLevel)
	}
	if err := s.m.saveProfile(ctx, p); err != nil {
		return models.UserProfile{}, err
	}
	s.log.Info("profile saved", zap.String("email", email))
	return p, nil
}

// CompleteSetup is SaveProfile for the mandatory first edit: the name must
// be real.
func (s *Session) CompleteSetup(ctx context.Context, p models.UserProfile) (State, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" || models.IsPlaceholderName(name) {
		return State{}, ErrNameRequired
	}
	if _, err := s.SaveProfile(ctx, p); err != nil {
		return State{}, err
	}
	return s.State(ctx)
}

// UpdateBio persists a bio edit immediately.
func (s *Session) UpdateBio(ctx context.Context, bio string) (models.UserProfile, error) {
	p, err := s.Profile(ctx)
	if err != nil {
		return models.UserProfile{}, err
	}
	p.Bio = bio
	if err := s.m.saveProfile(ctx, p); err != nil {
		return models.UserProfile{}, err
	}
	return p, nil
}

// Language returns the client's display language, English when unset.
func (s *Session) Language(ctx context.Context) (string, error) {
	raw, err := s.flags.Get(ctx, storage.KeyLanguage)
	if errors.Is(err, storage.ErrNotFound) {
		return i18n.DefaultLanguage, nil
	}
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (s *Session) SetLanguage(ctx context.Context, language string) error {
	if !i18n.IsLanguage(language) {
		return fmt.Errorf("unsupported language %q", language)
	}
	return s.flags.Set(ctx, storage.KeyLanguage, []byte(language))
}

// users reads the credential table. Caller holds usersMu.
func (m *Manager) users(ctx context.Context) (map[string]account, error) {
	users := map[string]account{}
	err := storage.GetJSON(ctx, m.kv, storage.KeyUsers, &users)
	var decodeErr *storage.DecodeError
	switch {
	case err == nil, errors.Is(err, storage.ErrNotFound):
		return users, nil
	case errors.As(err, &decodeErr):
		m.log.Warn("credential table unreadable, starting empty", zap.Error(err))
		return map[string]account{}, nil
	default:
		return nil, fmt.Errorf("load accounts: %w", err)
	}
}

// AccountCount reports how many accounts are registered.
func (m *Manager) AccountCount(ctx context.Context) (int, error) {
	m.usersMu.Lock()
	defer m.usersMu.Unlock()
	users, err := m.users(ctx)
	return len(users), err
}

// profile loads the profile for email, storing a default one under
// placeholder when none or an unreadable one exists.
func (m *Manager) profile(ctx context.Context, email, placeholder string) (models.UserProfile, error) {
	var p models.UserProfile
	err := storage.GetJSON(ctx, m.kv, storage.ProfileKey(email), &p)
	var decodeErr *storage.DecodeError
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, storage.ErrNotFound):
	case errors.As(err, &decodeErr):
		m.log.Warn("profile unreadable, resetting", zap.String("email", email), zap.Error(err))
	default:
		return models.UserProfile{}, fmt.Errorf("load profile: %w", err)
	}

	p = models.DefaultProfile(email, placeholder)
	if err := m.saveProfile(ctx, p); err != nil {
		return models.UserProfile{}, err
	}
	return p, nil
}

func (m *Manager) saveProfile(ctx context.Context, p models.UserProfile) error {
	if err := storage.SetJSON(ctx, m.kv, storage.ProfileKey(p.Email), p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
