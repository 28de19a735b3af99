package user

import (
	"strings"
	"time"

	"github.com/wichananm65/storefront/internal/address"
	"github.com/wichananm65/storefront/internal/session"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Auth is the result of a successful login or signup.
type Auth struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ResetTicket is handed back by ForgotPassword. There is no mail delivery,
// so the raw token travels in the response.
type ResetTicket struct {
	Token   string    `json:"resetToken"`
	Expires time.Time `json:"expires"`
}

type Service struct {
	repo        Repository
	addresses   *address.Service
	issuer      *session.Issuer
	revocations session.RevocationStore
	resets      ResetStore
	resetTTL    time.Duration
	now         func() time.Time
}

func NewService(repo Repository, addresses *address.Service, issuer *session.Issuer, revocations session.RevocationStore, resets ResetStore, resetTTL time.Duration) *Service {
	return &Service{
		repo:        repo,
		addresses:   addresses,
		issuer:      issuer,
		revocations: revocations,
		resets:      resets,
		resetTTL:    resetTTL,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) List() ([]User, error) {
	users, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	out := make([]User, 0, len(users))
	for _, u := range users {
		out = append(out, sanitizeUser(u))
	}
	return out, nil
}

// Login checks the credentials and binds a new session. An unknown email
// and a wrong password fail the same way.
func (s *Service) Login(email, password string) (Auth, error) {
	u, err := s.repo.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		if err != ErrNotFound {
			return Auth{}, err
		}
		return Auth{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return Auth{}, ErrInvalidCredentials
	}
	return s.bind(u)
}

// Signup creates a regular user and logs them in.
func (s *Service) Signup(name, email, password string) (Auth, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return Auth{}, ErrMissingFields
	}
	if _, err := s.repo.GetByEmail(email); err == nil {
		return Auth{}, ErrEmailExists
	} else if err != ErrNotFound {
		return Auth{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Auth{}, err
	}
	now := s.now()
	created, err := s.repo.Create(User{
		Name:      name,
		Email:     email,
		Password:  string(hashed),
		Role:      session.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return Auth{}, err
	}
	return s.bind(created)
}

func (s *Service) bind(u User) (Auth, error) {
	token, sess, err := s.issuer.Issue(u.ID, u.Email, u.Name, u.Role)
	if err != nil {
		return Auth{}, err
	}
	return Auth{Token: token, User: sanitizeUser(u), ExpiresAt: sess.ExpiresAt}, nil
}

// Logout revokes the session's token until it would have expired anyway.
func (s *Service) Logout(sess session.Session) error {
	if sess.TokenID == "" {
		return nil
	}
	until := sess.ExpiresAt
	if until.IsZero() {
		until = s.now().Add(24 * time.Hour)
	}
	return s.revocations.Revoke(sess.TokenID, until)
}

// Profile returns the user with their saved addresses.
func (s *Service) Profile(userID int) (User, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return User{}, err
	}
	list, err := s.addresses.GetAddresses(userID)
	if err != nil {
		return User{}, err
	}
	u.Addresses = list
	return sanitizeUser(u), nil
}

func (s *Service) UpdateProfile(userID int, upd ProfileUpdate) (User, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return User{}, err
	}
	u.Password = ""

	if upd.Name != nil {
		if name := strings.TrimSpace(*upd.Name); name != "" {
			u.Name = name
		}
	}
	if upd.Email != nil {
		email := strings.TrimSpace(*upd.Email)
		if email == "" {
			return User{}, ErrMissingFields
		}
		if email != u.Email {
			if other, err := s.repo.GetByEmail(email); err == nil && other.ID != userID {
				return User{}, ErrEmailExists
			} else if err != nil && err != ErrNotFound {
				return User{}, err
			}
		}
		u.Email = email
	}
	if upd.Password != nil && *upd.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, err
		}
		u.Password = string(hashed)
	}
	if upd.Phone != nil {
		u.Phone = upd.Phone
	}
	if upd.Avatar != nil {
		u.Avatar = upd.Avatar
	}
	u.UpdatedAt = s.now()

	// addresses are validated up front and only written once the user row
	// has been saved
	if upd.Addresses != nil {
		if err := address.ValidateAll(*upd.Addresses); err != nil {
			return User{}, err
		}
	}
	if _, err := s.repo.Update(u); err != nil {
		return User{}, err
	}
	if upd.Addresses != nil {
		if _, err := s.addresses.ReplaceAddresses(userID, *upd.Addresses); err != nil {
			return User{}, err
		}
	}
	return s.Profile(userID)
}

// DisplayName returns the name currently stored for the user.
func (s *Service) DisplayName(userID int) (string, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return "", err
	}
	return u.Name, nil
}

// DeleteUser removes a regular account. Admin accounts cannot be deleted.
func (s *Service) DeleteUser(id int) error {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if u.Role == session.RoleAdmin {
		return ErrAdminProtected
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	zap.L().Info("user deleted", zap.Int("user_id", id))
	return nil
}

// SetAvatar records an uploaded avatar path, or clears it when path is nil.
func (s *Service) SetAvatar(userID int, path *string) (User, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return User{}, err
	}
	u.Password = ""
	u.Avatar = path
	u.UpdatedAt = s.now()
	if _, err := s.repo.Update(u); err != nil {
		return User{}, err
	}
	return s.Profile(userID)
}

// ForgotPassword issues a single-use reset token. ok is false when the email
// is unknown; callers must not reveal that to the client.
func (s *Service) ForgotPassword(email string) (ResetTicket, bool, error) {
	u, err := s.repo.GetByEmail(strings.TrimSpace(email))
	if err == ErrNotFound {
		return ResetTicket{}, false, nil
	}
	if err != nil {
		return ResetTicket{}, false, err
	}

	raw, hash, err := newResetToken()
	if err != nil {
		return ResetTicket{}, false, err
	}
	expires := s.now().Add(s.resetTTL)
	if err := s.resets.Save(hash, u.ID, expires); err != nil {
		return ResetTicket{}, false, err
	}
	zap.L().Info("password reset requested", zap.Int("user_id", u.ID), zap.Time("expires", expires))
	return ResetTicket{Token: raw, Expires: expires}, true, nil
}

func (s *Service) ResetPassword(token, newPassword string) error {
	if token == "" || newPassword == "" {
		return ErrInvalidResetToken
	}
	userID, err := s.resets.Consume(hashToken(token), s.now())
	if err != nil {
		return err
	}
	_, err = s.UpdateProfile(userID, ProfileUpdate{Password: &newPassword})
	return err
}

// EnsureAdmin creates the bootstrap admin account when it does not exist.
func (s *Service) EnsureAdmin(name, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.repo.GetByEmail(email); err == nil {
		return nil
	} else if err != ErrNotFound {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if name == "" {
		name = "Admin"
	}
	now := s.now()
	created, err := s.repo.Create(User{
		Name:      name,
		Email:     email,
		Password:  string(hashed),
		Role:      session.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return err
	}
	zap.L().Info("bootstrap admin created", zap.Int("user_id", created.ID), zap.String("email", email))
	return nil
}
