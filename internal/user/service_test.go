package user

import (
	"errors"
	"testing"
	"time"

	"github.com/wichananm65/storefront/internal/address"
	"github.com/wichananm65/storefront/internal/session"
)

func newService(repo Repository, resets ResetStore) *Service {
	return NewService(repo, address.NewService(address.NewInMemoryRepository(nil)),
		session.NewIssuer("s", time.Hour), session.NewMemoryRevocations(), resets, time.Hour)
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	svc := newService(repo, NewInMemoryResetStore())

	if err := svc.EnsureAdmin("", "boss@example.com", "pw"); err != nil {
		t.Fatalf("ensure admin failed: %v", err)
	}
	if err := svc.EnsureAdmin("", "boss@example.com", "pw"); err != nil {
		t.Fatalf("second ensure admin failed: %v", err)
	}
	users, _ := repo.List()
	if len(users) != 1 || users[0].Role != session.RoleAdmin || users[0].Name != "Admin" {
		t.Fatalf("unexpected users %+v", users)
	}
	if err := svc.EnsureAdmin("", "", ""); err != nil {
		t.Fatalf("empty bootstrap config should be a no-op, got %v", err)
	}
}

func TestResetToken_Expires(t *testing.T) {
	repo := NewInMemoryRepository([]User{{ID: 3, Name: "Kim", Email: "k@example.com", Password: "x"}})
	resets := NewInMemoryResetStore()
	svc := newService(repo, resets)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	ticket, ok, err := svc.ForgotPassword("k@example.com")
	if err != nil || !ok {
		t.Fatalf("forgot password failed: %v", err)
	}
	if !ticket.Expires.Equal(base.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", ticket.Expires)
	}

	svc.now = func() time.Time { return base.Add(2 * time.Hour) }
	if err := svc.ResetPassword(ticket.Token, "new"); err != ErrInvalidResetToken {
		t.Fatalf("expected expired token to fail, got %v", err)
	}

	n, _ := resets.Purge(base.Add(2 * time.Hour))
	if n != 1 {
		t.Fatalf("expected expired token to be purged, got %d", n)
	}
}

func TestResetToken_StoredHashed(t *testing.T) {
	repo := NewInMemoryRepository([]User{{ID: 3, Name: "Kim", Email: "k@example.com", Password: "x"}})
	resets := NewInMemoryResetStore()
	svc := newService(repo, resets)

	ticket, _, _ := svc.ForgotPassword("k@example.com")
	if _, ok := resets.tokens[ticket.Token]; ok {
		t.Fatalf("raw token must not be stored")
	}
	if _, ok := resets.tokens[hashToken(ticket.Token)]; !ok {
		t.Fatalf("hashed token should be stored")
	}
}

// failingUpdates accepts reads but rejects every user update.
type failingUpdates struct {
	*InMemoryRepository
}

func (failingUpdates) Update(User) (User, error) {
	return User{}, errors.New("connection reset")
}

func TestUpdateProfile_FailedUpdateKeepsAddresses(t *testing.T) {
	repo := failingUpdates{NewInMemoryRepository([]User{{ID: 3, Name: "Kim", Email: "k@example.com", Password: "x"}})}
	addresses := address.NewService(address.NewInMemoryRepository(nil))
	svc := NewService(repo, addresses, session.NewIssuer("s", time.Hour), session.NewMemoryRevocations(), NewInMemoryResetStore(), time.Hour)

	if _, err := addresses.AddAddress(3, address.Address{FullName: "Kim", Street: "1 Old Rd"}); err != nil {
		t.Fatalf("add address failed: %v", err)
	}

	name := "Kimberly"
	list := []address.Address{{FullName: "Kim", Street: "9 New St", IsDefault: true}}
	if _, err := svc.UpdateProfile(3, ProfileUpdate{Name: &name, Addresses: &list}); err == nil {
		t.Fatalf("expected update error")
	}

	saved, _ := addresses.GetAddresses(3)
	if len(saved) != 1 || saved[0].Street != "1 Old Rd" {
		t.Fatalf("address book must be untouched after a failed update, got %+v", saved)
	}
}

func TestUpdateProfile_InvalidAddressLeavesUser(t *testing.T) {
	repo := NewInMemoryRepository([]User{{ID: 3, Name: "Kim", Email: "k@example.com", Password: "x"}})
	svc := newService(repo, NewInMemoryResetStore())

	name := "Kimberly"
	list := []address.Address{{FullName: "Kim"}}
	if _, err := svc.UpdateProfile(3, ProfileUpdate{Name: &name, Addresses: &list}); err != address.ErrInvalidAddress {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
	u, _ := repo.GetByID(3)
	if u.Name != "Kim" {
		t.Fatalf("user must not be renamed when addresses are invalid, got %q", u.Name)
	}
}

func TestDisplayName_FollowsRename(t *testing.T) {
	repo := NewInMemoryRepository([]User{{ID: 7, Name: "Jenny", Email: "j@example.com", Password: "x"}})
	svc := newService(repo, NewInMemoryResetStore())

	name := "Jennifer"
	if _, err := svc.UpdateProfile(7, ProfileUpdate{Name: &name}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	got, err := svc.DisplayName(7)
	if err != nil || got != "Jennifer" {
		t.Fatalf("expected renamed display name, got %q (%v)", got, err)
	}
	if _, err := svc.DisplayName(99); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
