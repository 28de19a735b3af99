package navigation

import (
	"errors"

	"github.com/wichananm65/storefront/internal/session"
)

type Screen string

const (
	ScreenHome         Screen = "home"
	ScreenProduct      Screen = "product"
	ScreenCart         Screen = "cart"
	ScreenCheckout     Screen = "checkout"
	ScreenAdmin        Screen = "admin"
	ScreenOrderSuccess Screen = "orderSuccess"
	ScreenWishlist     Screen = "wishlist"
	ScreenLogin        Screen = "login"
	ScreenSignup       Screen = "signup"
	ScreenOrderHistory Screen = "orderHistory"
	ScreenProfile      Screen = "profile"
)

var ErrUnknownScreen = errors.New("unknown screen")

// requiresSession lists the screens an anonymous visitor is sent to login from.
var requiresSession = map[Screen]bool{
	ScreenProduct:      true,
	ScreenCart:         true,
	ScreenWishlist:     true,
	ScreenCheckout:     true,
	ScreenOrderSuccess: true,
	ScreenOrderHistory: true,
	ScreenProfile:      true,
	ScreenAdmin:        true,
}

var known = map[Screen]bool{
	ScreenHome:   true,
	ScreenLogin:  true,
	ScreenSignup: true,
}

func (s Screen) Valid() bool {
	return known[s] || requiresSession[s]
}

// State is what the client is currently showing. PendingProductID survives
// the trip through login or signup.
type State struct {
	Screen            Screen `json:"screen"`
	SelectedProductID *int   `json:"selectedProductId,omitempty"`
	PendingProductID  *int   `json:"pendingProductId,omitempty"`
}

func Home() State {
	return State{Screen: ScreenHome}
}

// ProductChecker reports whether a product is still in the catalog.
type ProductChecker interface {
	Exists(id int) bool
}

// Router is the guarded view state machine. A nil session means the
// visitor is anonymous.
type Router struct {
	products ProductChecker
}

func NewRouter(products ProductChecker) *Router {
	return &Router{products: products}
}

// Navigate moves to screen to, applying the session and role guards.
func (r *Router) Navigate(sess *session.Session, cur State, to Screen) (State, error) {
	if !to.Valid() {
		return cur, ErrUnknownScreen
	}
	if to == ScreenProduct {
		if cur.SelectedProductID == nil {
			return Home(), nil
		}
		return r.ViewProduct(sess, *cur.SelectedProductID), nil
	}
	if requiresSession[to] && sess == nil {
		return State{Screen: ScreenLogin, PendingProductID: cur.PendingProductID}, nil
	}
	if to == ScreenAdmin && !sess.IsAdmin() {
		return Home(), nil
	}

	next := State{Screen: to}
	if to == ScreenLogin || to == ScreenSignup {
		next.PendingProductID = cur.PendingProductID
	}
	return next, nil
}

// ViewProduct opens a product detail. Anonymous visitors are sent to login
// with the product remembered; unknown products fall back to home.
func (r *Router) ViewProduct(sess *session.Session, productID int) State {
	if !r.products.Exists(productID) {
		return Home()
	}
	id := productID
	if sess == nil {
		return State{Screen: ScreenLogin, PendingProductID: &id}
	}
	return State{Screen: ScreenProduct, SelectedProductID: &id}
}

// CompleteAuth is the state after a successful login or signup.
func (r *Router) CompleteAuth(cur State) State {
	if cur.PendingProductID == nil || !r.products.Exists(*cur.PendingProductID) {
		return Home()
	}
	id := *cur.PendingProductID
	return State{Screen: ScreenProduct, SelectedProductID: &id}
}

func (r *Router) Logout() State {
	return Home()
}
