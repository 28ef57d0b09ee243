// Package nav is the in-memory stack-based screen router: one active
// screen, a typed parameter payload, and a push-down history. Nothing is
// persisted and there is no forward stack or deep linking.
package nav

import (
	"sync"

	"github.com/padec243-alt/Padec-Connect-sub000/services/catalog"
)

// Screen names one destination view.
type Screen string

const (
	ScreenHome         Screen = "home"
	ScreenLogin        Screen = "login"
	ScreenRegister     Screen = "register"
	ScreenProfileSetup Screen = "profileSetup"
	ScreenProfile      Screen = "profile"
	ScreenMarket       Screen = "market"
	ScreenProduct      Screen = "productDetail"
	ScreenCart         Screen = "cart"
	ScreenCheckout     Screen = "checkout"
	ScreenHealth       Screen = "health"
	ScreenCoworking    Screen = "coworking"
	ScreenEvents       Screen = "events"
	ScreenHousing      Screen = "housing"
	ScreenVisa         Screen = "visa"
	ScreenFamilyHelp   Screen = "familyHelp"
)

// Params is the tagged union of navigation payloads. Each destination that
// expects a payload has its own variant; screens without one take nil.
type Params interface {
	navParams()
}

type ProductParams struct{ Product catalog.Product }

type ServiceParams struct{ Service catalog.HealthService }

type WorkspaceParams struct{ Workspace catalog.Workspace }

type EventParams struct{ Event catalog.Event }

type ListingParams struct{ Listing catalog.HousingListing }

type VisaParams struct{ Service catalog.VisaService }

type HelperParams struct{ Helper catalog.FamilyHelper }

func (ProductParams) navParams()   {}
func (ServiceParams) navParams()   {}
func (WorkspaceParams) navParams() {}
func (EventParams) navParams()     {}
func (ListingParams) navParams()   {}
func (VisaParams) navParams()      {}
func (HelperParams) navParams()    {}

// Controller holds the navigation state. Create one per app instance and
// inject it; there is deliberately no package-level instance.
type Controller struct {
	mu      sync.Mutex
	history []Screen
	params  Params
}

// NewController starts the stack at the given screen with no params.
func NewController(start Screen) *Controller {
	return &Controller{history: []Screen{start}}
}

// Navigate pushes the destination onto the stack and makes it current.
// A nil params means the destination takes none.
func (c *Controller) Navigate(screen Screen, params Params) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, screen)
	c.params = params
}

// GoBack pops one entry and restores the previous screen. With one entry on
// the stack it is a no-op. Params are always cleared, even though the
// restored screen may have been navigated to with some: that mirrors the
// shipped behavior and is intentional until product says otherwise.
func (c *Controller) GoBack() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.history) <= 1 {
		return
	}
	c.history = c.history[:len(c.history)-1]
	c.params = nil
}

// Current returns the active screen and its params (nil when none).
func (c *Controller) Current() (Screen, Params) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history[len(c.history)-1], c.params
}

// Depth reports the stack depth including the current screen.
func (c *Controller) Depth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.history)
}
