package main

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/padec243-alt/Padec-Connect-sub000/services/cart"
	"github.com/padec243-alt/Padec-Connect-sub000/services/catalog"
	"github.com/padec243-alt/Padec-Connect-sub000/services/checkout"
	"github.com/padec243-alt/Padec-Connect-sub000/services/identity"
	"github.com/padec243-alt/Padec-Connect-sub000/services/session"
	"github.com/padec243-alt/Padec-Connect-sub000/services/user"
	"github.com/padec243-alt/Padec-Connect-sub000/validator"
)

type Server struct {
	IdentityService identity.Service
	UserService     user.Service
	SessionService  session.Service
	CatalogService  catalog.Service
	CheckoutService checkout.Service

	mu    sync.Mutex
	carts map[string]*cart.Store
}

func NewServer(ids identity.Service, users user.Service, listings catalog.Service, orders checkout.Service) *Server {
	return &Server{
		IdentityService: ids,
		UserService:     users,
		CatalogService:  listings,
		CheckoutService: orders,
		carts:           make(map[string]*cart.Store),
	}
}

// RegisterRoutes wires every handler onto the router. Listing routes are
// public; everything touching a profile, cart or order needs a bearer token.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/ping", s.Ping)

	auth := r.Group("/auth")
	auth.POST("/register", s.Register)
	auth.POST("/login", s.Login)
	auth.POST("/google", s.LoginWithGoogle)
	auth.POST("/logout", s.Logout)
	r.GET("/session", s.Session)

	r.GET("/market/products", s.Products)
	r.GET("/market/products/:id", s.Product)
	r.GET("/market/categories", s.Categories)
	r.GET("/market/search", s.SearchProducts)
	r.GET("/health/services", s.HealthServices)
	r.GET("/coworking/workspaces", s.Workspaces)
	r.GET("/events", s.Events)
	r.GET("/housing/listings", s.HousingListings)
	r.GET("/visa/services", s.VisaServices)
	r.GET("/family-help/helpers", s.FamilyHelpers)

	private := r.Group("/", validator.RequireAuth())
	private.GET("/profile", s.Profile)
	private.PUT("/profile/setup", s.CompleteSetup)
	private.PUT("/profile/avatar", s.UpdateAvatar)
	private.GET("/cart", s.Cart)
	private.POST("/cart/items", s.AddToCart)
	private.PUT("/cart/items/:productId", s.UpdateCartItem)
	private.DELETE("/cart/items/:productId", s.RemoveCartItem)
	private.POST("/checkout", s.Checkout)
	private.GET("/orders", s.Orders)
}

func (s *Server) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ping": "pong"})
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Phone       string `json:"phone"`
}

func (s *Server) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	account, err := s.IdentityService.Register(c, req.Email, req.Password, req.DisplayName, req.Phone)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	account, err := s.IdentityService.Login(c, req.Email, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

type googleLoginRequest struct {
	IDToken string `json:"idToken"`
}

func (s *Server) LoginWithGoogle(c *gin.Context) {
	var req googleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	account, err := s.IdentityService.LoginWithGoogle(c, req.IDToken)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (s *Server) Logout(c *gin.Context) {
	s.IdentityService.Logout()
	c.Status(http.StatusNoContent)
}

// Session reports the observed auth state: who is signed in, whether the
// profile finished loading, and where routing should land next.
func (s *Server) Session(c *gin.Context) {
	account, profile := s.SessionService.Current()
	state := "unknown"
	switch s.SessionService.SetupState() {
	case session.SetupComplete:
		state = "complete"
	case session.SetupIncomplete:
		state = "incomplete"
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": s.SessionService.IsAuthenticated(),
		"loading":       s.SessionService.Loading(),
		"setupState":    state,
		"error":         s.SessionService.Err(),
		"account":       account,
		"profile":       profile,
	})
}

func (s *Server) Profile(c *gin.Context) {
	access, ok := validator.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
		return
	}
	profile, err := s.UserService.Get(c, access.UID)
	if errors.Is(err, user.NotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	if err != nil {
		slog.With("error", err.Error()).Error("failed to load profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) CompleteSetup(c *gin.Context) {
	access, ok := validator.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
		return
	}
	var setup user.Setup
	if err := c.ShouldBindJSON(&setup); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := s.UserService.CompleteSetup(c, access.UID, setup); err != nil {
		slog.With("error", err.Error()).Error("failed to complete profile setup")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save profile"})
		return
	}
	profile, err := s.UserService.Get(c, access.UID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

type avatarRequest struct {
	Image  string `json:"image"`
	Format string `json:"format"`
}

func (s *Server) UpdateAvatar(c *gin.Context) {
	access, ok := validator.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
		return
	}
	var req avatarRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	url, err := s.UserService.UpdateAvatar(c, access.UID, req.Image, req.Format)
	if err != nil {
		slog.With("error", err.Error()).Error("failed to update avatar")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update avatar"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profilePictureUrl": url})
}

func (s *Server) Products(c *gin.Context) {
	if category := c.Query("category"); category != "" {
		products, err := s.CatalogService.ProductsByCategory(c, category)
		respondList(c, products, err)
		return
	}
	products, err := s.CatalogService.Products(c)
	respondList(c, products, err)
}

func (s *Server) Product(c *gin.Context) {
	product, err := s.CatalogService.Product(c, c.Param("id"))
	if errors.Is(err, catalog.NotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	if err != nil {
		slog.With("error", err.Error()).Error("failed to load product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load product"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) Categories(c *gin.Context) {
	categories, err := s.CatalogService.Categories(c)
	respondList(c, categories, err)
}

func (s *Server) SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}
	products, err := s.CatalogService.Search(c, query)
	if errors.Is(err, catalog.ErrSearchUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search is not available"})
		return
	}
	respondList(c, products, err)
}

func (s *Server) HealthServices(c *gin.Context) {
	services, err := s.CatalogService.HealthServices(c)
	respondList(c, services, err)
}

func (s *Server) Workspaces(c *gin.Context) {
	workspaces, err := s.CatalogService.Workspaces(c)
	respondList(c, workspaces, err)
}

func (s *Server) Events(c *gin.Context) {
	events, err := s.CatalogService.Events(c)
	respondList(c, events, err)
}

func (s *Server) HousingListings(c *gin.Context) {
	listings, err := s.CatalogService.HousingListings(c)
	respondList(c, listings, err)
}

func (s *Server) VisaServices(c *gin.Context) {
	services, err := s.CatalogService.VisaServices(c)
	respondList(c, services, err)
}

func (s *Server) FamilyHelpers(c *gin.Context) {
	helpers, err := s.CatalogService.FamilyHelpers(c)
	respondList(c, helpers, err)
}

type cartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (s *Server) Cart(c *gin.Context) {
	access, ok := validator.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
		return
	}
	store := s.cartFor(access.UID)
	c.JSON(http.StatusOK, gin.H{
		"items":     store.Items(),
		"total":     store.Total(),
		"itemCount": store.ItemCount(),
	})
}

func (s *Server) AddToCart(c *gin.Context) {
	access, ok := validator.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
		return
	}
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	product, err := s.CatalogService.Product(c, req.ProductID)
	if errors.Is(err, catalog.NotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	if err != nil {
		slog.With("error", err.Error()).Error("failed to load product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load product"})
		return
	}
	store := s.cartFor(access.UID)
	store.Add(*product)
	c.JSON(http.StatusOK, gin.H{"itemCount": store.ItemCount()})
}

func (s *Server) UpdateCartItem(c *gin.Context) {
	access, ok := validator.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
		return
	}
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	store := s.cartFor(access.UID)
	store.UpdateQuantity(c.Param("productId"), req.Quantity)
	c.JSON(http.StatusOK, gin.H{"itemCount": store.ItemCount()})
}

func (s *Server) RemoveCartItem(c *gin.Context) {
	access, ok := validator.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
		return
	}
	store := s.cartFor(access.UID)
	store.Remove(c.Param("productId"))
	c.JSON(http.StatusOK, gin.H{"itemCount": store.ItemCount()})
}

func (s *Server) Checkout(c *gin.Context) {
	access, ok := validator.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
		return
	}
	store := s.cartFor(access.UID)
	order, err := s.CheckoutService.PlaceOrder(c, access.UID, store)
	if errors.Is(err, checkout.ErrEmptyCart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		return
	}
	if err != nil {
		slog.With("error", err.Error()).Error("failed to place order")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to place order"})
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (s *Server) Orders(c *gin.Context) {
	access, ok := validator.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
		return
	}
	orders, err := s.CheckoutService.Orders(c, access.UID)
	respondList(c, orders, err)
}

func (s *Server) cartFor(uid string) *cart.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	store, ok := s.carts[uid]
	if !ok {
		store = cart.NewStore()
		s.carts[uid] = store
	}
	return store
}

func respondList[T any](c *gin.Context, items []T, err error) {
	if err != nil {
		slog.With("error", err.Error()).Error("failed to load listings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load listings"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func respondAuthError(c *gin.Context, err error) {
	var authErr *identity.AuthError
	if errors.As(err, &authErr) {
		status := http.StatusBadRequest
		if authErr.Code == "INVALID_LOGIN_CREDENTIALS" || authErr.Code == "INVALID_PASSWORD" || authErr.Code == "EMAIL_NOT_FOUND" {
			status = http.StatusUnauthorized
		}
		c.JSON(status, gin.H{"error": authErr.Message, "code": authErr.Code})
		return
	}
	slog.With("error", err.Error()).Error("auth request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong, please try again"})
}
