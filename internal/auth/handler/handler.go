package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NixoNetwork/main/internal/auth"
	"github.com/NixoNetwork/main/internal/auth/credentials"
	"github.com/NixoNetwork/main/internal/auth/provider"
	"github.com/NixoNetwork/main/internal/auth/resolver"
	"github.com/NixoNetwork/main/internal/session"
	"github.com/NixoNetwork/main/internal/statestore"
	"github.com/NixoNetwork/main/internal/store"
)

// IDTokenVerifier verifies a provider-signed ID token passed directly
// from a client SDK (the google login path).
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, rawToken string) (*auth.Identity, error)
}

type Handler struct {
	providers   *provider.Registry
	google      IDTokenVerifier
	states      statestore.Store
	resolver    resolver.Resolver
	credentials *credentials.Service
	sessions    *session.Issuer
	store       store.Store
}

func NewHandler(
	registry *provider.Registry,
	google IDTokenVerifier,
	states statestore.Store,
	res resolver.Resolver,
	creds *credentials.Service,
	sessions *session.Issuer,
	st store.Store,
) *Handler {
	return &Handler{
		providers:   registry,
		google:      google,
		states:      states,
		resolver:    res,
		credentials: creds,
		sessions:    sessions,
		store:       st,
	}
}

// RegisterRoutes mounts the public authentication endpoints.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	grp := r.Group("/auth")
	grp.POST("/check-email", h.CheckEmail)
	grp.POST("/login", h.Login)
	grp.POST("/register", h.Register)
	grp.POST("/google", h.Google)
	grp.POST("/twitter/init", h.TwitterInit)
	grp.POST("/twitter/callback", h.TwitterCallback)
}

// RegisterUserRoutes mounts the authenticated account portal
// endpoints onto a group that already carries the auth middleware.
func (h *Handler) RegisterUserRoutes(g *gin.RouterGroup) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.POST("/addresses", h.AddAddress)
	g.PUT("/addresses/:addressId", h.UpdateAddress)
	g.DELETE("/addresses/:addressId", h.DeleteAddress)
	g.PUT("/wallet", h.UpdateWallet)
	g.GET("/rewards", h.GetRewards)
	g.POST("/rewards", h.AddRewards)
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg, "success": false})
}

func userPayload(a *store.Account) gin.H {
	return gin.H{
		"id":    a.ID,
		"email": a.Email,
		"name":  a.DisplayName,
	}
}

// issueSession signs a session token for the account, failing the
// request on signing errors.
func (h *Handler) issueSession(c *gin.Context, a *store.Account) (string, bool) {
	token, err := h.sessions.Issue(a)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Server error")
		return "", false
	}
	return token, true
}
