package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/booklib/internal/common"
	"github.com/dmitrijs2005/booklib/internal/server/auth"
	"github.com/dmitrijs2005/booklib/internal/server/catalog"
	"github.com/gin-gonic/gin"
)

var errBadBody = common.NewError(common.ErrorValidation, "Invalid request body")

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type favoriteRequest struct {
	BookID catalog.BookID `json:"bookId"`
}

// bindJSON decodes the body into v. An absent body leaves v untouched.
func bindJSON(c *gin.Context, v any) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil
	}
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		return errBadBody
	}
	return nil
}

func (h *handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}

	if err := h.Accounts.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		h.writeError(c, err)
		return
	}

	h.Logger.Info(c.Request.Context(), "account registered", "username", req.Username)
	c.JSON(http.StatusCreated, gin.H{"message": "User registered"})
}

func (h *handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}

	token, err := h.Accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		result := "error"
		if errors.Is(err, common.ErrorUnauthorized) {
			result = "failure"
		}
		h.Metrics.LoginAttempts.WithLabelValues(result).Inc()
		h.writeError(c, err)
		return
	}

	h.Metrics.LoginAttempts.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *handler) listBooks(c *gin.Context) {
	books, err := h.Catalog.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

func (h *handler) listFavorites(c *gin.Context) {
	username, _ := auth.IdentityFromContext(c.Request.Context())

	books, err := h.Favorites.List(c.Request.Context(), username)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

func (h *handler) addFavorite(c *gin.Context) {
	username, _ := auth.IdentityFromContext(c.Request.Context())

	var req favoriteRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}

	err := h.Favorites.Add(c.Request.Context(), username, req.BookID)
	h.countMutation("add", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book added to favorites"})
}

func (h *handler) removeFavorite(c *gin.Context) {
	username, _ := auth.IdentityFromContext(c.Request.Context())

	err := h.Favorites.Remove(c.Request.Context(), username, catalog.BookID(c.Param("bookId")))
	h.countMutation("remove", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book removed from favorites"})
}

func (h *handler) countMutation(op string, err error) {
	result := "ok"
	if err != nil {
		result = http.StatusText(statusFor(err))
	}
	h.Metrics.FavoritesMutations.WithLabelValues(op, result).Inc()
}
