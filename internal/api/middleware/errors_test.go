package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/techrehub/chatbot-service/internal/api/middleware"
	"github.com/techrehub/chatbot-service/internal/domain/errors"
)

func serve(handler gin.HandlerFunc, middlewares ...gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middlewares...)
	router.GET("/test", handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	return w
}

func TestHandleError_DomainErrorStatusAndCode(t *testing.T) {
	w := serve(func(c *gin.Context) {
		middleware.HandleError(c, errors.NewNotFoundError("booking", "missing-1"))
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
	assert.Contains(t, w.Body.String(), "missing-1")
}

func TestHandleError_WrappedDomainError(t *testing.T) {
	w := serve(func(c *gin.Context) {
		wrapped := fmt.Errorf("loading session: %w", errors.NewUnauthorizedError("invalid webhook signature"))
		middleware.HandleError(c, wrapped)
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandleError_UnknownErrorIs500(t *testing.T) {
	w := serve(func(c *gin.Context) {
		middleware.HandleError(c, fmt.Errorf("boom"))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestRecovery_PanicBecomes500(t *testing.T) {
	w := serve(func(c *gin.Context) {
		panic("handler exploded")
	}, middleware.Recovery(zerolog.Nop()))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
