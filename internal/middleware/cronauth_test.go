package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func cronTestRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/cron/embargo", CronAuth(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r
}

func TestCronAuthMissingHeader(t *testing.T) {
	r := cronTestRouter("topsecret")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/cron/embargo", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCronAuthWrongSecret(t *testing.T) {
	r := cronTestRouter("topsecret")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/cron/embargo", nil)
	req.Header.Set("Authorization", "Bearer nope")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCronAuthEmptyConfiguredSecretRejectsAll(t *testing.T) {
	r := cronTestRouter("")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/cron/embargo", nil)
	req.Header.Set("Authorization", "Bearer ")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCronAuthValidSecret(t *testing.T) {
	r := cronTestRouter("topsecret")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/cron/embargo", nil)
	req.Header.Set("Authorization", "Bearer topsecret")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
