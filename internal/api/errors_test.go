package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/Vladimir-spb/foodgram-backend/internal/service"
)

func respondErrorCode(err error) int {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, err)
	return w.Code
}

func TestRespondErrorMapping(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, respondErrorCode(service.ErrRecipeNotFound))
	assert.Equal(t, http.StatusBadRequest, respondErrorCode(service.ErrAlreadyAdded))
	assert.Equal(t, http.StatusUnauthorized, respondErrorCode(service.ErrInvalidCredentials))
	assert.Equal(t, http.StatusInternalServerError, respondErrorCode(gorm.ErrInvalidDB))
}

// A uniqueness violation that slips past the pre-checks comes back from the
// driver as gorm.ErrDuplicatedKey and must read as a conflict, not a crash.
func TestRespondErrorDuplicatedKey(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, respondErrorCode(gorm.ErrDuplicatedKey))
}
