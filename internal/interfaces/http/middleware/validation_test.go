package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSetupValidator_UsesJSONFieldNames(t *testing.T) {
	gin.SetMode(gin.TestMode)
	SetupValidator()

	type body struct {
		PurchaseOrderID string `json:"purchase_order_id" binding:"required,uuid"`
	}

	router := gin.New()
	router.POST("/receipts", func(c *gin.Context) {
		var req body
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/receipts", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "purchase_order_id")
	assert.NotContains(t, w.Body.String(), "PurchaseOrderID")
}

func TestSetupValidator_QualityStatusTag(t *testing.T) {
	gin.SetMode(gin.TestMode)
	SetupValidator()

	type body struct {
		QualityStatus string `json:"quality_status" binding:"required,quality_status"`
	}

	router := gin.New()
	router.POST("/classify", func(c *gin.Context) {
		var req body
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusOK)
	})

	send := func(payload string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/classify", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send(`{"quality_status":"APPROVED"}`).Code)
	assert.Equal(t, http.StatusBadRequest, send(`{"quality_status":"SHRUGGED"}`).Code)
}
