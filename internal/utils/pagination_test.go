package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewPaginationParams(t *testing.T) {
	p := NewPaginationParams(3, 10)
	assert.Equal(t, PaginationParams{Page: 3, Limit: 10, Offset: 20}, p)

	p = NewPaginationParams(0, 0)
	assert.Equal(t, PaginationParams{Page: 1, Limit: 20, Offset: 0}, p)

	p = NewPaginationParams(2, 500)
	assert.Equal(t, 100, p.Limit)
	assert.Equal(t, 100, p.Offset)
}

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=2&limit=5", nil)

	assert.Equal(t, PaginationParams{Page: 2, Limit: 5, Offset: 5}, GetPaginationParams(c))

	c.Request = httptest.NewRequest("GET", "/?page=abc", nil)
	assert.Equal(t, PaginationParams{Page: 1, Limit: 20, Offset: 0}, GetPaginationParams(c))
}
