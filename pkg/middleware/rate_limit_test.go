package middleware

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimitForMethod_ReadsKeepFullLimit(t *testing.T) {
	assert.Equal(t, 100, limitForMethod(http.MethodGet, 100))
	assert.Equal(t, 100, limitForMethod(http.MethodHead, 100))
}

func TestLimitForMethod_WritesGetReducedBudget(t *testing.T) {
	assert.Equal(t, 25, limitForMethod(http.MethodPost, 100))
	assert.Equal(t, 25, limitForMethod(http.MethodDelete, 100))
	assert.Equal(t, 25, limitForMethod(http.MethodPut, 100))
}

func TestLimitForMethod_NeverBelowOne(t *testing.T) {
	assert.Equal(t, 1, limitForMethod(http.MethodPost, 2))
}
