package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindJSON(t *testing.T, body string, out interface{}) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req, err := http.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c.ShouldBindJSON(out)
}

func TestSalesGoalRequestAcceptsZeroTarget(t *testing.T) {
	var req SalesGoalRequest
	err := bindJSON(t, `{"year":2025,"yearly_sales_target":0}`, &req)
	require.NoError(t, err)
	assert.Equal(t, 2025, req.Year)
	assert.Equal(t, 0, req.YearlySalesTarget)
}

func TestSalesGoalRequestRequiresYear(t *testing.T) {
	var req SalesGoalRequest
	err := bindJSON(t, `{"yearly_sales_target":50}`, &req)
	assert.Error(t, err)
}

func TestDailyActivityWorkedDefaultsToTrue(t *testing.T) {
	var req DailyActivityRequest
	err := bindJSON(t, `{"date":"2025-01-02","sales":1}`, &req)
	require.NoError(t, err)
	assert.Nil(t, req.Worked)
	assert.True(t, req.workedOrDefault())
}

func TestDailyActivityExplicitWorkedFalse(t *testing.T) {
	var req DailyActivityRequest
	err := bindJSON(t, `{"date":"2025-01-02","worked":false}`, &req)
	require.NoError(t, err)
	require.NotNil(t, req.Worked)
	assert.False(t, req.workedOrDefault())

	err = bindJSON(t, `{"date":"2025-01-03","worked":true}`, &req)
	require.NoError(t, err)
	assert.True(t, req.workedOrDefault())
}
