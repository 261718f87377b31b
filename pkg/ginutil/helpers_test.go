package ginutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestQueryDate(t *testing.T) {
	c := newContext("/memories?start=2024-05-01&bad=05/01")
	def := time.Date(2000, 1, 1, 0, 0, 0, 0, time.Local)

	got, err := QueryDate(c, "start", def)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local), got)

	got, err = QueryDate(c, "end", def)
	require.NoError(t, err)
	assert.Equal(t, def, got)

	_, err = QueryDate(c, "bad", def)
	assert.Error(t, err)
}

func TestQueryUint64(t *testing.T) {
	c := newContext("/memories?room_id=7&x=abc")

	v, err := QueryUint64(c, "room_id")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, uint64(7), *v)

	v, err = QueryUint64(c, "missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = QueryUint64(c, "x")
	assert.Error(t, err)
}

func TestParamUint64(t *testing.T) {
	c := newContext("/")
	c.Params = gin.Params{{Key: "user_id", Value: "15"}}

	v, err := ParamUint64(c, "user_id")
	require.NoError(t, err)
	assert.Equal(t, uint64(15), v)
}
