package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/rosedale/studio-api/pkg/campfire"
	"github.com/rosedale/studio-api/pkg/monitoring"
)

func TestParseCommand(t *testing.T) {
	command, params := parseCommand("unlimited duration=90 first_name=Jane last_name=Doe")
	assert.Equal(t, "unlimited", command)
	assert.Equal(t, map[string]string{
		"duration":   "90",
		"first_name": "Jane",
		"last_name":  "Doe",
	}, params)
}

func TestParseCommandCaseInsensitiveKeys(t *testing.T) {
	command, params := parseCommand("Gift Amount=100 TYPE=DIGITAL")
	assert.Equal(t, "gift", command)
	assert.Equal(t, "100", params["amount"])
	assert.Equal(t, "DIGITAL", params["type"])
}

func TestParseCommandIgnoresMalformedPairs(t *testing.T) {
	command, params := parseCommand("school discount=20 stray =orphan")
	assert.Equal(t, "school", command)
	assert.Equal(t, map[string]string{"discount": "20"}, params)
}

func TestParseCommandBareWord(t *testing.T) {
	command, params := parseCommand("report")
	assert.Equal(t, "report", command)
	assert.Empty(t, params)

	command, _ = parseCommand("")
	assert.Empty(t, command)
}

func TestKindEndpointsCoverAllCommands(t *testing.T) {
	for _, command := range []string{"unlimited", "school", "referral", "guest", "gift", "bulk", "personal"} {
		assert.Contains(t, kindEndpoints, command)
	}
	assert.NotContains(t, kindEndpoints, "report")
	assert.NotContains(t, kindEndpoints, "help")
}

func campfireRouter(token string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	chat := campfire.NewClient(campfire.Config{})
	h := NewCampfireHandler(chat, monitoring.NewMonitor(nil, false), token, "api-key", "http://localhost/api/v1/code-generator/generate")

	router := gin.New()
	router.POST("/webhooks/campfire/:token", h.Handle)
	return router
}

func postCampfire(router *gin.Engine, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/campfire/"+token, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleRejectsBadToken(t *testing.T) {
	router := campfireRouter("secret-token")

	w := postCampfire(router, "wrong-token", `{"content":"help"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleAlwaysRespondsOKAfterAuth(t *testing.T) {
	router := campfireRouter("secret-token")

	// Malformed JSON, empty content, and unknown commands all stay 200;
	// command failures are relayed into the chat room, not the status
	for _, body := range []string{"not json", `{}`, `{"content":""}`} {
		w := postCampfire(router, "secret-token", body)
		assert.Equal(t, http.StatusOK, w.Code, "body %q", body)
	}
}
