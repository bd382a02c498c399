package handler

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rosedale/studio-api/internal/presentation/http/dto/response"
	"github.com/rosedale/studio-api/pkg/apperror"
	"github.com/rosedale/studio-api/pkg/campfire"
	"github.com/rosedale/studio-api/pkg/monitoring"
	"github.com/rosedale/studio-api/pkg/promocode"
)

// kindEndpoints maps chat commands to code-generator paths
var kindEndpoints = map[string]string{
	"unlimited": "/unlimited",
	"school":    "/school-code",
	"referral":  "/referral-code",
	"guest":     "/guest-pass",
	"gift":      "/gift-card",
	"bulk":      "/gift-card/bulk",
	"personal":  "/personal-code",
}

// CampfireHandler turns chat-room messages into code-generator requests.
// Replies always go back through the bot room; the webhook itself answers
// 200 so the chat platform does not retry.
type CampfireHandler struct {
	chat       *campfire.Client
	monitor    *monitoring.Monitor
	token      string
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewCampfireHandler creates a new chat-bot webhook handler
func NewCampfireHandler(chat *campfire.Client, monitor *monitoring.Monitor, token, apiKey, baseURL string) *CampfireHandler {
	return &CampfireHandler{
		chat:       chat,
		monitor:    monitor,
		token:      token,
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// campfireMessage is the inbound chat webhook payload
type campfireMessage struct {
	Content string `json:"content"`
}

// Handle processes POST /webhooks/campfire/:token
func (h *CampfireHandler) Handle(c *gin.Context) {
	token := c.Param("token")
	if h.token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.token)) != 1 {
		log.Printf("Invalid chat webhook token")
		response.Error(c, apperror.ErrUnauthorized)
		return
	}

	// After the token check every outcome is a 200: command errors are
	// relayed into the chat room, never via HTTP status.
	var msg campfireMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		response.Success(c, http.StatusOK, "No content", nil)
		return
	}

	content := strings.TrimSpace(msg.Content)
	if content == "" {
		response.Success(c, http.StatusOK, "No content", nil)
		return
	}

	ctx := c.Request.Context()
	switch {
	case strings.EqualFold(content, "help"):
		h.reply(ctx, helpMessage())
	case strings.EqualFold(content, "report"):
		h.reply(ctx, "Report functionality coming soon")
	default:
		h.runCommand(ctx, content)
	}

	response.Success(c, http.StatusOK, "Processed", nil)
}

// runCommand parses "kind key=value ..." and relays it to the internal
// code-generator API
func (h *CampfireHandler) runCommand(ctx context.Context, content string) {
	command, params := parseCommand(content)
	endpoint, ok := kindEndpoints[command]
	if !ok {
		h.reply(ctx, "❌ Invalid command. Type 'help' to see available commands.")
		return
	}

	result, err := h.generate(ctx, endpoint, params)
	if err != nil {
		h.monitor.CaptureError(err, "chat code generation")
		h.reply(ctx, "❌ "+err.Error())
		return
	}

	message := "Generated code: " + result.Code
	if len(result.Codes) > 0 {
		message = "Generated codes:\n" + strings.Join(result.Codes, "\n")
	}
	h.reply(ctx, "✅ "+message)
}

// parseCommand splits a chat message into the command word and key=value
// parameters. Malformed pairs are ignored.
func parseCommand(content string) (string, map[string]string) {
	parts := strings.Fields(content)
	if len(parts) == 0 {
		return "", nil
	}
	command := strings.ToLower(parts[0])
	params := make(map[string]string)
	for _, part := range parts[1:] {
		key, value, found := strings.Cut(part, "=")
		if !found || key == "" {
			continue
		}
		params[strings.ToLower(key)] = value
	}
	return command, params
}

func (h *CampfireHandler) generate(ctx context.Context, endpoint string, params map[string]string) (*promocode.Result, error) {
	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}
	target := h.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", h.apiKey)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to code generator service")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("Code generator request failed: %d - %s", resp.StatusCode, body)
		var envelope struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &envelope) == nil && envelope.Message != "" {
			return nil, fmt.Errorf("failed to generate code: %s", envelope.Message)
		}
		return nil, fmt.Errorf("failed to generate code")
	}

	var result promocode.Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (h *CampfireHandler) reply(ctx context.Context, message string) {
	if err := h.chat.Send(ctx, campfire.RoomBot, message); err != nil {
		log.Printf("Failed to send chat reply: %v", err)
	}
}

func helpMessage() string {
	return strings.TrimSpace(`
<p>📋 <strong>Available Commands:</strong></p>
<ol>
    <li>1️⃣ <strong>Generate unlimited package codes.</strong><br>
        <strong>Usage:</strong> duration=[60/90/110] first_name=[NAME]<br>
        <strong>Example:</strong> unlimited duration=60 first_name=John
    </li>
    <li>2️⃣ <strong>Generate school group discount codes.</strong><br>
        <strong>Usage:</strong> discount=[20/50]<br>
        <strong>Example:</strong> school discount=20
    </li>
    <li>3️⃣ <strong>Generate referral discount codes.</strong><br>
        <strong>Usage:</strong> first_name=[NAME] discount=[20/50]<br>
        <strong>Example:</strong> referral first_name=Jane discount=50
    </li>
    <li>4️⃣ <strong>Generate free guest passes.</strong><br>
        <strong>Usage:</strong> duration=[60/90/110] first_name=[NAME]<br>
        <strong>Example:</strong> guest duration=90 first_name=Bob
    </li>
    <li>5️⃣ <strong>Generate gift card codes.</strong><br>
        <strong>Usage:</strong> amount=[VALUE] type=[DIGITAL/PREMIUM] first_name=[NAME]<br>
        <strong>Example:</strong> gift amount=100 type=DIGITAL first_name=Alice
    </li>
    <li>6️⃣ <strong>Generate multiple premium gift cards.</strong><br>
        <strong>Usage:</strong> amount=[VALUE] quantity=[1-50]<br>
        <strong>Example:</strong> bulk amount=50 quantity=5
    </li>
    <li>7️⃣ <strong>Generate personal massage codes.</strong><br>
        <strong>Usage:</strong> duration=[60/90/110] first_name=[NAME]<br>
        <strong>Example:</strong> personal duration=110 first_name=Carol
    </li>
    <li>8️⃣ <strong>Daily Report</strong><br>
        <strong>Usage:</strong> Get sales and other statistics.<br>
        <strong>Example:</strong> report
    </li>
    <li>9️⃣ <strong>Help</strong><br>
        <strong>Usage:</strong> Show this message.<br>
        <strong>Example:</strong> help
    </li>
</ol>`)
}
