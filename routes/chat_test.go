package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/sashicus/grandmoscow/services"
	"github.com/sashicus/grandmoscow/storage"
	"github.com/sashicus/grandmoscow/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

const (
	testClientID  = 10
	testRealtorID = 20
)

// buildChatTestApp wires the public-facing property/chat/message routes over
// an in-memory store, mirroring the party layout in main
func buildChatTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	InitServices(storage.NewMemStore())

	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	property := app.Party("/api/property")
	{
		property.Get("/", GetListings)
		property.Post("/", accessTokenVerifierMiddleware, CreateProperty)
	}
	chat := app.Party("/api/chat", accessTokenVerifierMiddleware)
	{
		chat.Post("/", EnsureChat)
		chat.Get("/", ListChats)
	}
	messages := app.Party("/api/messages", accessTokenVerifierMiddleware)
	{
		messages.Get("/", ListMessages)
		messages.Post("/", CreateMessage)
		messages.Post("/read", MarkMessagesRead)
	}
	app.Build()
	return app
}

func signUserToken(id uint, role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: id, Role: role})
	return string(token)
}

func doJSON(t *testing.T, app *iris.Application, method, path, token, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	parsed := map[string]interface{}{}
	json.Unmarshal(resp.Body.Bytes(), &parsed)
	return resp, parsed
}

func TestChatFlowOverHTTP(t *testing.T) {
	app := buildChatTestApp()
	clientToken := signUserToken(testClientID, "client")
	realtorToken := signUserToken(testRealtorID, "realtor")

	// Realtor submits a listing
	resp, property := doJSON(t, app, http.MethodPost, "/api/property", realtorToken,
		`{"title":"Однушка на Таганке","price":65000,"priceType":"month","location":"Москва","district":"Таганский"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating property, got %d: %s", resp.Code, resp.Body.String())
	}
	propertyID := uint(property["ID"].(float64))

	// Not in the public catalog until approved
	respCatalog, _ := doJSON(t, app, http.MethodGet, "/api/property", "", "")
	if strings.Contains(respCatalog.Body.String(), "Таганке") {
		t.Fatalf("pending property leaked into the catalog: %s", respCatalog.Body.String())
	}

	// Admin approves through the moderation service
	if _, err := moderationService.Approve(services.Actor{ID: 1, Role: "admin"}, propertyID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	// Client opens the chat; a second call returns the same chat
	resp2, ensure := doJSON(t, app, http.MethodPost, "/api/chat", clientToken,
		`{"propertyID":`+itoa(propertyID)+`,"realtorID":20}`)
	if resp2.Code != http.StatusOK {
		t.Fatalf("expected 200 ensuring chat, got %d: %s", resp2.Code, resp2.Body.String())
	}
	chatID := uint(ensure["chat"].(map[string]interface{})["ID"].(float64))

	_, ensureAgain := doJSON(t, app, http.MethodPost, "/api/chat", clientToken,
		`{"propertyID":`+itoa(propertyID)+`,"realtorID":20}`)
	if again := uint(ensureAgain["chat"].(map[string]interface{})["ID"].(float64)); again != chatID {
		t.Fatalf("ensure-chat not idempotent: %d then %d", chatID, again)
	}

	// Client sends a message
	resp3, _ := doJSON(t, app, http.MethodPost, "/api/messages", clientToken,
		`{"chatID":`+itoa(chatID)+`,"content":"Hello"}`)
	if resp3.Code != http.StatusOK {
		t.Fatalf("expected 200 sending message, got %d: %s", resp3.Code, resp3.Body.String())
	}

	// Blank content is refused
	resp4, _ := doJSON(t, app, http.MethodPost, "/api/messages", clientToken,
		`{"chatID":`+itoa(chatID)+`,"content":"   "}`)
	if resp4.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for blank message, got %d", resp4.Code)
	}

	// Realtor sees one unread, client none
	if got := unreadTotal(t, app, realtorToken); got != 1 {
		t.Fatalf("expected realtor totalUnread 1, got %v", got)
	}
	if got := unreadTotal(t, app, clientToken); got != 0 {
		t.Fatalf("expected client totalUnread 0, got %v", got)
	}

	// Realtor reads the chat; the counter drops to zero and stays there
	resp5, _ := doJSON(t, app, http.MethodPost, "/api/messages/read", realtorToken,
		`{"chatID":`+itoa(chatID)+`}`)
	if resp5.Code != http.StatusOK {
		t.Fatalf("expected 200 marking read, got %d", resp5.Code)
	}
	if got := unreadTotal(t, app, realtorToken); got != 0 {
		t.Fatalf("expected realtor totalUnread 0 after read, got %v", got)
	}

	// The log itself is visible to both participants, not to strangers
	resp6, messages := doJSON(t, app, http.MethodGet, "/api/messages?chatID="+itoa(chatID), clientToken, "")
	if resp6.Code != http.StatusOK {
		t.Fatalf("expected 200 listing messages, got %d", resp6.Code)
	}
	if list := messages["messages"].([]interface{}); len(list) != 1 {
		t.Fatalf("expected 1 message, got %d", len(list))
	}

	strangerToken := signUserToken(99, "client")
	resp7, _ := doJSON(t, app, http.MethodGet, "/api/messages?chatID="+itoa(chatID), strangerToken, "")
	if resp7.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for stranger, got %d", resp7.Code)
	}
}

func unreadTotal(t *testing.T, app *iris.Application, token string) int {
	t.Helper()
	resp, parsed := doJSON(t, app, http.MethodGet, "/api/chat", token, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 listing chats, got %d", resp.Code)
	}
	total, ok := parsed["totalUnread"].(float64)
	if !ok {
		t.Fatalf("missing totalUnread in %s", resp.Body.String())
	}
	return int(total)
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
