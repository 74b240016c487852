package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitbill/internal/auth"
	"github.com/mmynk/splitbill/internal/service"
	"github.com/mmynk/splitbill/internal/storage/sqlstore"
)

type testEnv struct {
	handler http.Handler
	store   *sqlstore.Store
	jwt     *auth.JWTManager
}

func newTestEnv(t *testing.T, requireAuth bool) *testEnv {
	t.Helper()

	store, err := sqlstore.Open(context.Background(), sqlstore.Options{
		Driver:      sqlstore.DriverSQLite,
		URL:         filepath.Join(t.TempDir(), "test.db"),
		AutoMigrate: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authn := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)

	h := New(Options{
		Services: Services{
			Bills: service.NewBillService(store, logger),
			Analytics: service.NewAnalyticsService(store, logger).WithClock(func() time.Time {
				return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
			}),
			Users:          service.NewUserService(store, authn, jwtManager, logger),
			Friends:        service.NewFriendService(store, logger),
			PaymentMethods: service.NewPaymentMethodService(store, logger),
			FCMTokens:      service.NewFCMTokenService(store, logger),
			Receipts:       service.NewReceiptService(logger),
		},
		Health:      store,
		Logger:      logger,
		JWT:         jwtManager,
		RequireAuth: requireAuth,
		Registry:    prometheus.NewRegistry(),
	})

	return &testEnv{handler: h, store: store, jwt: jwtManager}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) createUser(t *testing.T, email string) int64 {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/users", fmt.Sprintf(`{"name":"Test","email":%q,"password":"password123"}`, email))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var user struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	return user.ID
}

func (e *testEnv) createBill(t *testing.T, userID int64, date, category string, amount int) int64 {
	t.Helper()
	body := fmt.Sprintf(`{
		"userId": %d, "title": "Dinner", "category": %q, "totalAmount": %d, "date": %q,
		"items": [{"itemName": "Pasta", "price": 12.5}],
		"participants": [{"participantId": 5, "amount": 10}]
	}`, userID, category, amount, date)
	rec := e.do(t, http.MethodPost, "/bills", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotZero(t, resp.ID)
	return resp.ID
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Message
}

func TestBillsAPI(t *testing.T) {
	env := newTestEnv(t, false)
	userID := env.createUser(t, "bills@example.com")

	for _, date := range []string{"2024-03-01", "2024-01-15", "2024-02-20"} {
		env.createBill(t, userID, date, "food", 30)
	}

	t.Run("list is ordered by date descending", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, fmt.Sprintf("/bills?userId=%d", userID), "")
		require.Equal(t, http.StatusOK, rec.Code)

		var bills []struct {
			Date         string `json:"date"`
			Participants int64  `json:"participants"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bills))
		require.Len(t, bills, 3)
		assert.Equal(t, "2024-03-01", bills[0].Date)
		assert.Equal(t, "2024-02-20", bills[1].Date)
		assert.Equal(t, "2024-01-15", bills[2].Date)
		assert.Equal(t, int64(1), bills[0].Participants)
	})

	t.Run("transactions alias and category all", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, fmt.Sprintf("/transactions?userId=%d&category=all", userID), "")
		require.Equal(t, http.StatusOK, rec.Code)
		var bills []json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bills))
		assert.Len(t, bills, 3)
	})

	t.Run("list requires userId", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/bills", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "User ID is required", decodeMessage(t, rec))
	})

	t.Run("create requires fields", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/bills", `{"userId": 1, "title": "x"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeMessage(t, rec), "required")
	})

	t.Run("create rejects malformed date", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/bills", fmt.Sprintf(`{"userId": %d, "title": "x", "category": "food", "totalAmount": 1, "date": "03/01/2024"}`, userID))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("detail", func(t *testing.T) {
		id := env.createBill(t, userID, "2024-04-01", "travel", 99)
		rec := env.do(t, http.MethodGet, fmt.Sprintf("/bills/%d", id), "")
		require.Equal(t, http.StatusOK, rec.Code)

		var bill struct {
			Title        string `json:"title"`
			Items        []struct{ ItemName string } `json:"items"`
			Participants []struct {
				ParticipantID int64 `json:"participantId"`
				IsPaid        bool  `json:"isPaid"`
			} `json:"participants"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bill))
		assert.Equal(t, "Dinner", bill.Title)
		require.Len(t, bill.Items, 1)
		assert.Equal(t, "Pasta", bill.Items[0].ItemName)
		require.Len(t, bill.Participants, 1)
		assert.Equal(t, int64(5), bill.Participants[0].ParticipantID)
		assert.False(t, bill.Participants[0].IsPaid)
	})

	t.Run("detail bad id and missing bill", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/bills/abc", "").Code)

		rec := env.do(t, http.MethodGet, "/bills/999999", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Bill not found", decodeMessage(t, rec))
	})
}

func TestAppendAndPayment(t *testing.T) {
	env := newTestEnv(t, false)
	userID := env.createUser(t, "append@example.com")
	billID := env.createBill(t, userID, "2024-03-01", "food", 30)
	billPath := fmt.Sprintf("/bills/%d", billID)

	participants := func(t *testing.T) string {
		t.Helper()
		rec := env.do(t, http.MethodGet, billPath, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var bill struct {
			Participants json.RawMessage `json:"participants"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bill))
		return string(bill.Participants)
	}

	t.Run("append to missing bill", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/bills/424242/items", `[{"itemName":"Tea","price":2}]`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Bill not found", decodeMessage(t, rec))

		rec = env.do(t, http.MethodPost, "/bills/424242/participants", `[{"participantId":9,"amount":2}]`)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/bills/424242", "").Code)
	})

	t.Run("append empty list", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, billPath+"/items", `[]`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("append items and participants", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, billPath+"/items", `[{"itemName":"Tea","price":2},{"itemName":"Cake","price":4.25}]`)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "Bill items saved successfully", decodeMessage(t, rec))

		rec = env.do(t, http.MethodPost, billPath+"/participants", `[{"participantId":9,"amount":2}]`)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("payment toggle for unknown pair is a no-op", func(t *testing.T) {
		before := participants(t)

		for _, path := range []string{billPath + "/payment", "/bills/424242/payment"} {
			rec := env.do(t, http.MethodPost, path, `{"participantId": 777, "isPaid": true}`)
			assert.Equal(t, http.StatusOK, rec.Code)
		}

		assert.JSONEq(t, before, participants(t))
	})

	t.Run("payment toggle", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, billPath+"/payment", `{"participantId": 5, "isPaid": true}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, participants(t), `"isPaid":true`)
	})

	t.Run("payment toggle requires params", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, billPath+"/payment", `{"participantId": 5}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAnalyticsAPI(t *testing.T) {
	env := newTestEnv(t, false)
	userID := env.createUser(t, "analytics@example.com")
	env.createBill(t, userID, "2024-01-05", "food", 10)
	env.createBill(t, userID, "2024-02-10", "food", 20)

	t.Run("year window", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, fmt.Sprintf("/analytics?userId=%d&activeFilter=year", userID), "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.JSONEq(t, `{
			"categoryTotals": [{"category": "food", "total": 30}],
			"timeBasedSpending": [{"period": "2024-01", "amount": 10}, {"period": "2024-02", "amount": 20}],
			"timeFormat": "month",
			"activeFilter": "year"
		}`, rec.Body.String())
	})

	t.Run("invalid window is always a bad request", func(t *testing.T) {
		for _, query := range []string{
			fmt.Sprintf("userId=%d&activeFilter=day", userID),
			"userId=999&activeFilter=decade",
			"activeFilter=all",
			fmt.Sprintf("userId=%d&activeFilter=YEAR&category=food", userID),
		} {
			rec := env.do(t, http.MethodGet, "/analytics?"+query, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code, query)
		}
	})
}

func TestUsersAPI(t *testing.T) {
	env := newTestEnv(t, false)
	userID := env.createUser(t, "alice@example.com")

	t.Run("duplicate email", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/users", `{"name":"Again","email":"alice@example.com","password":"password123"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "User with this email already exists", decodeMessage(t, rec))
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/users", `{"email":"bob@example.com"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("password hash is never returned", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/users/alice@example.com", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "password")

		assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/users/nobody@example.com", "").Code)
	})

	t.Run("login", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/login", `{"email":"alice@example.com","password":"wrong-password"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = env.do(t, http.MethodPost, "/login", `{"email":"alice@example.com","password":"password123"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		claims, err := env.jwt.Validate(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
	})

	t.Run("update", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, fmt.Sprintf("/users/%d", userID), `{"name":"Alice L."}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Alice L.")

		assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, "/users/99999", `{"name":"x"}`).Code)
	})

	t.Run("delete cascades", func(t *testing.T) {
		victim := env.createUser(t, "victim@example.com")
		billID := env.createBill(t, victim, "2024-05-01", "food", 12)
		rec := env.do(t, http.MethodPost, "/friends", fmt.Sprintf(`{"userId":%d,"name":"Pal"}`, victim))
		require.Equal(t, http.StatusCreated, rec.Code)

		path := fmt.Sprintf("/users/%d", victim)
		assert.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, path, "").Code)

		assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, fmt.Sprintf("/bills/%d", billID), "").Code)

		rec = env.do(t, http.MethodGet, fmt.Sprintf("/friends?userId=%d", victim), "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())

		assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, path, "").Code)
	})
}

func TestPeerAPIs(t *testing.T) {
	env := newTestEnv(t, false)
	userID := env.createUser(t, "peer@example.com")

	t.Run("friends", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/friends", "").Code)
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/friends", `{"userId":1}`).Code)
		assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/friends/999", "").Code)
	})

	t.Run("payment methods", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/paymentMethods", fmt.Sprintf(`{"userId":%d,"methodName":"Bank","accountNumber":"DE89"}`, userID))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var method struct {
			ID       int64  `json:"id"`
			UserName string `json:"userName"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &method))
		assert.Equal(t, "Test", method.UserName)

		path := fmt.Sprintf("/paymentMethods/%d", method.ID)
		rec = env.do(t, http.MethodPut, path, `{"accountNumber":"DE90"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"methodName":"Bank"`)
		assert.Contains(t, rec.Body.String(), `"accountNumber":"DE90"`)

		assert.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, path, "").Code)
		rec = env.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Payment method not found", decodeMessage(t, rec))
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/paymentMethods/abc", "").Code)
	})

	t.Run("fcm tokens", func(t *testing.T) {
		body := fmt.Sprintf(`{"userId":%d,"token":"tok-1","deviceId":"pixel","platform":"android"}`, userID)
		first := env.do(t, http.MethodPost, "/fcmTokens", body)
		require.Equal(t, http.StatusCreated, first.Code)

		body = fmt.Sprintf(`{"userId":%d,"token":"tok-2","deviceId":"pixel","platform":"android"}`, userID)
		second := env.do(t, http.MethodPost, "/fcmTokens", body)
		require.Equal(t, http.StatusOK, second.Code)

		var a, b tokenResponse
		require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
		require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
		assert.Equal(t, a.ID, b.ID)

		rec := env.do(t, http.MethodGet, fmt.Sprintf("/fcmTokens?userId=%d", userID), "")
		require.Equal(t, http.StatusOK, rec.Code)
		var tokens []json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokens))
		assert.Len(t, tokens, 1)

		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodDelete, "/fcmTokens", `{}`).Code)
		assert.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, "/fcmTokens", `{"deviceId":"pixel"}`).Code)
	})
}

func TestScanReceipt(t *testing.T) {
	env := newTestEnv(t, false)

	t.Run("no file", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/receipts/scan", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "No receipt image provided", decodeMessage(t, rec))
	})

	t.Run("upload", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("receipt", "receipt.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte("\xff\xd8 not really a jpeg"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/receipts/scan", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.JSONEq(t, `{"items":[
			{"itemName":"Coffee","price":4.5},
			{"itemName":"Sandwich","price":8.75},
			{"itemName":"Juice","price":3.25}
		]}`, rec.Body.String())
	})
}

func TestRequireAuth(t *testing.T) {
	env := newTestEnv(t, true)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/metrics", "").Code)

	userID := env.createUser(t, "secure@example.com")

	rec := env.do(t, http.MethodGet, fmt.Sprintf("/bills?userId=%d", userID), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/login", `{"email":"secure@example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/bills?userId=%d", userID), nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	authed := httptest.NewRecorder()
	env.handler.ServeHTTP(authed, req)
	assert.Equal(t, http.StatusOK, authed.Code)
	assert.JSONEq(t, `[]`, authed.Body.String())
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	require.NoError(t, env.store.Close())
	rec = env.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
