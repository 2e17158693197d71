package expense

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aykose/dormsync/internal/room"
	"github.com/aykose/dormsync/pkg/middleware"
	"github.com/aykose/dormsync/pkg/response"
)

const (
	uidA = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	uidB = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
	uidC = "cccccccc-cccc-cccc-cccc-cccccccccccc"
)

func newTestRouter(seed ...*Expense) http.Handler {
	roster := []*room.Member{member(uidA, "Ayşe"), member(uidB, "Burak"), member(uidC, "Cem")}
	svc, _, _ := newTestService(roster, seed...)

	r := chi.NewRouter()
	r.Use(middleware.MemberContext)
	r.Mount("/expenses", NewHandler(svc).Routes())
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path, memberID, body string) (*httptest.ResponseRecorder, *response.APIResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if memberID != "" {
		req.Header.Set("X-Member-ID", memberID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var envelope response.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, &envelope
}

func TestCreateExpenseEndpoint(t *testing.T) {
	t.Run("group split", func(t *testing.T) {
		h := newTestRouter()
		rec, envelope := doJSON(t, h, http.MethodPost, "/expenses", uidA,
			`{"room_id":"room1","description":"groceries","amount":300,"split_type":"group"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, envelope.Success)

		rows, ok := envelope.Data.([]interface{})
		require.True(t, ok)
		require.Len(t, rows, 1)
		row := rows[0].(map[string]interface{})
		assert.Equal(t, "group", row["type"])
		assert.Equal(t, "pending", row["status"])
		assert.EqualValues(t, 300, row["amount"])
	})

	t.Run("direct split writes one row per debtor", func(t *testing.T) {
		h := newTestRouter()
		rec, envelope := doJSON(t, h, http.MethodPost, "/expenses", uidA,
			`{"room_id":"room1","description":"dinner","amount":300,"split_type":"direct","debtor_ids":["`+uidB+`","`+uidC+`"]}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		rows := envelope.Data.([]interface{})
		require.Len(t, rows, 2)
	})

	t.Run("missing identity", func(t *testing.T) {
		h := newTestRouter()
		rec, envelope := doJSON(t, h, http.MethodPost, "/expenses", "",
			`{"room_id":"room1","description":"x","amount":10,"split_type":"group"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "UNAUTHORIZED", envelope.Error.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		h := newTestRouter()
		rec, _ := doJSON(t, h, http.MethodPost, "/expenses", uidA, `{not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown split type", func(t *testing.T) {
		h := newTestRouter()
		rec, _ := doJSON(t, h, http.MethodPost, "/expenses", uidA,
			`{"room_id":"room1","description":"x","amount":10,"split_type":"thirds"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("debt ceiling rejection", func(t *testing.T) {
		h := newTestRouter(pendingDirect(uidA, uidB, 4990))
		rec, envelope := doJSON(t, h, http.MethodPost, "/expenses", uidA,
			`{"room_id":"room1","description":"rent","amount":600,"split_type":"group"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "ADMISSION_REJECTED", envelope.Error.Code)
		assert.Contains(t, envelope.Error.Message, "Burak")
	})
}

func TestListByRoomEndpoint(t *testing.T) {
	h := newTestRouter(pendingDirect(uidA, uidB, 60), pendingDirect(uidA, uidC, 40))

	rec, envelope := doJSON(t, h, http.MethodGet, "/expenses/room/room1?page=1&per_page=1", uidA, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, envelope.Meta)
	assert.Equal(t, 2, envelope.Meta.Total)
	assert.Equal(t, 2, envelope.Meta.TotalPages)
	rows := envelope.Data.([]interface{})
	assert.Len(t, rows, 1)
}

func TestAdmissionEndpoint(t *testing.T) {
	h := newTestRouter(pendingDirect(uidA, uidB, 4990))

	rec, _ := doJSON(t, h, http.MethodGet, "/expenses/room/room1/admission?amount=10", uidA, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, envelope := doJSON(t, h, http.MethodGet, "/expenses/room/room1/admission?amount=600", uidA, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "ADMISSION_REJECTED", envelope.Error.Code)

	rec, _ = doJSON(t, h, http.MethodGet, "/expenses/room/room1/admission?amount=abc", uidA, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
