package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"trackline/internal/model"
	"trackline/internal/service"
)

type stubRoomSource struct {
	hostID  string
	hostErr error
}

func (s *stubRoomSource) Snapshot(ctx context.Context, code string, forHost bool) (*model.Snapshot, error) {
	return &model.Snapshot{}, nil
}

func (s *stubRoomSource) HostID(code string) (string, error) {
	return s.hostID, s.hostErr
}

func hostSocketRouter(rooms RoomSource) (*mux.Router, string) {
	authSvc := service.NewAuthService()
	login, err := authSvc.Login("host", "changeme")
	if err != nil {
		panic(err)
	}
	handler := NewHandler(NewHub(), authSvc, rooms)

	r := mux.NewRouter()
	r.HandleFunc("/v1/ws/rooms/{code}/host", handler.HostWS)
	return r, login.Token
}

func TestHostSocketRejectsMissingOrInvalidToken(t *testing.T) {
	router, _ := hostSocketRouter(&stubRoomSource{hostID: "host_x"})

	for _, token := range []string{"", "not-a-jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/ws/rooms/ABC123/host?token="+token, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("token %q: status = %d, want %d", token, rec.Code, http.StatusUnauthorized)
		}
	}
}

func TestHostSocketRejectsForeignRoom(t *testing.T) {
	router, token := hostSocketRouter(&stubRoomSource{hostID: "host_other"})

	req := httptest.NewRequest(http.MethodGet, "/v1/ws/rooms/ABC123/host?token="+token, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHostSocketRejectsUnknownRoom(t *testing.T) {
	router, token := hostSocketRouter(&stubRoomSource{hostErr: service.ErrRoomNotFound})

	req := httptest.NewRequest(http.MethodGet, "/v1/ws/rooms/NOSUCH/host?token="+token, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHostSocketUpgradesForOwningHost(t *testing.T) {
	authSvc := service.NewAuthService()
	login, err := authSvc.Login("host", "changeme")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	handler := NewHandler(NewHub(), authSvc, &stubRoomSource{hostID: login.HostID})

	router := mux.NewRouter()
	router.HandleFunc("/v1/ws/rooms/{code}/host", handler.HostWS)
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws/rooms/ABC123/host?token=" + login.Token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	conn.Close()
}
