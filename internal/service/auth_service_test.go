package service

import (
	"errors"
	"testing"
)

func TestLoginWithDefaults(t *testing.T) {
	svc := NewAuthService()

	resp, err := svc.Login("host", "changeme")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" || resp.HostID == "" {
		t.Fatalf("incomplete login response: %+v", resp)
	}

	claims, err := svc.ValidateHostToken(resp.Token)
	if err != nil {
		t.Fatalf("ValidateHostToken: %v", err)
	}
	if claims.HostID != resp.HostID {
		t.Fatalf("HostID = %s, want %s", claims.HostID, resp.HostID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewAuthService()

	if _, err := svc.Login("host", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login("nobody", "changeme"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestPlayerTokenCarriesRoomBinding(t *testing.T) {
	svc := NewAuthService()

	token, err := svc.IssuePlayerToken("ABC123", "p_1a2b3c4d")
	if err != nil {
		t.Fatalf("IssuePlayerToken: %v", err)
	}

	claims, err := svc.ValidatePlayerToken(token)
	if err != nil {
		t.Fatalf("ValidatePlayerToken: %v", err)
	}
	if claims.RoomCode != "ABC123" || claims.PlayerID != "p_1a2b3c4d" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	svc := NewAuthService()

	playerToken, _ := svc.IssuePlayerToken("ABC123", "p_1a2b3c4d")
	if _, err := svc.ValidateHostToken(playerToken); err == nil {
		t.Fatal("player token validated as host token")
	}

	login, _ := svc.Login("host", "changeme")
	if _, err := svc.ValidatePlayerToken(login.Token); err == nil {
		t.Fatal("host token validated as player token")
	}
}
