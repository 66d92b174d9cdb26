package utils

import "testing"

func TestHashTokenDeterministic(t *testing.T) {
	a := HashToken("some-raw-token")
	b := HashToken("some-raw-token")
	if a != b {
		t.Error("same input hashed differently")
	}
	if len(a) != 64 { // sha256 hex
		t.Errorf("hash length = %d, want 64", len(a))
	}
	if HashToken("other") == a {
		t.Error("different inputs collided")
	}
}

func TestRandomHex(t *testing.T) {
	a, err := RandomHex(20)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 40 {
		t.Errorf("length = %d, want 40", len(a))
	}
	b, _ := RandomHex(20)
	if a == b {
		t.Error("two random tokens were identical")
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("secret", 42, "admin", 5)
	if err != nil {
		t.Fatal(err)
	}
	if tok.Token == "" {
		t.Error("empty token")
	}
	if tok.Exp.IsZero() {
		t.Error("zero expiry")
	}
}

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2", 4) // low cost keeps the test fast
	if err != nil {
		t.Fatal(err)
	}
	if !VerifyPassword(hash, "hunter2hunter2") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}
