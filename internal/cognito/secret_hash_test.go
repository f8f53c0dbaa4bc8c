package cognito_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/jaekwang-park/todo-bot/internal/cognito"
)

func referenceHash(username, clientID, clientSecret string) string {
	mac := hmac.New(sha256.New, []byte(clientSecret))
	mac.Write([]byte(username + clientID))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestSecretHash(t *testing.T) {
	tests := []struct {
		name         string
		username     string
		clientID     string
		clientSecret string
	}{
		{"typical", "testuser@example.com", "abc123clientid", "supersecret"},
		{"other user", "other@example.com", "abc123clientid", "supersecret"},
		{"empty username", "", "abc123clientid", "supersecret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cognito.SecretHash(tt.username, tt.clientID, tt.clientSecret)
			if want := referenceHash(tt.username, tt.clientID, tt.clientSecret); got != want {
				t.Errorf("SecretHash() = %q, want %q", got, want)
			}
		})
	}
}

func TestSecretHash_Distinct(t *testing.T) {
	if cognito.SecretHash("user", "client", "secret") == cognito.SecretHash("user2", "client", "secret") {
		t.Error("different users should produce different hashes")
	}
	if cognito.SecretHash("user", "client", "secret") == cognito.SecretHash("user", "client", "other") {
		t.Error("different secrets should produce different hashes")
	}
}
