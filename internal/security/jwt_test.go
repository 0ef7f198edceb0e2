package security_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Rrens/promptdesk/internal/domain"
	"github.com/Rrens/promptdesk/internal/security"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-secret-key-with-32-chars!!"

func TestJWTManager_IssueAndVerify(t *testing.T) {
	manager := security.NewJWTManager(testSecret, 7*24*time.Hour)

	userID := uuid.New()

	token, err := manager.Issue(userID)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	if token == "" {
		t.Error("token is empty")
	}

	got, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("failed to verify token: %v", err)
	}

	if got != userID {
		t.Errorf("user ID mismatch: got %v, want %v", got, userID)
	}
}

func TestJWTManager_InvalidToken(t *testing.T) {
	manager := security.NewJWTManager(testSecret, time.Hour)

	otherManager := security.NewJWTManager("different-secret-key-32-chars!!", time.Hour)
	foreign, _ := otherManager.Issue(uuid.New())

	expiredManager := security.NewJWTManager(testSecret, -time.Minute)
	expired, _ := expiredManager.Issue(uuid.New())

	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   uuid.New().String(),
		Issuer:    "promptdesk",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: uuid.New().String(),
		Issuer:  "promptdesk",
	}).SignedString([]byte(testSecret))

	badSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "not-a-uuid",
		Issuer:    "promptdesk",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"malformed", "invalid-token"},
		{"foreign signature", foreign},
		{"expired", expired},
		{"alg none", unsigned},
		{"no expiry", noExpiry},
		{"bad subject", badSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manager.Verify(tt.token)
			if !errors.Is(err, domain.ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func BenchmarkJWTIssue(b *testing.B) {
	manager := security.NewJWTManager("benchmark-secret-key-32-chars!!", 7*24*time.Hour)
	userID := uuid.New()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = manager.Issue(userID)
	}
}
