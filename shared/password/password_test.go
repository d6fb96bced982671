package password_test

import (
	"errors"
	"salon/shared/password"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name          string
		password      string
		expectedError error
	}{
		{
			name:     "account password",
			password: "shearbliss1",
		},
		{
			name:     "special characters",
			password: "P@ssw0rd!#$%^&*()",
		},
		{
			name:     "unicode",
			password: "пароль123",
		},
		{
			name:     "exactly 72 bytes",
			password: strings.Repeat("a", 72),
		},
		{
			name:          "empty",
			password:      "",
			expectedError: password.ErrEmptyPassword,
		},
		{
			name:          "longer than bcrypt accepts",
			password:      strings.Repeat("a", 100),
			expectedError: password.ErrHashingPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := password.Hash(tt.password)

			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
				if hash != "" {
					t.Errorf("expected empty hash on error, got %s", hash)
				}

				return
			}

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			cost, err := bcrypt.Cost([]byte(hash))
			if err != nil {
				t.Fatalf("expected a bcrypt hash, got %s: %v", hash, err)
			}
			if cost != password.DefaultCost {
				t.Errorf("expected cost %d, got %d", password.DefaultCost, cost)
			}
		})
	}
}

func TestHash_WrapsBcryptError(t *testing.T) {
	_, err := password.Hash(strings.Repeat("a", 73))

	if !errors.Is(err, bcrypt.ErrPasswordTooLong) {
		t.Errorf("expected wrapped %v, got %v", bcrypt.ErrPasswordTooLong, err)
	}
}

func TestVerify(t *testing.T) {
	const secret = "shearbliss1"

	hash, err := password.Hash(secret)
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}

	tests := []struct {
		name          string
		password      string
		hash          string
		expectedError error
	}{
		{
			name:     "matching password",
			password: secret,
			hash:     hash,
		},
		{
			name:          "wrong password",
			password:      "shearbliss2",
			hash:          hash,
			expectedError: password.ErrInvalidPassword,
		},
		{
			name:          "empty password",
			password:      "",
			hash:          hash,
			expectedError: password.ErrInvalidPassword,
		},
		{
			name:          "empty hash",
			password:      secret,
			hash:          "",
			expectedError: password.ErrInvalidPassword,
		},
		{
			name:          "malformed hash",
			password:      secret,
			hash:          "not-a-bcrypt-hash",
			expectedError: password.ErrVerifyingPassword,
		},
		{
			name:          "truncated hash",
			password:      secret,
			hash:          hash[:10],
			expectedError: password.ErrVerifyingPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := password.Verify(tt.password, tt.hash)

			if tt.expectedError == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}

				return
			}

			if !errors.Is(err, tt.expectedError) {
				t.Errorf("expected error %v, got %v", tt.expectedError, err)
			}
		})
	}
}

func TestHash_Salted(t *testing.T) {
	first, err := password.Hash("shearbliss1")
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}

	second, err := password.Hash("shearbliss1")
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}

	if first == second {
		t.Errorf("expected different hashes for the same password, got %s twice", first)
	}

	for _, hash := range []string{first, second} {
		if err := password.Verify("shearbliss1", hash); err != nil {
			t.Errorf("expected %s to verify, got %v", hash, err)
		}
	}
}
