package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/emrecan/internhub/internal/app/models"
)

func testService(accessExp, refreshExp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: refreshExp,
		TokenIssuer:     "internhub-test",
	})
}

func testUser() *models.User {
	role := models.RoleMentor
	collegeID := int64(7)
	return &models.User{
		ID:        42,
		Email:     "mentor@example.com",
		Role:      &role,
		CollegeID: &collegeID,
	}
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := testService(15*time.Minute, 24*time.Hour)

	access, refresh, expiresIn, refreshExpiresIn, err := svc.GenerateTokenPair(testUser())
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if expiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("expiresIn = %d", expiresIn)
	}
	if refreshExpiresIn != int((24 * time.Hour).Seconds()) {
		t.Errorf("refreshExpiresIn = %d", refreshExpiresIn)
	}

	claims, err := svc.ValidateToken(access)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("userID = %d, want 42", claims.UserID)
	}
	if claims.Role != string(models.RoleMentor) {
		t.Errorf("role = %q, want MENTOR", claims.Role)
	}
	if claims.CollegeID == nil || *claims.CollegeID != 7 {
		t.Errorf("collegeID = %v, want 7", claims.CollegeID)
	}

	if _, err := svc.ValidateRefreshToken(refresh); err != nil {
		t.Errorf("ValidateRefreshToken: %v", err)
	}
}

func TestTokenUseIsEnforced(t *testing.T) {
	svc := testService(15*time.Minute, 24*time.Hour)

	access, refresh, _, _, err := svc.GenerateTokenPair(testUser())
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	if _, err := svc.ValidateToken(refresh); !errors.Is(err, ErrWrongTokenUse) {
		t.Errorf("refresh as access error = %v, want ErrWrongTokenUse", err)
	}
	if _, err := svc.ValidateRefreshToken(access); !errors.Is(err, ErrWrongTokenUse) {
		t.Errorf("access as refresh error = %v, want ErrWrongTokenUse", err)
	}
}

func TestExpiredTokenIsRejected(t *testing.T) {
	svc := testService(-time.Minute, 24*time.Hour)

	access, _, _, _, err := svc.GenerateTokenPair(testUser())
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	if _, err := svc.ValidateToken(access); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("error = %v, want ErrExpiredToken", err)
	}
}

func TestTokenFromOtherSecretIsRejected(t *testing.T) {
	svc := testService(15*time.Minute, 24*time.Hour)
	other := NewJWTService(JWTConfig{
		SecretKey:       "other-secret",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "internhub-test",
	})

	access, _, _, _, err := other.GenerateTokenPair(testUser())
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	if _, err := svc.ValidateToken(access); err == nil {
		t.Error("expected foreign-signed token to be rejected")
	}
}

func TestUnonboardedUserHasNoRoleClaim(t *testing.T) {
	svc := testService(15*time.Minute, 24*time.Hour)

	access, _, _, _, err := svc.GenerateTokenPair(&models.User{ID: 9, Email: "new@example.com"})
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	claims, err := svc.ValidateToken(access)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Role != "" {
		t.Errorf("role = %q, want empty", claims.Role)
	}
	if claims.CollegeID != nil {
		t.Errorf("collegeID = %v, want nil", claims.CollegeID)
	}
}

func TestExtractBearerToken(t *testing.T) {
	if _, err := ExtractBearerToken(""); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("empty header error = %v, want ErrInvalidFormat", err)
	}

	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	if err != nil || token != "abc.def.ghi" {
		t.Errorf("bearer extract = %q, %v", token, err)
	}

	// Raw tokens pass through unchanged
	token, err = ExtractBearerToken("abc.def.ghi")
	if err != nil || token != "abc.def.ghi" {
		t.Errorf("raw extract = %q, %v", token, err)
	}
}
