package services

import (
	"bytes"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"image/png"
	"net/url"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/kensudogit/job-assistance/domain"
)

const (
	totpPeriod     = 30
	totpSkew       = 1
	secretBytes    = 20
	backupCodeLen  = 4 // random bytes per code, rendered as 8 hex chars
	BackupCodeSets = 10
)

// MFAServiceImpl implements domain.MFAService with RFC 6238 TOTP.
type MFAServiceImpl struct {
	issuer string
}

// NewMFAService creates a TOTP MFA service. issuer is the label shown by
// authenticator apps.
func NewMFAService(issuer string) domain.MFAService {
	return &MFAServiceImpl{issuer: issuer}
}

// GenerateSecret implements domain.MFAService. The secret is 160 bits of
// entropy, base32 encoded without padding for authenticator apps.
func (s *MFAServiceImpl) GenerateSecret() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate MFA secret: %w", err)
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf), nil
}

// EnrollmentQR implements domain.MFAService. It renders the otpauth
// provisioning URI as a PNG QR code, returned as a base64 data URI so
// clients can embed it directly in an <img> tag.
func (s *MFAServiceImpl) EnrollmentQR(secret, accountLabel string) (string, error) {
	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", s.issuer)
	v.Set("period", fmt.Sprintf("%d", totpPeriod))
	uri := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + s.issuer + ":" + accountLabel,
		RawQuery: v.Encode(),
	}

	key, err := otp.NewKeyFromURL(uri.String())
	if err != nil {
		return "", fmt.Errorf("failed to build provisioning key: %w", err)
	}
	img, err := key.Image(200, 200)
	if err != nil {
		return "", fmt.Errorf("failed to render QR code: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode QR code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// VerifyTOTP implements domain.MFAService. It accepts the current 30 second
// step plus one step of skew in either direction.
func (s *MFAServiceImpl) VerifyTOTP(secret, code string) bool {
	code = strings.TrimSpace(code)
	if len(code) != 6 || !isDigits(code) {
		return false
	}
	ok, err := totp.ValidateCustom(code, secret, time.Now(), totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      totpSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

// GenerateBackupCodes implements domain.MFAService. Each code is 8 lowercase
// hex characters of cryptographic randomness.
func (s *MFAServiceImpl) GenerateBackupCodes(count int) ([]string, error) {
	codes := make([]string, 0, count)
	for i := 0; i < count; i++ {
		buf := make([]byte, backupCodeLen)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("failed to generate backup code: %w", err)
		}
		codes = append(codes, hex.EncodeToString(buf))
	}
	return codes, nil
}

// VerifyBackupCode implements domain.MFAService. The match is
// case-insensitive, and the matched code is consumed: the returned slice is
// the remaining set the caller must persist.
func (s *MFAServiceImpl) VerifyBackupCode(stored []string, submitted string) (bool, []string) {
	submitted = strings.ToLower(strings.TrimSpace(submitted))
	matched := -1
	for i, code := range stored {
		if subtle.ConstantTimeCompare([]byte(strings.ToLower(code)), []byte(submitted)) == 1 {
			matched = i
		}
	}
	if matched < 0 {
		return false, stored
	}
	remaining := make([]string, 0, len(stored)-1)
	remaining = append(remaining, stored[:matched]...)
	remaining = append(remaining, stored[matched+1:]...)
	return true, remaining
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// devBypassCodes are accepted in place of a TOTP code only when the
// deployment explicitly enables the development bypass. Never enabled in
// production mode.
var devBypassCodes = map[string]struct{}{
	"000000": {},
	"123456": {},
	"999999": {},
}

func isDevBypassCode(code string) bool {
	_, ok := devBypassCodes[code]
	return ok
}
