package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// SignatureParameter is the query parameter carrying a signed URL's signature.
const SignatureParameter = "X-Presign-Signature"

// URLSigner produces and verifies time-limited signatures over URL paths.
// Uploaded files are only served through URLs signed this way, so a link
// cannot be shared beyond its validity window.
type URLSigner struct {
	salt   []byte
	maxAge time.Duration
}

func NewURLSigner(salt string, maxAgeMinutes int) *URLSigner {
	return &URLSigner{
		salt:   []byte(salt),
		maxAge: time.Duration(maxAgeMinutes) * time.Minute,
	}
}

func (s *URLSigner) signature(path string, timestamp int64) string {
	mac := hmac.New(sha256.New, s.salt)
	fmt.Fprintf(mac, "%s:%d", path, timestamp)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Sign appends a timestamped signature to the given URL path.
func (s *URLSigner) Sign(path string) string {
	now := time.Now().Unix()
	sig := fmt.Sprintf("%d:%s", now, s.signature(path, now))

	query := url.Values{}
	query.Set(SignatureParameter, sig)
	return path + "?" + query.Encode()
}

// Verify checks the signature of a full signed URL against its path.
// It returns false for missing, malformed, forged or expired signatures.
func (s *URLSigner) Verify(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	sig := parsed.Query().Get(SignatureParameter)
	if sig == "" {
		return false
	}

	var timestamp int64
	var encoded string
	sep := -1
	for i := 0; i < len(sig); i++ {
		if sig[i] == ':' {
			sep = i
			break
		}
	}
	if sep < 1 {
		return false
	}
	timestamp, err = strconv.ParseInt(sig[:sep], 10, 64)
	if err != nil {
		return false
	}
	encoded = sig[sep+1:]

	expected := s.signature(parsed.Path, timestamp)
	if !hmac.Equal([]byte(encoded), []byte(expected)) {
		return false
	}
	return time.Since(time.Unix(timestamp, 0)) <= s.maxAge
}
