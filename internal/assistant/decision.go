package assistant

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/projectnexus/taskpilot/pkg/models"
)

// ErrBadToken is returned when an echoed decision token fails to decode
// or its signature does not verify. The engine treats the channel as
// untrusted: the token travels through the caller (and possibly through a
// language model reconstructing text), so anything unverifiable is
// discarded rather than acted on.
var ErrBadToken = errors.New("pending decision token is invalid")

// DecisionCodec serializes pending decisions into opaque, signed tokens
// the caller echoes back on the next turn. The payload is JSON, the
// signature is HMAC-SHA256 over the payload with a per-process key.
type DecisionCodec struct {
	key []byte
}

// NewDecisionCodec creates a codec with the given signing key. A nil key
// generates a random per-process key, which invalidates outstanding
// tokens across restarts; pass a stable key to survive them.
func NewDecisionCodec(key []byte) (*DecisionCodec, error) {
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate signing key: %w", err)
		}
	}
	return &DecisionCodec{key: key}, nil
}

// Encode signs the decision and returns the token to hand to the caller.
func (c *DecisionCodec) Encode(decision models.PendingDecision) (string, error) {
	payload, err := json.Marshal(decision)
	if err != nil {
		return "", fmt.Errorf("marshal decision: %w", err)
	}
	body := base64.RawURLEncoding.EncodeToString(payload)
	return body + "." + c.sign(body), nil
}

// Decode verifies the token and returns the decision it carries. Any
// decode or signature failure yields ErrBadToken; callers must not
// distinguish tampering from corruption.
func (c *DecisionCodec) Decode(token string) (models.PendingDecision, error) {
	body, sig, ok := strings.Cut(token, ".")
	if !ok {
		return models.PendingDecision{}, ErrBadToken
	}
	if !hmac.Equal([]byte(c.sign(body)), []byte(sig)) {
		return models.PendingDecision{}, ErrBadToken
	}
	payload, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return models.PendingDecision{}, ErrBadToken
	}
	var decision models.PendingDecision
	if err := json.Unmarshal(payload, &decision); err != nil {
		return models.PendingDecision{}, ErrBadToken
	}
	return decision, nil
}

func (c *DecisionCodec) sign(body string) string {
	mac := hmac.New(sha256.New, c.key)
	mac.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
