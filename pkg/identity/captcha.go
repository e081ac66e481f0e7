package identity

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Challenge is one math captcha: a two-operand addition the caller must
// answer exactly before authentication is attempted.
type Challenge struct {
	ID       string `json:"id"`
	Question string `json:"question"`
}

// Captcha issues and verifies challenges. Challenges are one-shot: any
// verification attempt, right or wrong, consumes the challenge, so a failed
// login always starts over with a fresh question.
type Captcha struct {
	mu      sync.Mutex
	answers map[string]string
}

func NewCaptcha() *Captcha {
	return &Captcha{answers: make(map[string]string)}
}

// NewChallenge generates a question like "12 + 7 =" with a in [5,44] and
// b in [1,40].
func (c *Captcha) NewChallenge() Challenge {
	a := rand.Intn(40) + 5
	b := rand.Intn(40) + 1

	ch := Challenge{
		ID:       uuid.NewString(),
		Question: fmt.Sprintf("%d + %d =", a, b),
	}

	c.mu.Lock()
	c.answers[ch.ID] = strconv.Itoa(a + b)
	c.mu.Unlock()

	return ch
}

// Verify consumes the challenge and reports whether answer matches exactly
// after trimming. An empty or unknown challenge id never verifies.
func (c *Captcha) Verify(id, answer string) bool {
	c.mu.Lock()
	want, ok := c.answers[id]
	delete(c.answers, id)
	c.mu.Unlock()

	if !ok {
		return false
	}
	return strings.TrimSpace(answer) != "" && strings.TrimSpace(answer) == want
}
