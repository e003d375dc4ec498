package checkout

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"strings"
)

// RandomSource fills b with random bytes. Production uses crypto/rand;
// tests inject a fixed source for deterministic suffixes.
type RandomSource func(b []byte) error

// CryptoRandom is the default RandomSource, backed by crypto/rand.
func CryptoRandom(b []byte) error {
	_, err := rand.Read(b)
	return err
}

// OrderNumberGenerator produces human-traceable order identifiers of the form
//
//	RX-<first 4 chars of userID>-<last 6 digits of epoch millis>-<4 hex chars>
//
// The prefix ties the number to a user and an approximate time; the suffix
// adds collision resistance. Numbers are not guaranteed globally unique;
// strict uniqueness is the persistence layer's job (unique constraint on
// order_number).
type OrderNumberGenerator struct {
	random RandomSource
}

// NewOrderNumberGenerator creates a generator over the given random source.
// A nil source falls back to crypto/rand.
func NewOrderNumberGenerator(random RandomSource) *OrderNumberGenerator {
	if random == nil {
		random = CryptoRandom
	}
	return &OrderNumberGenerator{random: random}
}

// Generate builds an order number for a user and an epoch-millis timestamp.
// It always returns a value; if the random source fails, the suffix is
// derived from the timestamp instead.
func (g *OrderNumberGenerator) Generate(userID string, timestampMillis int64) string {
	userPart := firstRunes(userID, 4)

	timePart := strconv.FormatInt(timestampMillis, 10)
	if len(timePart) > 6 {
		timePart = timePart[len(timePart)-6:]
	}

	buf := make([]byte, 4)
	if err := g.random(buf); err != nil {
		binary.BigEndian.PutUint32(buf, uint32(timestampMillis))
	}
	randomPart := hex.EncodeToString(buf)[:4]

	var b strings.Builder
	b.WriteString("RX-")
	b.WriteString(userPart)
	b.WriteString("-")
	b.WriteString(timePart)
	b.WriteString("-")
	b.WriteString(randomPart)
	return b.String()
}

// firstRunes returns the first n runes of s. IDs are normally ASCII UUIDs,
// but a byte slice would mangle a multibyte leading character.
func firstRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
