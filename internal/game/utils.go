package game

import (
	crand "crypto/rand"
	"math/big"
	"math/rand/v2"

	"github.com/aaronzipp/distance-resistance/internal/models"
	"github.com/google/uuid"
)

// GenerateRoomCode creates a random session id of the given length
func GenerateRoomCode(length int) string {
	if length <= 0 {
		length = RoomCodeLength
	}
	code := make([]byte, length)
	for i := range length {
		n, err := crand.Int(crand.Reader, big.NewInt(int64(len(RoomCodeChars))))
		if err != nil {
			// fallback to math/rand if crypto fails
			code[i] = RoomCodeChars[rand.IntN(len(RoomCodeChars))]
			continue
		}
		code[i] = RoomCodeChars[n.Int64()]
	}
	return string(code)
}

// NewPlayerKey mints a fresh player capability
func NewPlayerKey() models.PlayerKey {
	return models.PlayerKey(uuid.NewString())
}
