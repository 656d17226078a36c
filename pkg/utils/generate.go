package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ==================== ORDER REFERENCE ====================

// GenerateOrderRef creates a human-readable order reference.
// Format: <prefix>-YYYYMMDD-HHMMSS-RANDOM, e.g. BOOK-20260301-143015-a3f9
func GenerateOrderRef(prefix string) string {
	now := time.Now()

	datePart := now.Format("20060102")
	timePart := now.Format("150405")
	randomPart := randomHex(2)

	return fmt.Sprintf("%s-%s-%s-%s", prefix, datePart, timePart, randomPart)
}

// ==================== TICKET CREDENTIAL ====================

// GenerateTicketCode mints the credential for a paid booking. It namespaces
// the booking identity with the issuance timestamp and a random suffix so
// codes are unique system-wide and unguessable from the booking ID alone.
func GenerateTicketCode(bookingID uuid.UUID) string {
	idPart := strings.Split(bookingID.String(), "-")[0]
	return fmt.Sprintf("TKT-%s-%d-%s", strings.ToUpper(idPart), time.Now().Unix(), randomHex(8))
}

func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// fall back to a time-derived suffix rather than panicking.
		return fmt.Sprintf("%x", time.Now().UnixNano())[:n*2]
	}
	return hex.EncodeToString(buf)
}
