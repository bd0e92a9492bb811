package ticket

import (
	"crypto/rand"
	"time"
)

const numberSuffixLength = 5

// Number generates a human-readable ticket number in the form
// TKT-<YYYYMMDD>-<5-digit-random>. Collisions within a day are
// possible; the insert path retries on a uniqueness violation.
func Number(now time.Time) string {
	return "TKT-" + now.Format("20060102") + "-" + randomDigits(numberSuffixLength)
}

func randomDigits(length int) string {
	const digits = "0123456789"
	b := make([]byte, length)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = digits[int(b[i])%len(digits)]
	}
	return string(b)
}
