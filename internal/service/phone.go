package service

import (
	"strings"

	"github.com/rookgm/pointsclub/internal/models"
)

const (
	// minPhoneDigits is the shortest phone number accepted for a loyalty account
	minPhoneDigits = 8
	// maxPhoneDigits is the E.164 limit, country code included
	maxPhoneDigits = 15
)

// NormalizePhone strips everything but digits from phone.
// Returns ErrInvalidPhone unless minPhoneDigits to maxPhoneDigits digits remain.
func NormalizePhone(phone string) (string, error) {
	normalized := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	if len(normalized) < minPhoneDigits || len(normalized) > maxPhoneDigits {
		return "", models.ErrInvalidPhone
	}

	return normalized, nil
}
