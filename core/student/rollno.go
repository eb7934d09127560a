package student

import (
	"strings"

	"github.com/google/uuid"
)

const rollNoSuffixLen = 6

// NewRollNo returns prefix followed by 6 uppercase hex characters of a random UUID.
func NewRollNo(prefix string) string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return prefix + strings.ToUpper(hex[:rollNoSuffixLen])
}
