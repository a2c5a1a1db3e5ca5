package domain

import (
	"strconv"
	"strings"
)

// IsAuthorized reports whether senderID appears in the comma-separated allow list.
// The list is parsed on every call.
func IsAuthorized(senderID int64, allowList string) bool {
	id := strconv.FormatInt(senderID, 10)
	for _, allowed := range strings.Split(allowList, ",") {
		if strings.TrimSpace(allowed) == id {
			return true
		}
	}
	return false
}
