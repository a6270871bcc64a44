package category

import (
	"strings"

	"github.com/juspay/genius-dashboard-go/utils"
)

type Category string

const (
	Unknown              Category = "unknown"
	Team                 Category = "team"
	JuspayGeniusMerchant Category = "juspay-genius-merchant"
	Merchant             Category = "merchant"
)

// Categorize maps a session's first user identifier to a category.  This is
// the single source of truth: the session filter and all statistics views
// share it, so a session can never be counted under one category and listed
// under another.
//
// Matching against the team allow-list is deliberately loose (substring in
// both directions, plus the local part of entries containing "@"), trading
// precision for recall.  The list is user-maintained and entries are not
// required to be well-formed addresses.
func Categorize(userIDs []string, teamEmails []string) Category {
	if len(userIDs) == 0 || userIDs[0] == utils.UNKNOWN_USER {
		return Unknown
	}

	userID := userIDs[0]

	if matchesTeam(userID, teamEmails) {
		return Team
	}

	if strings.Contains(strings.ToLower(userID), "@juspay") {
		return JuspayGeniusMerchant
	}

	return Merchant
}

func matchesTeam(userID string, teamEmails []string) bool {
	userLower := strings.ToLower(strings.TrimSpace(userID))

	for _, email := range teamEmails {
		emailLower := strings.ToLower(strings.TrimSpace(email))

		if emailLower == "" {
			continue
		}

		if userLower == emailLower ||
			strings.Contains(userLower, emailLower) ||
			strings.Contains(emailLower, userLower) {
			return true
		}

		// For entries that look like an address, also match on the local part.
		if at := strings.Index(emailLower, "@"); at != -1 {
			local := emailLower[:at]
			if local != "" && (userLower == local || strings.Contains(userLower, local)) {
				return true
			}
		}
	}

	return false
}
