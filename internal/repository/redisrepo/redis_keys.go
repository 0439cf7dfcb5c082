package redisrepo

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	USER_KEY           = "user:%s"                 // <userID>
	SEARCH_RESULTS_KEY = "search-results:%s:%d:%d" // <search>:<limit>:<offset>
)

func UserKey(userID uuid.UUID) string {
	return fmt.Sprintf(USER_KEY, userID.String())
}

func UserKeys(userIDs ...uuid.UUID) []string {
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, UserKey(id))
	}
	return keys
}

func SearchResultsKey(search string, limit int, offset int) string {
	return fmt.Sprintf(SEARCH_RESULTS_KEY, search, limit, offset)
}
