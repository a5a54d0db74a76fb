package store

import (
	"fmt"
	"strconv"
	"strings"
)

// Key construction for every tree the engine touches. Keys are plain ASCII
// strings so Badger's natural byte-lexicographic iteration order doubles as
// the semantic order the engine needs: reverse-timestamp prefixes sort
// newest-first, forward-timestamp prefixes sort oldest-due-first.
//
// validateID is the single choke point every constructor routes through:
// IDs may not be empty or contain ':', since ':' is the field separator and
// an attacker-controlled ID containing one could forge a different key
// than the caller intended (key injection).

func validateID(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%w: id must not be empty", ErrValidation)
	}
	if strings.Contains(id, ":") {
		return "", fmt.Errorf("%w: id must not contain ':'", ErrValidation)
	}
	return id, nil
}

const reverseTSWidth = 20 // len(strconv.FormatUint(math.MaxUint64, 10))

func reverseTimestamp(tsMs int64) uint64 {
	ts := tsMs
	if ts < 0 {
		ts = 0
	}
	return ^uint64(0) - uint64(ts)
}

func forwardTimestamp(tsMs int64) uint64 {
	if tsMs < 0 {
		return 0
	}
	return uint64(tsMs)
}

func UserKey(userID string) (string, error) {
	return validateID(userID)
}

func UserEmailIndexKey(email string) (string, error) {
	if email == "" {
		return "", fmt.Errorf("%w: email must not be empty", ErrValidation)
	}
	return "email:" + strings.ToLower(email), nil
}

func SessionKey(tokenHash string) (string, error) {
	return validateID(tokenHash)
}

func SessionUserIndexKey(userID, tokenHash string) (string, error) {
	u, err := validateID(userID)
	if err != nil {
		return "", err
	}
	t, err := validateID(tokenHash)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("user:%s:%s", u, t), nil
}

func SessionUserIndexPrefix(userID string) (string, error) {
	u, err := validateID(userID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("user:%s:", u), nil
}

func WordKey(wordID string) (string, error) {
	return validateID(wordID)
}

// RecordKey orders newest-first via a reverse timestamp, matching the
// "recent activity" read pattern most callers use for a user's event log.
func RecordKey(userID string, timestampMs int64, recordID string) (string, error) {
	u, err := validateID(userID)
	if err != nil {
		return "", err
	}
	r, err := validateID(recordID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%0*d:%s", u, reverseTSWidth, reverseTimestamp(timestampMs), r), nil
}

func RecordPrefix(userID string) (string, error) {
	u, err := validateID(userID)
	if err != nil {
		return "", err
	}
	return u + ":", nil
}

func LearningSessionKey(sessionID string) (string, error) {
	return validateID(sessionID)
}

func LearningSessionUserIndexKey(userID, sessionID string) (string, error) {
	u, err := validateID(userID)
	if err != nil {
		return "", err
	}
	s, err := validateID(sessionID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("user:%s:%s", u, s), nil
}

func EngineUserStateKey(userID string) (string, error) {
	return validateID(userID)
}

// EngineAlgoStateKey allows algorithmID to itself contain ':' (e.g.
// "mastery:word42") since only userID needs to be unambiguous as the scan
// prefix; the algorithm state hierarchy (algorithm kind : target entity)
// lives entirely inside the suffix.
func EngineAlgoStateKey(userID, algorithmID string) (string, error) {
	u, err := validateID(userID)
	if err != nil {
		return "", err
	}
	if algorithmID == "" {
		return "", fmt.Errorf("%w: algorithm id must not be empty", ErrValidation)
	}
	return fmt.Sprintf("%s:%s", u, algorithmID), nil
}

func EngineAlgoStatePrefix(userID string) (string, error) {
	u, err := validateID(userID)
	if err != nil {
		return "", err
	}
	return u + ":", nil
}

func MonitoringEventKey(timestampMs int64, eventID string) (string, error) {
	e, err := validateID(eventID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d:%s", reverseTSWidth, reverseTimestamp(timestampMs), e), nil
}

func ConfigVersionKey(configType string, version uint32) (string, error) {
	c, err := validateID(configType)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%010d", c, version), nil
}

func ConfigLatestKey(configType string) (string, error) {
	c, err := validateID(configType)
	if err != nil {
		return "", err
	}
	return c + ":latest", nil
}

func WordLearningStateKey(userID, wordID string) (string, error) {
	u, err := validateID(userID)
	if err != nil {
		return "", err
	}
	w, err := validateID(wordID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s", u, w), nil
}

func WordLearningStatePrefix(userID string) (string, error) {
	u, err := validateID(userID)
	if err != nil {
		return "", err
	}
	return u + ":", nil
}

// WordDueIndexKey sorts oldest-due-first within a user's prefix: a forward
// (non-reversed) timestamp so the word selector can scan from the prefix
// start to get the most overdue words first.
func WordDueIndexKey(userID string, dueTsMs int64, wordID string) (string, error) {
	u, err := validateID(userID)
	if err != nil {
		return "", err
	}
	w, err := validateID(wordID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%0*d:%s", u, reverseTSWidth, forwardTimestamp(dueTsMs), w), nil
}

func WordDueIndexPrefix(userID string) (string, error) {
	u, err := validateID(userID)
	if err != nil {
		return "", err
	}
	return u + ":", nil
}

func NotificationKey(userID, notificationID string) (string, error) {
	u, err := validateID(userID)
	if err != nil {
		return "", err
	}
	n, err := validateID(notificationID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s", u, n), nil
}

func NotificationPrefix(userID string) (string, error) {
	u, err := validateID(userID)
	if err != nil {
		return "", err
	}
	return u + ":", nil
}

func WordMorphemeKey(wordID string) (string, error) {
	return validateID(wordID)
}

func UserEloKey(userID string) (string, error) {
	u, err := validateID(userID)
	if err != nil {
		return "", err
	}
	return "user_elo:" + u, nil
}

func WordEloKey(wordID string) (string, error) {
	w, err := validateID(wordID)
	if err != nil {
		return "", err
	}
	return "word_elo:" + w, nil
}

// ConfusionPairKey normalizes the pair order so (a,b) and (b,a) collide on
// the same key, matching the symmetric nature of lexical confusion.
func ConfusionPairKey(wordIDA, wordIDB string) (string, error) {
	a, err := validateID(wordIDA)
	if err != nil {
		return "", err
	}
	b, err := validateID(wordIDB)
	if err != nil {
		return "", err
	}
	if a < b {
		return fmt.Sprintf("%s:%s", a, b), nil
	}
	return fmt.Sprintf("%s:%s", b, a), nil
}

// ParseDueIndexItemKey extracts (dueTsMs, wordID) from a word-due-index key
// of the form "{userID}:{dueTsMs:020}:{wordID}", after the caller's prefix
// scan has already fixed userID. Returns false if the key isn't shaped as
// expected.
func ParseDueIndexItemKey(key []byte) (dueTsMs int64, wordID string, ok bool) {
	parts := strings.SplitN(string(key), ":", 3)
	if len(parts) != 3 {
		return 0, "", false
	}
	ts, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0, "", false
	}
	if ts > uint64(1<<63-1) {
		ts = uint64(1<<63 - 1)
	}
	return int64(ts), parts[2], true
}
