package core

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"sort"
	"strings"
)

// ThreadKey identifies a conversation thread. It is a pure function of the
// normalized subject, so keys are stable across process restarts.
type ThreadKey string

// replyMarker matches a single leading reply/forward marker.
var replyMarker = regexp.MustCompile(`(?i)^(re|fwd|fw)\s*:\s*`)

// NormalizeSubject strips leading reply/forward markers and surrounding
// whitespace, repeatedly, until no marker remains. A missing subject
// normalizes to the empty string.
func NormalizeSubject(subject string) string {
	s := strings.TrimSpace(subject)
	for {
		stripped := strings.TrimSpace(replyMarker.ReplaceAllString(s, ""))
		if stripped == s {
			return s
		}
		s = stripped
	}
}

// ThreadKeyFor computes the thread key for a subject. The digest is FNV-1a;
// the key is a grouping value, not a security token, so a non-cryptographic
// hash is sufficient.
func ThreadKeyFor(subject string) ThreadKey {
	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(NormalizeSubject(subject))))
	return ThreadKey(fmt.Sprintf("%016x", h.Sum64()))
}

// GroupByThread clusters messages into conversation threads by normalized
// subject. Within each thread messages are sorted by date ascending; a
// message with a zero date sorts first, and the input order is preserved
// among equal dates.
func GroupByThread(msgs []*Message) map[ThreadKey][]*Message {
	threads := make(map[ThreadKey][]*Message)
	for _, msg := range msgs {
		key := ThreadKeyFor(msg.Subject)
		threads[key] = append(threads[key], msg)
	}

	for _, thread := range threads {
		sort.SliceStable(thread, func(i, j int) bool {
			return thread[i].Date.Before(thread[j].Date)
		})
	}

	return threads
}

// GetThread returns all messages from the universe that share msg's thread,
// ordered by date ascending.
func GetThread(msg *Message, universe []*Message) []*Message {
	return GroupByThread(universe)[ThreadKeyFor(msg.Subject)]
}
