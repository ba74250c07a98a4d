package dispatch

import (
	"regexp"
	"strconv"
)

var expectedSeqNumPattern = regexp.MustCompile(`(?i)expected\s+'?(\d+)'?`)

// ParseExpectedSeqNum extracts the sequence number the counterparty
// expects from a logout's free text. Returns false when the text carries
// no usable hint, in which case the next logon falls back to a sequence
// reset.
func ParseExpectedSeqNum(text string) (int, bool) {
	match := expectedSeqNumPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	n, err := strconv.Atoi(match[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
