package llmbatch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	coreerrors "github.com/ametelin/record-sweeper/internal/core/errors"
)

var replyLineRe = regexp.MustCompile(`^\s*(\d+)[.)]\s*(.+)$`)

// parseReply extracts exactly want positional answers from a batch reply.
// Parsing is fail-closed: a stray line, a bad item number or a count mismatch
// rejects the whole reply, never a partial result.
func parseReply(text string, want int) ([]string, error) {
	answers := make([]string, 0, want)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		match := replyLineRe.FindStringSubmatch(line)
		if match == nil {
			return nil, fmt.Errorf("%w: %q", coreerrors.ErrUnparsableReply, line)
		}

		index, err := strconv.Atoi(match[1])
		if err != nil || index != len(answers)+1 {
			return nil, fmt.Errorf("%w: expected item %d, got %q", coreerrors.ErrUnparsableReply, len(answers)+1, match[1])
		}

		answer := strings.TrimSpace(match[2])
		if answer == "" {
			return nil, fmt.Errorf("%w: empty answer for item %d", coreerrors.ErrUnparsableReply, index)
		}

		answers = append(answers, answer)
	}

	if len(answers) != want {
		return nil, fmt.Errorf("%w: got %d answers, want %d", coreerrors.ErrReplyCountMismatch, len(answers), want)
	}

	return answers, nil
}
