package protocol

import (
	"encoding/json"
	"strings"
)

const (
	SuffixSuccess = "_SUCCESS"
	SuffixFail    = "_FAIL"
)

// Reply is one or more complete lines ready to be written to a
// connection. A nil Reply means nothing is sent.
type Reply []byte

func Line(fields ...string) Reply {
	return Reply(strings.Join(fields, Separator) + "\n")
}

func Success(tag string, fields ...string) Reply {
	return Line(append([]string{tag + SuffixSuccess}, fields...)...)
}

// Fail builds `<tag><suffix>#<reason>`; an empty reason yields the bare
// failure tag.
func Fail(tag, suffix, reason string) Reply {
	if suffix == "" {
		suffix = SuffixFail
	}
	if reason == "" {
		return Line(tag + suffix)
	}
	return Line(tag+suffix, reason)
}

// JSON marshals v compactly. Callers pass empty, not nil, slices so
// clients always receive an array.
func JSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
