package protocol

import "strings"

const Separator = "#"

type Message struct {
	Command Command
	Fields  []string
	Raw     string
}

// Parse splits a line on '#'. Fields[0] is the command name.
func Parse(line string) Message {
	fields := strings.Split(line, Separator)
	return Message{
		Command: Command(fields[0]),
		Fields:  fields,
		Raw:     line,
	}
}

func (m Message) Len() int {
	return len(m.Fields)
}

// Field returns the i-th field trimmed, or "" when absent.
func (m Message) Field(i int) string {
	if i < 0 || i >= len(m.Fields) {
		return ""
	}
	return strings.TrimSpace(m.Fields[i])
}

// Tail rejoins fields from i onward. Free text such as chat content or a
// JSON payload may itself contain '#'.
func (m Message) Tail(i int) string {
	if i < 0 || i >= len(m.Fields) {
		return ""
	}
	return strings.Join(m.Fields[i:], Separator)
}
