package cmdline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	cases := []struct {
		name    string
		command string
		want    []string
	}{
		{"simple", "echo hello", []string{"echo", "hello"}},
		{"multiple spaces", "echo   hello    world", []string{"echo", "hello", "world"}},
		{"tabs", "echo\thello", []string{"echo", "hello"}},
		{"double quotes", `echo "a b"`, []string{"echo", "a b"}},
		{"single quotes", "echo 'a b'", []string{"echo", "a b"}},
		{"escaped space", `echo a\ b`, []string{"echo", "a b"}},
		{"escape inside double quotes", `echo "a \" b"`, []string{"echo", `a " b`}},
		{"backslash literal in single quotes", `echo 'a\b'`, []string{"echo", `a\b`}},
		{"adjacent quoted segments", `echo a"b c"d`, []string{"echo", "ab cd"}},
		{"single quote inside double", `echo "it's"`, []string{"echo", "it's"}},
		{"leading and trailing whitespace", "  echo hi  ", []string{"echo", "hi"}},
		{"shell invocation", `sh -c "sleep 1; exit 2"`, []string{"sh", "-c", "sleep 1; exit 2"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Split(tc.command)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSplitUnclosedQuote(t *testing.T) {
	for _, command := range []string{`echo "unterminated`, "echo 'unterminated", `echo "a b' c`} {
		_, err := Split(command)
		assert.ErrorIs(t, err, ErrUnclosedQuote, "command: %s", command)
	}
}

func TestSplitEmptyCommand(t *testing.T) {
	for _, command := range []string{"", "   ", " \t "} {
		_, err := Split(command)
		assert.ErrorIs(t, err, ErrEmptyCommand, "command: %q", command)
	}
}
