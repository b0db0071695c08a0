package messages

import (
	"errors"
	"testing"
)

func TestErrorPrefixesContext(t *testing.T) {
	cases := []struct {
		msg  Error
		want string
	}{
		{Error{Err: errors.New("disk full"), Context: "save offset"}, "save offset: disk full"},
		{Error{Err: errors.New("disk full")}, "disk full"},
	}
	for _, tc := range cases {
		if got := tc.msg.Error(); got != tc.want {
			t.Errorf("Error() = %q, want %q", got, tc.want)
		}
	}
}
