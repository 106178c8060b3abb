package tags

import (
	"strings"
	"testing"

	"github.com/marginalia-app/marginalia/internal/state"
)

func TestAddRejectsInvalidTagName(t *testing.T) {
	t.Parallel()

	cmd := newCmdAdd(&state.State{})

	err := cmd.RunE(cmd, []string{"bad!name"})
	if err == nil {
		t.Fatal("expected invalid tag name to be rejected")
	}
	if !strings.Contains(err.Error(), "invalid name") {
		t.Errorf("unexpected error: %v", err)
	}
}
