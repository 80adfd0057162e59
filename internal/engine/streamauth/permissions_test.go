package streamauth

import (
	"testing"

	"github.com/emfoursolutions/mtxbridge/internal/platform/models"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		canPublish bool
		canRead    bool
		action     string
		want       bool
	}{
		{true, true, ActionPublish, true},
		{true, true, ActionRead, true},
		{true, false, ActionPublish, true},
		{true, false, ActionRead, false},
		{false, true, ActionPublish, false},
		{false, true, ActionRead, true},
		{false, false, ActionPublish, false},
		{false, false, ActionRead, false},
		// Unrecognized actions always deny
		{true, true, "playback", false},
		{true, true, "", false},
		{true, true, "PUBLISH", false},
	}

	for _, tt := range tests {
		key := &models.APIKey{CanPublish: tt.canPublish, CanRead: tt.canRead}
		if got := Allowed(key, tt.action); got != tt.want {
			t.Errorf("Allowed(publish=%v read=%v, %q) = %v, want %v",
				tt.canPublish, tt.canRead, tt.action, got, tt.want)
		}
	}
}
