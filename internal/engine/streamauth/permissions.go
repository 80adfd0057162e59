package streamauth

import "github.com/emfoursolutions/mtxbridge/internal/platform/models"

const (
	ActionPublish = "publish"
	ActionRead    = "read"
)

// Allowed decides whether an already-verified key authorizes the action.
// Unrecognized actions are denied, never defaulted to allow.
func Allowed(key *models.APIKey, action string) bool {
	switch action {
	case ActionPublish:
		return key.CanPublish
	case ActionRead:
		return key.CanRead
	default:
		return false
	}
}
