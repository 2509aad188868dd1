package lifecycle

import (
	"errors"
	"fmt"

	"github.com/studykit/studylib-backend/internal/types"
)

// Action is a lifecycle trigger on a slide.
type Action string

const (
	ActionSaveDraft Action = "SAVE_DRAFT"
	ActionPublish   Action = "PUBLISH"
	ActionUnpublish Action = "UNPUBLISH"
	ActionDelete    Action = "DELETE"
)

var (
	// ErrTerminalStatus rejects any action on a DELETED slide.
	ErrTerminalStatus = errors.New("slide is deleted, no further transitions")
	// ErrInvalidTransition rejects actions the current status does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Options tunes ambiguous transitions. UnpublishTo is the status an
// unpublished slide lands in. The product has not settled whether that is
// DRAFT or UNSYNC, so both are representable; zero value means DRAFT.
type Options struct {
	UnpublishTo types.Status
}

func (o Options) unpublishTarget() (types.Status, error) {
	switch o.UnpublishTo {
	case "", types.StatusDraft:
		return types.StatusDraft, nil
	case types.StatusUnsync:
		return types.StatusUnsync, nil
	default:
		return "", fmt.Errorf("%w: unpublish cannot target %s", ErrInvalidTransition, o.UnpublishTo)
	}
}

// Next computes the status an action produces, without touching payloads.
func Next(current types.Status, action Action, opts Options) (types.Status, error) {
	if current == types.StatusDeleted {
		if action == ActionDelete {
			return types.StatusDeleted, nil
		}
		return "", ErrTerminalStatus
	}
	switch action {
	case ActionSaveDraft:
		// Editing published content leaves it published-but-stale.
		if current == types.StatusPublished {
			return types.StatusUnsync, nil
		}
		return current, nil
	case ActionPublish:
		return types.StatusPublished, nil
	case ActionUnpublish:
		if current != types.StatusPublished && current != types.StatusUnsync {
			return "", fmt.Errorf("%w: cannot unpublish from %s", ErrInvalidTransition, current)
		}
		return opts.unpublishTarget()
	case ActionDelete:
		return types.StatusDeleted, nil
	default:
		return "", fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}
}

// Apply computes the transition and runs the per-kind payload promotion or
// demotion. The slide is only mutated when the whole step succeeds.
func Apply(s *types.Slide, action Action, opts Options) error {
	next, err := Next(s.Status, action, opts)
	if err != nil {
		return err
	}
	adapter, err := AdapterFor(s.SourceType)
	if err != nil {
		return err
	}
	switch action {
	case ActionPublish:
		if err := adapter.Promote(s); err != nil {
			return err
		}
	case ActionUnpublish:
		if err := adapter.Demote(s); err != nil {
			return err
		}
	}
	s.Status = next
	return nil
}
