package ranking

import (
	"errors"
	"fmt"

	"github.com/nasermirzaei89/agora/votes"
)

var (
	ErrAnonymousActor   = errors.New("anonymous actor")
	ErrTooManyConflicts = errors.New("too many concurrent vote conflicts")
)

type InvalidContentError struct {
	Reason string
}

func (err InvalidContentError) Error() string {
	return fmt.Sprintf("invalid content: %s", err.Reason)
}

// NotAuthorError reports an attempt to remove someone else's content.
type NotAuthorError struct {
	ActorID string
	Target  votes.Target
}

func (err NotAuthorError) Error() string {
	return fmt.Sprintf("%q is not the author of %s", err.ActorID, err.Target)
}

type InvalidReplyError struct {
	PostID  string
	ReplyTo string
}

func (err InvalidReplyError) Error() string {
	return fmt.Sprintf("comment %q does not belong to post %q", err.ReplyTo, err.PostID)
}
