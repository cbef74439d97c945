package ranking

import "github.com/nasermirzaei89/agora/votes"

// Reputation granted or taken for content lifecycle events.
const (
	PostCreatedReputation    = 3
	CommentCreatedReputation = 1
	PostRemovedReputation    = -3
	CommentRemovedReputation = -1
)

// Reputation an author gains per unit of tally change on their content.
const (
	PostVoteWeight    = 5
	CommentVoteWeight = 1
)

func voteWeight(kind votes.TargetKind) int {
	switch kind {
	case votes.TargetKindPost:
		return PostVoteWeight
	case votes.TargetKindComment:
		return CommentVoteWeight
	default:
		return 0
	}
}

// VoteReputationDelta converts a tally change into the author's reputation change.
func VoteReputationDelta(kind votes.TargetKind, ledgerDelta int) int {
	return ledgerDelta * voteWeight(kind)
}

type event string

const (
	eventPostCreated    event = "post_created"
	eventCommentCreated event = "comment_created"
	eventPostRemoved    event = "post_removed"
	eventCommentRemoved event = "comment_removed"
	eventVote           event = "vote"
)
