package ranking

import (
	"context"

	"github.com/nasermirzaei89/agora/contents"
	"github.com/nasermirzaei89/agora/discuss"
	"github.com/nasermirzaei89/agora/reputation"
	"github.com/nasermirzaei89/agora/votes"
)

type Repositories interface {
	Posts() contents.PostRepository
	Comments() discuss.CommentRepository
	Votes() votes.Repository
	Reputation() reputation.Repository
}

// Store hands out repositories and runs units of work atomically.
type Store interface {
	Repositories
	// WithinTx runs fn in one transaction, committing when fn returns nil.
	// fn must only use the repositories it is given.
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}
