package discuss

import (
	"time"

	"github.com/nasermirzaei89/agora/votes"
)

// MaxDepth bounds how deep BuildTree nests replies. Deeper replies are promoted to roots.
const MaxDepth = 64

type Node struct {
	ID         string
	ParentID   *string
	Depth      int
	AuthorID   string
	Content    string
	VoteCount  int
	Removed    bool
	CreatedAt  time.Time
	VoterState votes.State
	Children   []*Node
}

func newNode(comment *Comment, parentID *string, depth int) *Node {
	content := comment.Content
	if comment.IsRemoved() {
		content = TombstoneContent
	}

	return &Node{
		ID:         comment.ID,
		ParentID:   parentID,
		Depth:      depth,
		AuthorID:   comment.AuthorID,
		Content:    content,
		VoteCount:  comment.VoteCount,
		Removed:    comment.IsRemoved(),
		CreatedAt:  comment.CreatedAt,
		VoterState: votes.StateNone,
		Children:   make([]*Node, 0),
	}
}

// BuildTree nests a flat comment set by reply parent. Sibling order follows input order.
//
// Every input comment appears exactly once. Comments without a parent, comments whose parent
// is not in the set and comments not reachable from any root (a corrupted parent chain) become
// roots.
func BuildTree(comments []*Comment) []*Node {
	known := make(map[string]struct{}, len(comments))
	for _, comment := range comments {
		known[comment.ID] = struct{}{}
	}

	buckets := make(map[string][]*Comment, len(comments))
	roots := make([]*Comment, 0)

	for _, comment := range comments {
		if comment.ReplyTo == nil {
			roots = append(roots, comment)

			continue
		}

		if _, ok := known[*comment.ReplyTo]; !ok {
			roots = append(roots, comment)

			continue
		}

		buckets[*comment.ReplyTo] = append(buckets[*comment.ReplyTo], comment)
	}

	visited := make(map[string]struct{}, len(comments))
	tree := make([]*Node, 0, len(roots))

	for _, comment := range roots {
		if _, seen := visited[comment.ID]; seen {
			continue
		}

		tree = append(tree, attach(comment, nil, 0, buckets, visited))
	}

	for _, comment := range comments {
		if _, seen := visited[comment.ID]; seen {
			continue
		}

		tree = append(tree, attach(comment, nil, 0, buckets, visited))
	}

	return tree
}

func attach(
	comment *Comment,
	parentID *string,
	depth int,
	buckets map[string][]*Comment,
	visited map[string]struct{},
) *Node {
	visited[comment.ID] = struct{}{}

	node := newNode(comment, parentID, depth)

	if depth+1 >= MaxDepth {
		return node
	}

	for _, child := range buckets[comment.ID] {
		if _, seen := visited[child.ID]; seen {
			continue
		}

		node.Children = append(node.Children, attach(child, &node.ID, depth+1, buckets, visited))
	}

	return node
}

// Walk visits nodes depth first, parents before children.
func Walk(nodes []*Node, fn func(node *Node)) {
	for _, node := range nodes {
		fn(node)
		Walk(node.Children, fn)
	}
}

func CountNodes(nodes []*Node) int {
	count := 0

	Walk(nodes, func(*Node) { count++ })

	return count
}

// SetVoterStates decorates nodes with the requester's vote state. Missing ids keep StateNone.
func SetVoterStates(nodes []*Node, states map[string]votes.State) {
	Walk(nodes, func(node *Node) {
		if state, ok := states[node.ID]; ok {
			node.VoterState = state
		}
	})
}
