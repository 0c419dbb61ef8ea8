package util

import (
	"github.com/ferdian3456/devblog/internal/model"
	"github.com/google/uuid"
)

// BuildCommentTree nests a flat, time-ordered listing of one post's comments.
// A parentId only resolves to a comment that appears earlier in the listing;
// anything else is placed at the top level, so every comment shows up exactly once.
func BuildCommentTree(comments []model.Comment) []*model.CommentNode {
	roots, _ := linkComments(comments)
	return roots
}

// CollectCommentSubtree returns the ids of rootId and all of its descendants in
// pre-order, following parentId links regardless of listing order. It returns nil
// when rootId is not part of the listing.
func CollectCommentSubtree(comments []model.Comment, rootId uuid.UUID) []uuid.UUID {
	children := make(map[uuid.UUID][]uuid.UUID, len(comments))
	found := false

	for _, comment := range comments {
		if comment.Id == rootId {
			found = true
		}
		if comment.ParentId != nil {
			children[*comment.ParentId] = append(children[*comment.ParentId], comment.Id)
		}
	}

	if !found {
		return nil
	}

	ids := []uuid.UUID{}
	visited := map[uuid.UUID]bool{}
	stack := []uuid.UUID{rootId}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[id] {
			continue
		}
		visited[id] = true
		ids = append(ids, id)

		replies := children[id]
		for i := len(replies) - 1; i >= 0; i-- {
			if !visited[replies[i]] {
				stack = append(stack, replies[i])
			}
		}
	}

	return ids
}

// FlattenCommentTree walks the forest in pre-order.
func FlattenCommentTree(roots []*model.CommentNode) []model.Comment {
	comments := []model.Comment{}

	stack := make([]*model.CommentNode, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		comments = append(comments, node.Comment)

		for i := len(node.Replies) - 1; i >= 0; i-- {
			stack = append(stack, node.Replies[i])
		}
	}

	return comments
}

func linkComments(comments []model.Comment) ([]*model.CommentNode, map[uuid.UUID]*model.CommentNode) {
	nodes := make(map[uuid.UUID]*model.CommentNode, len(comments))
	position := make(map[uuid.UUID]int, len(comments))

	// First pass: one node per comment
	for i, comment := range comments {
		if _, exists := nodes[comment.Id]; exists {
			continue
		}

		nodes[comment.Id] = &model.CommentNode{
			Comment: comment,
			Replies: []*model.CommentNode{},
		}
		position[comment.Id] = i
	}

	roots := []*model.CommentNode{}

	// Second pass: attach to parent or promote to top level
	for i, comment := range comments {
		if position[comment.Id] != i {
			continue
		}

		node := nodes[comment.Id]

		if comment.ParentId != nil {
			parentPosition, exists := position[*comment.ParentId]
			if exists && parentPosition < i {
				parent := nodes[*comment.ParentId]
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}

		roots = append(roots, node)
	}

	return roots, nodes
}
