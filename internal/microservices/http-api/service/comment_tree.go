package service

import (
	"cmp"
	"slices"

	"videohub/internal/microservices/http-api/dto"
	"videohub/internal/microservices/http-api/models"
)

// BuildCommentTree nests the comments of one video under their parents.
// Only root comments appear at the top level. Siblings are ordered by
// descending id at every depth, and leaves carry no children slice.
func BuildCommentTree(comments []models.Comment, url dto.URLFunc) []dto.CommentTreeNode {
	ordered := make([]*models.Comment, 0, len(comments))
	for i := range comments {
		ordered = append(ordered, &comments[i])
	}
	slices.SortFunc(ordered, func(a, b *models.Comment) int {
		return cmp.Compare(b.ID, a.ID)
	})

	children := make(map[int64][]*models.Comment)
	for _, c := range ordered {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}

	var build func(c *models.Comment) dto.CommentTreeNode
	build = func(c *models.Comment) dto.CommentTreeNode {
		node := dto.NewCommentTreeNode(c, url)
		for _, child := range children[c.ID] {
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	roots := make([]dto.CommentTreeNode, 0)
	for _, c := range ordered {
		if !c.IsChild {
			roots = append(roots, build(c))
		}
	}
	return roots
}
