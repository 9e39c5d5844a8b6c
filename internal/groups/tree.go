package groups

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/hugh/linkstash/internal/database/models"
)

// Node is a group annotated with its direct bookmark count and, after
// RollUpCounts, the count of its whole subtree.
type Node struct {
	models.Group
	BookmarkCount int64   `json:"bookmark_count"`
	Children      []*Node `json:"children" gorm:"-"`
}

// BuildForest turns a flat set of one user's groups into an ordered forest.
// A node is a root when it has no parent or its parent is absent from the
// set. Siblings are ordered by sort_order ascending, then name ascending
// case-insensitively.
func BuildForest(flat []*Node) []*Node {
	byID := make(map[uuid.UUID]*Node, len(flat))
	for _, n := range flat {
		n.Children = nil
		byID[n.ID] = n
	}

	var roots []*Node
	for _, n := range flat {
		if n.ParentID != nil {
			if parent, ok := byID[*n.ParentID]; ok && parent != n {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}

	sortSiblings(roots)
	for _, n := range flat {
		sortSiblings(n.Children)
		if n.Children == nil {
			n.Children = []*Node{}
		}
	}
	return roots
}

func sortSiblings(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].SortOrder != nodes[j].SortOrder {
			return nodes[i].SortOrder < nodes[j].SortOrder
		}
		return strings.ToLower(nodes[i].Name) < strings.ToLower(nodes[j].Name)
	})
}

// RollUpCounts folds each subtree's bookmark counts into its root,
// post-order. It must run exactly once per freshly built forest; running it
// again would double the descendants' contribution.
func RollUpCounts(forest []*Node) {
	for _, n := range forest {
		rollUp(n)
	}
}

func rollUp(n *Node) int64 {
	for _, c := range n.Children {
		n.BookmarkCount += rollUp(c)
	}
	return n.BookmarkCount
}

// ExpandDescendants returns rootID plus every group transitively reachable
// through the parent pointers in all. Traversal is breadth-first with a
// visited set, so it terminates even if the stored rows abnormally form a
// cycle.
func ExpandDescendants(rootID uuid.UUID, all []models.Group) []uuid.UUID {
	children := make(map[uuid.UUID][]uuid.UUID, len(all))
	for _, g := range all {
		if g.ParentID != nil {
			children[*g.ParentID] = append(children[*g.ParentID], g.ID)
		}
	}

	visited := map[uuid.UUID]bool{rootID: true}
	result := []uuid.UUID{rootID}
	queue := []uuid.UUID{rootID}
	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]
		for _, child := range children[parent] {
			if visited[child] {
				continue
			}
			visited[child] = true
			result = append(result, child)
			queue = append(queue, child)
		}
	}
	return result
}
