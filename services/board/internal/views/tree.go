package views

import "github.com/example/comment-board/services/board/internal/client"

// Node is a comment with its direct replies.
type Node struct {
	Comment  client.Comment
	Children []*Node
}

// BuildTree nests a flat comment list. Children keep the order they have in
// comments. A comment whose parent is missing from the list is promoted to a
// root. Each comment appears exactly once, even when parent links form a
// cycle: the first unvisited member of a cycle becomes a root.
func BuildTree(comments []client.Comment) []*Node {
	byID := make(map[string]client.Comment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}

	children := make(map[string][]string)
	var rootIDs []string
	for _, c := range comments {
		if c.ParentID != nil {
			if _, ok := byID[*c.ParentID]; ok && *c.ParentID != c.ID {
				children[*c.ParentID] = append(children[*c.ParentID], c.ID)
				continue
			}
		}
		rootIDs = append(rootIDs, c.ID)
	}

	visited := make(map[string]bool, len(comments))
	var build func(id string) *Node
	build = func(id string) *Node {
		visited[id] = true
		n := &Node{Comment: byID[id]}
		for _, child := range children[id] {
			if visited[child] {
				continue
			}
			n.Children = append(n.Children, build(child))
		}
		return n
	}

	roots := make([]*Node, 0, len(rootIDs))
	for _, id := range rootIDs {
		if !visited[id] {
			roots = append(roots, build(id))
		}
	}
	for _, c := range comments {
		if !visited[c.ID] {
			roots = append(roots, build(c.ID))
		}
	}
	return roots
}

// Descendants returns the ids of every comment below id.
func Descendants(comments []client.Comment, id string) map[string]bool {
	out := map[string]bool{}
	for changed := true; changed; {
		changed = false
		for _, c := range comments {
			if out[c.ID] || c.ParentID == nil || c.ID == id {
				continue
			}
			if *c.ParentID == id || out[*c.ParentID] {
				out[c.ID] = true
				changed = true
			}
		}
	}
	return out
}
