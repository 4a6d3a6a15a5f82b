package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/example/comment-board/services/board/internal/client"
)

const (
	likedMarker   = "♥"
	unlikedMarker = "♡"
)

func RenderPostList(w io.Writer, v *PostListView) {
	switch v.State {
	case Idle, Loading:
		fmt.Fprintln(w, "Loading")
		return
	case Failed:
		fmt.Fprintln(w, color.New(color.FgHiRed).Sprintf("Error: %v", v.Err))
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Title"})
	table.SetAutoWrapText(false)
	for _, p := range v.Posts {
		table.Append([]string{p.ID, p.Title})
	}
	table.Render()
}

func RenderPostDetail(w io.Writer, v *PostDetailView) {
	switch v.State {
	case Idle, Loading:
		fmt.Fprintln(w, "Loading")
		return
	case Failed:
		fmt.Fprintln(w, color.New(color.FgHiRed).Sprintf("Error: %v", v.Err))
		return
	}

	fmt.Fprintln(w, color.New(color.Bold).Sprint(v.Title))
	fmt.Fprintln(w, v.Body)
	fmt.Fprintln(w)
	fmt.Fprintln(w, color.New(color.FgCyan).Sprint("Comments"))
	if len(v.Comments) == 0 {
		fmt.Fprintln(w, "  (none yet)")
		return
	}
	for _, n := range v.Tree() {
		renderNode(w, n, 0)
	}
}

func renderNode(w io.Writer, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	c := n.Comment
	fmt.Fprintf(w, "%s%s %s  %s %s\n",
		indent,
		color.New(color.FgHiGreen, color.Bold).Sprint(c.User.Name),
		color.New(color.Faint).Sprint(c.CreatedAt.Local().Format("Jan 2, 2006 15:04")),
		likeMarker(c),
		color.New(color.Faint).Sprint("["+c.ID+"]"),
	)
	for _, line := range strings.Split(c.Message, "\n") {
		fmt.Fprintf(w, "%s  %s\n", indent, line)
	}
	for _, child := range n.Children {
		renderNode(w, child, depth+1)
	}
}

func likeMarker(c client.Comment) string {
	if c.LikedByMe {
		return color.New(color.FgHiRed).Sprintf("%s %d", likedMarker, c.LikeCount)
	}
	return fmt.Sprintf("%s %d", unlikedMarker, c.LikeCount)
}
