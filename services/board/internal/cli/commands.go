package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/comment-board/services/board/internal/views"
)

func newPostsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "posts",
		Short: "List posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			v := views.NewPostListView(c)
			err = v.Load(cmd.Context())
			views.RenderPostList(cmd.OutOrStdout(), v)
			return err
		},
	}
}

func newShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <post-id>",
		Short: "Show a post with its comment thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadDetail(cmd, opts, args[0])
			if v == nil {
				return err
			}
			views.RenderPostDetail(cmd.OutOrStdout(), v)
			return err
		},
	}
}

func newReplyCommand(opts *RootOptions) *cobra.Command {
	var parent string
	cmd := &cobra.Command{
		Use:   "reply <post-id> <message>",
		Short: "Comment on a post, or reply to a comment with --parent",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadDetail(cmd, opts, args[0])
			if err != nil {
				return err
			}
			var parentID *string
			if p := strings.TrimSpace(parent); p != "" {
				parentID = &p
			}
			c, err := v.Reply(cmd.Context(), parentID, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "posted %s\n\n", c.ID)
			views.RenderPostDetail(cmd.OutOrStdout(), v)
			return nil
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "id of the comment to reply to")
	return cmd
}

func newEditCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <post-id> <comment-id> <message>",
		Short: "Replace the message of one of your comments",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadDetail(cmd, opts, args[0])
			if err != nil {
				return err
			}
			if err := v.Edit(cmd.Context(), args[1], strings.Join(args[2:], " ")); err != nil {
				return err
			}
			views.RenderPostDetail(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <post-id> <comment-id>",
		Short: "Delete one of your comments and its replies",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadDetail(cmd, opts, args[0])
			if err != nil {
				return err
			}
			if err := v.Delete(cmd.Context(), args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Comment deleted successfully")
			fmt.Fprintln(cmd.OutOrStdout())
			views.RenderPostDetail(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newLikeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "like <post-id> <comment-id>",
		Short: "Toggle your like on a comment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadDetail(cmd, opts, args[0])
			if err != nil {
				return err
			}
			added, err := v.ToggleLike(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			if added {
				fmt.Fprintln(cmd.OutOrStdout(), "liked")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "unliked")
			}
			return nil
		},
	}
}

func loadDetail(cmd *cobra.Command, opts *RootOptions, postID string) (*views.PostDetailView, error) {
	c, err := opts.client()
	if err != nil {
		return nil, err
	}
	v := views.NewPostDetailView(c, postID)
	return v, v.Load(cmd.Context())
}
