// Package cli implements boardctl, a terminal front end for the board API.
package cli

import (
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/comment-board/internal/platform/logging"
	"github.com/example/comment-board/services/board/internal/client"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	APIURL  string
	Retries int
	Verbose bool
	NoColor bool
}

func defaultAPIURL() string {
	if v := strings.TrimSpace(os.Getenv("BOARD_API_URL")); v != "" {
		return v
	}
	return "http://localhost:8080"
}

// NewRootCommand creates the boardctl root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "boardctl",
		Short: "Read and write comments on the board",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.NoColor {
				color.NoColor = true
			}
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.APIURL, "api", defaultAPIURL(), "board API base URL (env BOARD_API_URL)")
	cmd.PersistentFlags().IntVar(&opts.Retries, "retries", 2, "retries for read requests")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log requests to stderr")
	cmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	cmd.AddCommand(newPostsCommand(opts))
	cmd.AddCommand(newShowCommand(opts))
	cmd.AddCommand(newReplyCommand(opts))
	cmd.AddCommand(newEditCommand(opts))
	cmd.AddCommand(newDeleteCommand(opts))
	cmd.AddCommand(newLikeCommand(opts))

	return cmd
}

func (o *RootOptions) client() (*client.Client, error) {
	log := zap.NewNop()
	if o.Verbose {
		l, err := logging.New("debug", "boardctl")
		if err != nil {
			return nil, err
		}
		log = l
	}
	return client.New(o.APIURL, client.ClientConfig{MaxRetries: o.Retries},
		client.WithLogger(log),
		client.WithCircuitBreaker(client.NewBreaker("board-api", 3, 30*time.Second, log)),
	)
}
