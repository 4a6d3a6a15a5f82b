package grpcapi

import (
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/example/comment-board/services/board/internal/store"
)

const errorDomain = "board"

func withInfo(c codes.Code, reason, msg string) error {
	st := status.New(c, msg)
	st2, err := st.WithDetails(&errdetails.ErrorInfo{Reason: reason, Domain: errorDomain})
	if err != nil {
		return st.Err()
	}
	return st2.Err()
}

func errInvalidArgument(reason, msg string, fieldViolations map[string]string) error {
	st := status.New(codes.InvalidArgument, msg)
	info := &errdetails.ErrorInfo{Reason: reason, Domain: errorDomain}

	bad := &errdetails.BadRequest{}
	for field, desc := range fieldViolations {
		bad.FieldViolations = append(bad.FieldViolations, &errdetails.BadRequest_FieldViolation{Field: field, Description: desc})
	}

	st2, err := st.WithDetails(info, bad)
	if err != nil {
		return st.Err()
	}
	return st2.Err()
}

func errUnauthenticated(msg string) error {
	return withInfo(codes.Unauthenticated, "UNAUTHENTICATED", msg)
}

// errFromStore maps store sentinels. notFound is the reason for
// store.ErrNotFound, which means a post or a comment depending on the call.
func errFromStore(err error, notFound, verb string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		if notFound == "POST_NOT_FOUND" {
			return withInfo(codes.NotFound, notFound, "post not found")
		}
		return withInfo(codes.NotFound, notFound, "comment not found")
	case errors.Is(err, store.ErrUnknownUser):
		return errUnauthenticated("acting user does not exist")
	case errors.Is(err, store.ErrForbidden):
		return withInfo(codes.PermissionDenied, "NOT_OWNER", "You do not have permission to "+verb+" this message")
	case errors.Is(err, store.ErrInvalidParent):
		return errInvalidArgument("INVALID_PARENT", "parent comment does not belong to this post",
			map[string]string{"parent_id": err.Error()})
	default:
		return withInfo(codes.Internal, "INTERNAL", err.Error())
	}
}
