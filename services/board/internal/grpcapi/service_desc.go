package grpcapi

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "board.v1.BoardService"

// BoardServer is the server API for BoardService.
type BoardServer interface {
	ListPosts(context.Context, *ListPostsRequest) (*ListPostsResponse, error)
	GetPost(context.Context, *GetPostRequest) (*GetPostResponse, error)
	CreateComment(context.Context, *CreateCommentRequest) (*CreateCommentResponse, error)
	UpdateComment(context.Context, *UpdateCommentRequest) (*UpdateCommentResponse, error)
	DeleteComment(context.Context, *DeleteCommentRequest) (*DeleteCommentResponse, error)
	ToggleLike(context.Context, *ToggleLikeRequest) (*ToggleLikeResponse, error)
}

func unary[Req, Resp any](method string, call func(BoardServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(BoardServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(BoardServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc is registered by RegisterBoardServer. Messages travel as JSON.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BoardServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListPosts", BoardServer.ListPosts),
		unary("GetPost", BoardServer.GetPost),
		unary("CreateComment", BoardServer.CreateComment),
		unary("UpdateComment", BoardServer.UpdateComment),
		unary("DeleteComment", BoardServer.DeleteComment),
		unary("ToggleLike", BoardServer.ToggleLike),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterBoardServer(s grpc.ServiceRegistrar, srv BoardServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client calls BoardService over a connection created with grpc.NewClient.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListPosts(ctx context.Context, in *ListPostsRequest, opts ...grpc.CallOption) (*ListPostsResponse, error) {
	return invoke[ListPostsRequest, ListPostsResponse](ctx, c.cc, "ListPosts", in, opts)
}

func (c *Client) GetPost(ctx context.Context, in *GetPostRequest, opts ...grpc.CallOption) (*GetPostResponse, error) {
	return invoke[GetPostRequest, GetPostResponse](ctx, c.cc, "GetPost", in, opts)
}

func (c *Client) CreateComment(ctx context.Context, in *CreateCommentRequest, opts ...grpc.CallOption) (*CreateCommentResponse, error) {
	return invoke[CreateCommentRequest, CreateCommentResponse](ctx, c.cc, "CreateComment", in, opts)
}

func (c *Client) UpdateComment(ctx context.Context, in *UpdateCommentRequest, opts ...grpc.CallOption) (*UpdateCommentResponse, error) {
	return invoke[UpdateCommentRequest, UpdateCommentResponse](ctx, c.cc, "UpdateComment", in, opts)
}

func (c *Client) DeleteComment(ctx context.Context, in *DeleteCommentRequest, opts ...grpc.CallOption) (*DeleteCommentResponse, error) {
	return invoke[DeleteCommentRequest, DeleteCommentResponse](ctx, c.cc, "DeleteComment", in, opts)
}

func (c *Client) ToggleLike(ctx context.Context, in *ToggleLikeRequest, opts ...grpc.CallOption) (*ToggleLikeResponse, error) {
	return invoke[ToggleLikeRequest, ToggleLikeResponse](ctx, c.cc, "ToggleLike", in, opts)
}
