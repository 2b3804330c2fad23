package responder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"
)

// Connect procedure served by NewHandler and called by ConnectClient.
// Payloads are structpb.Struct values, so no generated code is needed on
// either side.
const (
	ServiceName      = "transcript.responder.v1.ResponderService"
	RespondProcedure = "/" + ServiceName + "/Respond"
)

// Payload field names.
const (
	fieldText              = "text"
	fieldAttachmentSummary = "attachment_summary"
	fieldAttachmentCount   = "attachment_count"
)

// ConnectClient is a Responder backed by a remote Connect service.
type ConnectClient struct {
	client *connect.Client[structpb.Struct, structpb.Struct]
}

// NewConnectClient creates a client for the responder service at baseURL
// (for example "http://localhost:8089"). A nil httpClient uses
// http.DefaultClient.
func NewConnectClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ConnectClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	url := strings.TrimSuffix(baseURL, "/") + RespondProcedure
	return &ConnectClient{
		client: connect.NewClient[structpb.Struct, structpb.Struct](httpClient, url, opts...),
	}
}

func (c *ConnectClient) Respond(ctx context.Context, req Request) (Response, error) {
	body, err := encodeRequest(req)
	if err != nil {
		return Response{}, fmt.Errorf("%w: encode request: %w", ErrFailed, err)
	}

	res, err := c.client.CallUnary(ctx, connect.NewRequest(body))
	if err != nil {
		return Response{}, fromConnectError(err)
	}

	return decodeResponse(res.Msg), nil
}

// NewHandler exposes r as a Connect service. The returned path is the
// procedure to mount the handler on.
func NewHandler(r Responder, opts ...connect.HandlerOption) (string, http.Handler) {
	handler := connect.NewUnaryHandler(
		RespondProcedure,
		func(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
			resp, err := r.Respond(ctx, decodeRequest(req.Msg))
			if err != nil {
				return nil, toConnectError(err)
			}

			body, err := structpb.NewStruct(map[string]any{fieldText: resp.Text})
			if err != nil {
				return nil, connect.NewError(connect.CodeInternal, err)
			}
			return connect.NewResponse(body), nil
		},
		opts...,
	)
	return RespondProcedure, handler
}

func encodeRequest(req Request) (*structpb.Struct, error) {
	fields := map[string]any{fieldText: req.Text}
	if req.AttachmentSummary != "" {
		fields[fieldAttachmentSummary] = req.AttachmentSummary
	}
	if req.AttachmentCount > 0 {
		fields[fieldAttachmentCount] = req.AttachmentCount
	}
	return structpb.NewStruct(fields)
}

func decodeRequest(s *structpb.Struct) Request {
	fields := s.GetFields()
	return Request{
		Text:              fields[fieldText].GetStringValue(),
		AttachmentSummary: fields[fieldAttachmentSummary].GetStringValue(),
		AttachmentCount:   int(fields[fieldAttachmentCount].GetNumberValue()),
	}
}

func decodeResponse(s *structpb.Struct) Response {
	return Response{Text: s.GetFields()[fieldText].GetStringValue()}
}

func toConnectError(err error) error {
	err = Classify(err)
	if errors.Is(err, ErrTimeout) {
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}
	return connect.NewError(connect.CodeUnavailable, err)
}

func fromConnectError(err error) error {
	if connect.CodeOf(err) == connect.CodeDeadlineExceeded || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrFailed, err)
}
