package rpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/decide-lab/launch-interceptor/internal/decide"
	"github.com/decide-lab/launch-interceptor/internal/input"
	"github.com/decide-lab/launch-interceptor/internal/params"
)

// #region types
// Reply is one remote decision.
type Reply struct {
	Result decide.Result
	RunID  string // empty when the server keeps no decision log
}

// BatchReply is one entry of a remote batch; exactly one of Reply and Err
// is meaningful.
type BatchReply struct {
	Reply
	Err error
}

// EntryError is a batch entry the server rejected. It matches
// params.ErrInvalidParameter when Field is set.
type EntryError struct {
	Field   string
	Message string
}

func (e *EntryError) Error() string { return e.Message }

func (e *EntryError) Is(target error) bool {
	return e.Field != "" && target == params.ErrInvalidParameter
}

// #endregion types

// #region client-struct
// Client calls DecideService.
type Client struct {
	conn *grpc.ClientConn
	cc   grpc.ClientConnInterface
}

// NewClient connects to a DecideService at addr.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, cc: conn}, nil
}

// NewClientWithConn creates a Client over an existing connection. The caller
// keeps ownership of cc.
func NewClientWithConn(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Close shuts down a connection opened by NewClient.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion client-struct

// #region evaluate
// Evaluate sends one input and returns the remote decision.
func (c *Client) Evaluate(ctx context.Context, in decide.Input) (Reply, error) {
	req, err := toStruct(input.FromInput(in))
	if err != nil {
		return Reply{}, fmt.Errorf("evaluate rpc: %w", err)
	}
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, EvaluateMethod, req, resp); err != nil {
		return Reply{}, fmt.Errorf("evaluate rpc: %w", err)
	}

	var er evaluateReply
	if err := fromStruct(resp, &er); err != nil {
		return Reply{}, fmt.Errorf("evaluate reply: %w", err)
	}
	res, err := er.ToResult()
	if err != nil {
		return Reply{}, fmt.Errorf("evaluate reply: %w", err)
	}
	return Reply{Result: res, RunID: er.RunID}, nil
}

// EvaluateBatch sends inputs as one batch. Replies keep the order of inputs.
func (c *Client) EvaluateBatch(ctx context.Context, inputs []decide.Input) ([]BatchReply, error) {
	breq := batchRequest{Inputs: make([]input.Document, len(inputs))}
	for i, in := range inputs {
		breq.Inputs[i] = input.FromInput(in)
	}
	req, err := toStruct(breq)
	if err != nil {
		return nil, fmt.Errorf("evaluate batch rpc: %w", err)
	}
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, EvaluateBatchMethod, req, resp); err != nil {
		return nil, fmt.Errorf("evaluate batch rpc: %w", err)
	}

	var br batchReply
	if err := fromStruct(resp, &br); err != nil {
		return nil, fmt.Errorf("evaluate batch reply: %w", err)
	}
	if len(br.Outcomes) != len(inputs) {
		return nil, fmt.Errorf("evaluate batch reply: %d outcomes for %d inputs", len(br.Outcomes), len(inputs))
	}

	out := make([]BatchReply, len(br.Outcomes))
	for i, o := range br.Outcomes {
		if o.Result == nil {
			out[i].Err = &EntryError{Field: o.Field, Message: o.Error}
			continue
		}
		res, err := o.Result.ToResult()
		if err != nil {
			return nil, fmt.Errorf("evaluate batch reply %d: %w", i, err)
		}
		out[i].Reply = Reply{Result: res, RunID: o.RunID}
	}
	return out, nil
}

// #endregion evaluate

// #region health
// WaitForHealth blocks until the health service reports DecideService as
// SERVING or ctx ends.
func (c *Client) WaitForHealth(ctx context.Context) error {
	hc := healthpb.NewHealthClient(c.cc)
	backoff := 50 * time.Millisecond
	for {
		callCtx, cancel := context.WithTimeout(ctx, time.Second)
		resp, err := hc.Check(callCtx, &healthpb.HealthCheckRequest{Service: ServiceName})
		cancel()
		if err == nil && resp.GetStatus() == healthpb.HealthCheckResponse_SERVING {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for health: %w", errors.Join(ctx.Err(), err))
		case <-time.After(backoff):
		}
		if backoff < time.Second {
			backoff = min(2*backoff, time.Second)
		}
	}
}

// #endregion health
