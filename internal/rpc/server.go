package rpc

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/decide-lab/launch-interceptor/internal/audit"
	"github.com/decide-lab/launch-interceptor/internal/decide"
	"github.com/decide-lab/launch-interceptor/internal/input"
	"github.com/decide-lab/launch-interceptor/internal/metrics"
	"github.com/decide-lab/launch-interceptor/internal/params"
)

// #region server-struct
// DecisionLog stores evaluated decisions. *audit.Store satisfies it.
type DecisionLog interface {
	Record(ctx context.Context, e audit.Entry) (audit.Entry, error)
}

// Server implements DecideService on top of the decision engine.
type Server struct {
	logger     *zap.Logger
	log        DecisionLog
	metrics    *metrics.Recorder
	batchLimit int
}

// Option configures a Server.
type Option func(*Server)

// WithDecisionLog records every successful decision in l.
func WithDecisionLog(l DecisionLog) Option {
	return func(s *Server) { s.log = l }
}

// WithMetrics reports decisions to m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Server) { s.metrics = m }
}

// WithBatchLimit bounds concurrent evaluations within one batch.
func WithBatchLimit(n int) Option {
	return func(s *Server) { s.batchLimit = n }
}

// NewServer builds a Server. A nil logger discards logs.
func NewServer(logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// #endregion server-struct

// #region register
// NewGRPCServer returns a grpc.Server that logs every unary call.
func NewGRPCServer(logger *zap.Logger, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(UnaryLogger(logger)))
	return grpc.NewServer(opts...)
}

// Register mounts DecideService and the standard health service on gs and
// marks both SERVING. The returned health server flips to NOT_SERVING on
// Shutdown.
func Register(gs *grpc.Server, srv *Server) *health.Server {
	gs.RegisterService(&ServiceDesc, srv)
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)
	return hs
}

// UnaryLogger logs method, status code and latency of each call.
func UnaryLogger(logger *zap.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("elapsed", time.Since(start)),
		}
		if err != nil {
			logger.Warn("rpc failed", append(fields, zap.Error(err))...)
		} else {
			logger.Info("rpc", fields...)
		}
		return resp, err
	}
}

// #endregion register

// #region evaluate
// Evaluate decodes one input document and returns its decision.
func (s *Server) Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var doc input.Document
	if err := fromStruct(req, &doc); err != nil {
		s.metrics.Invalid()
		return nil, status.Errorf(codes.InvalidArgument, "decode input: %v", err)
	}
	in, err := doc.ToInput()
	if err != nil {
		s.metrics.Invalid()
		return nil, status.Errorf(codes.InvalidArgument, "input: %v", err)
	}

	start := time.Now()
	res, err := decide.EvaluateContext(ctx, in)
	if err != nil {
		return nil, s.statusFor(err)
	}
	s.metrics.Observe(res, time.Since(start))

	reply := evaluateReply{ResultDocument: input.FromResult(res)}
	reply.RunID = s.record(ctx, in, res)
	s.logger.Debug("decision",
		zap.String("run_id", reply.RunID),
		zap.Bool("launch", res.Launch),
		zap.Int("numpoints", len(in.Points)),
	)
	return s.encode(reply)
}

// EvaluateBatch decides every entry of {"inputs": [...]}. Entries fail
// independently; the call itself fails only on a malformed request or when
// the caller goes away.
func (s *Server) EvaluateBatch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var breq batchRequest
	if err := fromStruct(req, &breq); err != nil {
		s.metrics.Invalid()
		return nil, status.Errorf(codes.InvalidArgument, "decode batch: %v", err)
	}
	if len(breq.Inputs) == 0 {
		return nil, status.Error(codes.InvalidArgument, "decode batch: no inputs")
	}

	reply := batchReply{Outcomes: make([]batchOutcome, len(breq.Inputs))}
	var (
		valid []decide.Input
		index []int
	)
	for i, doc := range breq.Inputs {
		in, err := doc.ToInput()
		if err != nil {
			s.metrics.Invalid()
			reply.Outcomes[i] = batchOutcome{Error: err.Error()}
			continue
		}
		valid = append(valid, in)
		index = append(index, i)
	}

	start := time.Now()
	outcomes, err := decide.EvaluateBatch(ctx, valid, s.batchLimit)
	if err != nil {
		return nil, s.statusFor(err)
	}
	var perEntry time.Duration
	if len(valid) > 0 {
		perEntry = time.Since(start) / time.Duration(len(valid))
	}

	for k, o := range outcomes {
		i := index[k]
		if o.Err != nil {
			s.metrics.Invalid()
			out := batchOutcome{Error: o.Err.Error()}
			var ipe *params.InvalidParameterError
			if errors.As(o.Err, &ipe) {
				out.Field = ipe.Field
			}
			reply.Outcomes[i] = out
			continue
		}
		s.metrics.Observe(o.Result, perEntry)
		doc := input.FromResult(o.Result)
		reply.Outcomes[i] = batchOutcome{Result: &doc, RunID: s.record(ctx, valid[k], o.Result)}
	}
	s.logger.Debug("batch", zap.Int("entries", len(breq.Inputs)), zap.Int("evaluated", len(valid)))
	return s.encode(reply)
}

// #endregion evaluate

// #region helpers
// record logs the decision and returns its run id. Failures are logged and
// never fail the call.
func (s *Server) record(ctx context.Context, in decide.Input, res decide.Result) string {
	if s.log == nil {
		return ""
	}
	entry, err := audit.NewEntry(audit.SourceRPC, in, res)
	if err != nil {
		s.logger.Warn("audit entry", zap.Error(err))
		return ""
	}
	stored, err := s.log.Record(context.WithoutCancel(ctx), entry)
	if err != nil {
		s.logger.Warn("audit record", zap.Error(err))
		return ""
	}
	return stored.RunID
}

func (s *Server) statusFor(err error) error {
	var ipe *params.InvalidParameterError
	switch {
	case errors.As(err, &ipe):
		s.metrics.Invalid()
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		s.logger.Error("evaluate", zap.Error(err))
		return status.Error(codes.Internal, err.Error())
	}
}

func (s *Server) encode(v any) (*structpb.Struct, error) {
	out, err := toStruct(v)
	if err != nil {
		s.logger.Error("encode reply", zap.Error(err))
		return nil, status.Errorf(codes.Internal, "encode reply: %v", err)
	}
	return out, nil
}

// #endregion helpers
