package errors

import "google.golang.org/grpc/codes"

// Code classifies an error independently of the transport that carries it
type Code string

const (
	CodeOK                 Code = "OK"
	CodeCanceled           Code = "CANCELED"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeDeadlineExceeded   Code = "DEADLINE_EXCEEDED"
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeResourceExhausted  Code = "RESOURCE_EXHAUSTED"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeAborted            Code = "ABORTED"
	CodeInternal           Code = "INTERNAL"
	CodeUnavailable        Code = "UNAVAILABLE"
	CodeDataLoss           Code = "DATA_LOSS"
)

type codeInfo struct {
	grpc codes.Code
	// retryable marks codes where the same request may succeed unchanged,
	// such as a busy story session or an unreachable collaborator.
	retryable bool
}

var codeTable = map[Code]codeInfo{
	CodeOK:                 {grpc: codes.OK},
	CodeCanceled:           {grpc: codes.Canceled},
	CodeInvalidArgument:    {grpc: codes.InvalidArgument},
	CodeDeadlineExceeded:   {grpc: codes.DeadlineExceeded, retryable: true},
	CodeNotFound:           {grpc: codes.NotFound},
	CodeAlreadyExists:      {grpc: codes.AlreadyExists},
	CodeResourceExhausted:  {grpc: codes.ResourceExhausted},
	CodeFailedPrecondition: {grpc: codes.FailedPrecondition},
	CodeAborted:            {grpc: codes.Aborted, retryable: true},
	CodeInternal:           {grpc: codes.Internal},
	CodeUnavailable:        {grpc: codes.Unavailable, retryable: true},
	CodeDataLoss:           {grpc: codes.DataLoss},
}

var grpcTable = func() map[codes.Code]Code {
	m := make(map[codes.Code]Code, len(codeTable))
	for code, info := range codeTable {
		m[info.grpc] = code
	}
	return m
}()

func (c Code) String() string {
	return string(c)
}

// GRPCCode returns the status code the handler sends for c.
// Unknown codes map to codes.Unknown.
func (c Code) GRPCCode() codes.Code {
	if info, ok := codeTable[c]; ok {
		return info.grpc
	}
	return codes.Unknown
}

// Retryable reports whether a caller may repeat the request unchanged
func (c Code) Retryable() bool {
	return codeTable[c].retryable
}

// codeFromGRPC maps a status code back, falling back to CodeInternal
// for codes this service never sends.
func codeFromGRPC(c codes.Code) Code {
	if code, ok := grpcTable[c]; ok {
		return code
	}
	return CodeInternal
}
