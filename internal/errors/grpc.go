package errors

import (
	"fmt"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const errorInfoDomain = "pokestory.v1"

// ToGRPCError converts err into a status error for the wire.
// Field violations travel as a BadRequest detail and remaining metadata as
// an ErrorInfo detail. Errors that already carry a status pass through.
func ToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	e, ok := asError(err)
	if !ok {
		return status.Error(codes.Internal, err.Error())
	}

	st := status.New(e.Code.GRPCCode(), e.Message)
	if br := badRequest(e); br != nil {
		if detailed, detailErr := st.WithDetails(br); detailErr == nil {
			st = detailed
		}
	}
	if info := errorInfo(e); info != nil {
		if detailed, detailErr := st.WithDetails(info); detailErr == nil {
			st = detailed
		}
	}
	return st.Err()
}

// FromGRPCError is the client-side inverse of ToGRPCError.
// Non-status errors are returned unchanged.
func FromGRPCError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	e := New(codeFromGRPC(st.Code()), st.Message())
	for _, detail := range st.Details() {
		switch d := detail.(type) {
		case *errdetails.ErrorInfo:
			for k, v := range d.GetMetadata() {
				e.WithMeta(k, v)
			}
		case *errdetails.BadRequest:
			violations := make([]FieldViolation, 0, len(d.GetFieldViolations()))
			for _, fv := range d.GetFieldViolations() {
				violations = append(violations, FieldViolation{Field: fv.GetField(), Description: fv.GetDescription()})
			}
			e.WithMeta(violationsKey, violations)
		}
	}
	return e
}

func badRequest(e *Error) *errdetails.BadRequest {
	violations, _ := e.Meta[violationsKey].([]FieldViolation)
	if len(violations) == 0 {
		return nil
	}
	br := &errdetails.BadRequest{}
	for _, v := range violations {
		br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       v.Field,
			Description: v.Description,
		})
	}
	return br
}

func errorInfo(e *Error) *errdetails.ErrorInfo {
	md := make(map[string]string, len(e.Meta))
	for k, v := range e.Meta {
		if k == violationsKey {
			continue
		}
		md[k] = fmt.Sprint(v)
	}
	if len(md) == 0 {
		return nil
	}
	return &errdetails.ErrorInfo{
		Reason:   e.Code.String(),
		Domain:   errorInfoDomain,
		Metadata: md,
	}
}
