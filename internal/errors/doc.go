// Package errors provides the coded error type used across pokestory-api.
//
// Every layer returns *Error values carrying a Code. Repositories and clients
// create them, orchestrators wrap them with context, and the gRPC handler
// converts them once at the edge with ToGRPCError.
//
// Creating errors:
//
//	err := errors.NotFoundf("companion %s not found", id)
//	err := errors.ResourceExhausted("roster is full")
//
// Wrapping keeps the original code:
//
//	if err := repo.Save(ctx, input); err != nil {
//	    return nil, errors.Wrap(err, "failed to save roster")
//	}
//
// Checking:
//
//	if errors.IsNotFound(err) {
//	    // ...
//	}
//
// Collecting field failures:
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("player_id", input.PlayerID, vb)
//	errors.ValidateRange("step", input.Step, 1, 10, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
//
// Validation failures reach gRPC clients as a BadRequest detail and come back
// through FromGRPCError, so GetViolations works on both sides. IsRetryable
// marks the codes (Aborted, Unavailable, DeadlineExceeded) where repeating
// the same request is reasonable.
package errors
