// Package errs provides the error taxonomy of the restaurant service.
//
// Every error type follows the same shape: a sentinel variable (ErrXxx), a struct carrying
// the details, constructors with and without a cause, an Error method producing a
// single-line message and an Unwrap method returning the sentinel, so callers classify
// failures with errors.Is:
//   - ObjectNotFoundError: an order, table or product does not exist
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: validation failures,
//     rejected before anything is mutated
//   - ConflictError: a shared resource (table, unique key) is taken
//   - InvalidStateError: the entity lifecycle forbids the operation (e.g. editing a delivered order)
//   - ErrNotConnected: printing without a live printer connection
//   - DeviceIOError: printer connect or write failure
package errs
