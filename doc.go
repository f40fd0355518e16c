// Package selmaGate is the session and authorization gate of the City of
// Selma admin dashboard.
//
// A [Gate] answers three questions for the client scope carried in a
// context: does the stored session grant a feature ([Gate.HasPermission]),
// may the client navigate to a protected location ([Gate.CheckNavigation]),
// and has the client been idle long enough that its session must be
// destroyed ([Gate.WatchIdle], [Gate.Touch]).
//
// The session record is written by the login flow through [Gate.Establish]
// and read fresh on every check. Gate decisions never return errors: any
// failure to read or decode the record denies.
//
// # Architecture boundaries
//
// selmaGate is the public surface. Record decoding lives in session, grant
// evaluation in permission, token claim inspection in jwt and the idle state
// machine in idle. Audit dispatch and log attributes live under internal/.
//
// Gate methods are safe for concurrent use after [Builder.Build].
package selmaGate
