// Package errors provides structured errors for widgetkit.
//
// Every error carries a code from a small registry, a category, a short
// message and, when raised by a component, the component and operation that
// failed. Errors wrap their cause so errors.Is and errors.As keep working.
//
// # Error Categories
//
//   - lifecycle: a connect/disconnect hook failed
//   - update: a read or write step of an update pass failed
//   - watch: a computed watch callback failed
//   - definition: an option set is malformed
//   - config: widgetd configuration could not be loaded or is invalid
//
// # Usage
//
//	err := errors.New("W001").
//	    WithComponent("accordion").
//	    WithOp("beforeConnect").
//	    Wrap(cause)
//
//	fmt.Println(err.Format())
package errors
