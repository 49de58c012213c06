/*
Package errors implements custom error interfaces for quickex.

The idea is to reuse as many errors from this package as possible and define
custom package errors when absolutely necessary. Extensions register their own
root errors with Register(code, description), x/escrow is the main example.

For reusing errors - use ErrXyz.New and ErrXyz.Newf, or Wrap an existing error.
Code stands for the registered error code, which allows to distinguish types of
errors on the client side and act accordingly. Report and Redact decide what
of an error may be shown outside of the node.

Stacktraces are attached on the first Wrap. Once you have an error, you can use
`fmt.Printf/Sprintf` to get more context for the error
	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors
