// Package middleware provides ready-made redux middleware: structured
// logging, expression guards, activity events and an action recorder.
package middleware
