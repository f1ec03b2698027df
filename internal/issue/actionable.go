// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

type (
	// ActionableError is a user-facing failure: the operation that failed,
	// the root, package or file it concerned, and what the user can do
	// about it. A non-zero Issue points at a catalog page.
	ActionableError struct {
		// Operation is a verb phrase such as "register package root".
		Operation   string
		Resource    string
		Suggestions []string
		Issue       Id
		Cause       error
	}

	// ErrorContext accumulates the fields of an ActionableError. Its methods
	// return modified copies, so a partially filled context can be shared:
	//
	//	rootErr := issue.NewErrorContext().
	//		WithOperation("register package root").
	//		WithResource(string(path))
	//
	//	return rootErr.WithIssue(issue.RootNotDirectoryId).Wrap(err).BuildError()
	ErrorContext struct {
		err ActionableError
	}
)

// NewErrorContext returns an empty context.
func NewErrorContext() ErrorContext { return ErrorContext{} }

func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *ActionableError) Unwrap() error { return e.Cause }

// HasSuggestions reports whether any remediation hint is attached.
func (e *ActionableError) HasSuggestions() bool { return len(e.Suggestions) > 0 }

// Format renders the message followed by one bullet per suggestion. In
// verbose mode the numbered cause chain is appended.
func (e *ActionableError) Format(verbose bool) string {
	var b strings.Builder
	b.WriteString(e.Error())

	if e.HasSuggestions() {
		b.WriteString("\n")
		for _, s := range e.Suggestions {
			b.WriteString("\n  • " + s)
		}
	}

	if verbose && e.Cause != nil {
		b.WriteString("\n\nError chain:")
		for i, msg := range Chain(e.Cause) {
			fmt.Fprintf(&b, "\n  %d. %s", i+1, msg)
		}
	}
	return b.String()
}

// Chain lists the messages of err and every error beneath it. For joined
// errors and typed errors that unwrap to a sentinel plus a cause, the last
// branch is followed since it carries the cause.
func Chain(err error) []string {
	var msgs []string
	for err != nil {
		msgs = append(msgs, err.Error())
		if multi, ok := err.(interface{ Unwrap() []error }); ok {
			branches := multi.Unwrap()
			if len(branches) == 0 {
				break
			}
			err = branches[len(branches)-1]
			continue
		}
		err = errors.Unwrap(err)
	}
	return msgs
}

func (c ErrorContext) WithOperation(op string) ErrorContext {
	c.err.Operation = op
	return c
}

func (c ErrorContext) WithResource(res string) ErrorContext {
	c.err.Resource = res
	return c
}

// WithSuggestion appends a hint; call it once per line of advice.
func (c ErrorContext) WithSuggestion(s string) ErrorContext {
	c.err.Suggestions = append(slices.Clip(c.err.Suggestions), s)
	return c
}

func (c ErrorContext) WithIssue(id Id) ErrorContext {
	c.err.Issue = id
	return c
}

// Wrap sets the underlying cause.
func (c ErrorContext) Wrap(err error) ErrorContext {
	c.err.Cause = err
	return c
}

// Build returns the accumulated error, or nil when no operation was set.
func (c ErrorContext) Build() *ActionableError {
	if c.err.Operation == "" {
		return nil
	}
	ae := c.err
	ae.Suggestions = slices.Clone(c.err.Suggestions)
	return &ae
}

// BuildError is Build typed as error, keeping a nil result a nil interface.
func (c ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}
