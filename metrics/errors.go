package metrics

import (
	"errors"
	"fmt"
)

var (
	ErrMissingColumn   = errors.New("missing column")
	ErrNoMatch         = errors.New("no match")
	ErrMalformedValue  = errors.New("malformed value")
	ErrMalformedPeriod = errors.New("malformed period")
)

type FailureKind int

const (
	KindMissingColumn FailureKind = iota + 1
	KindNoMatch
	KindMalformedValue
	KindMalformedPeriod
)

func (k FailureKind) sentinel() error {
	switch k {
	case KindMissingColumn:
		return ErrMissingColumn
	case KindNoMatch:
		return ErrNoMatch
	case KindMalformedValue:
		return ErrMalformedValue
	case KindMalformedPeriod:
		return ErrMalformedPeriod
	}
	return nil
}

// Failure is a named, user-correctable failure of the pipeline.
// Subject is the column, entity or raw value the failure is about.
type Failure struct {
	Kind    FailureKind
	Subject string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%v: %q: %v", f.Kind.sentinel(), f.Subject, f.Err)
	}
	return fmt.Sprintf("%v: %q", f.Kind.sentinel(), f.Subject)
}

func (f *Failure) Unwrap() []error {
	if f.Err == nil {
		return []error{f.Kind.sentinel()}
	}
	return []error{f.Kind.sentinel(), f.Err}
}

func MissingColumn(name string) *Failure {
	return &Failure{Kind: KindMissingColumn, Subject: name}
}

func NoMatch(subject string) *Failure {
	return &Failure{Kind: KindNoMatch, Subject: subject}
}

// UserMessage turns a pipeline error into the short message shown to the user.
func UserMessage(err error) string {
	var f *Failure
	if !errors.As(err, &f) {
		return fmt.Sprintf("Something went wrong: %v", err)
	}
	switch f.Kind {
	case KindMissingColumn:
		return fmt.Sprintf("Missing column: '%s'", f.Subject)
	case KindNoMatch:
		return fmt.Sprintf("'%s' is not available.", f.Subject)
	case KindMalformedValue:
		return fmt.Sprintf("Cannot read value '%s' as a number.", f.Subject)
	case KindMalformedPeriod:
		return fmt.Sprintf("'%s' is not a period like 'Q1 2024'.", f.Subject)
	}
	return f.Error()
}
