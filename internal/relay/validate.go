package relay

import (
	"errors"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Validate applies defaults to every optional field and reports each violated
// rule as one "field: message" line. An empty input value is a failure, never
// silently dropped: an upstream run with no input would burn a model call for
// nothing.
func (r *RunRequest) Validate() error {
	errs := &multierror.Error{ErrorFormat: fieldErrorFormat}

	if r.InputValue == "" {
		errs = multierror.Append(errs, errors.New("input_value: Message cannot be empty"))
	}
	if r.SessionID == "" {
		r.SessionID = DefaultSessionID
	}
	if r.OutputType == "" {
		r.OutputType = ChatType
	}
	if r.InputType == "" {
		r.InputType = ChatType
	}
	if len(r.Tweaks) == 0 {
		r.Tweaks = DefaultTweaks()
	}

	return errs.ErrorOrNil()
}

func fieldErrorFormat(errs []error) string {
	lines := make([]string, 0, len(errs))
	for _, err := range errs {
		lines = append(lines, err.Error())
	}
	return strings.Join(lines, "\n")
}
