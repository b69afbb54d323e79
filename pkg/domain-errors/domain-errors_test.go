package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorString() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeNotFound, Message: "employee not found"}
		s.Equal("employee not found", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeAgentCallFailed}
		s.Equal("agent_call_failed", err.Error())
	})
}

func (s *DomainErrorsSuite) TestIsMatchesByCode() {
	s.Run("same code matches", func() {
		s.True(errors.Is(New(CodeConflict, "a"), &Error{Code: CodeConflict}))
	})

	s.Run("different code does not match", func() {
		s.False(errors.Is(New(CodeConflict, "a"), &Error{Code: CodeNotFound}))
	})

	s.Run("plain error target does not match", func() {
		s.False((&Error{Code: CodeNotFound}).Is(errors.New("not found")))
	})
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("keeps original domain code", func() {
		wrapped := Wrap(New(CodeNotFound, "employee not found"), CodeInternal, "resend failed")
		s.True(HasCode(wrapped, CodeNotFound))
		s.Equal("resend failed", wrapped.Error())
	})

	s.Run("applies code to foreign errors", func() {
		cause := errors.New("dial tcp: refused")
		wrapped := Wrap(cause, CodeAgentCallFailed, "agent unreachable")
		s.True(HasCode(wrapped, CodeAgentCallFailed))
		s.ErrorIs(wrapped, cause)
	})
}

func (s *DomainErrorsSuite) TestHasCodeAndCodeOf() {
	s.Run("finds code through fmt wrapping", func() {
		err := fmt.Errorf("outer: %w", New(CodeAgentCallFailed, "revoke failed"))
		s.True(HasCode(err, CodeAgentCallFailed))
		s.Equal(CodeAgentCallFailed, CodeOf(err))
	})

	s.Run("nil and foreign errors", func() {
		s.False(HasCode(nil, CodeNotFound))
		s.Equal(CodeInternal, CodeOf(errors.New("boom")))
	})
}
