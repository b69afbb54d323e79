package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type BreakerSuite struct {
	suite.Suite
	now time.Time
}

func TestBreakerSuite(t *testing.T) {
	suite.Run(t, new(BreakerSuite))
}

func (s *BreakerSuite) SetupTest() {
	s.now = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (s *BreakerSuite) breaker() *Breaker {
	return New("agent",
		WithFailureThreshold(3),
		WithCooldown(time.Second),
		WithClock(func() time.Time { return s.now }),
	)
}

func (s *BreakerSuite) TestOpensAfterConsecutiveFailures() {
	b := s.breaker()
	s.False(b.RecordFailure().Opened)
	s.False(b.RecordFailure().Opened)
	s.True(b.RecordFailure().Opened)
	s.True(b.IsOpen())
	s.False(b.Allow())
}

func (s *BreakerSuite) TestSuccessResetsFailureCount() {
	b := s.breaker()
	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	s.Equal(StateClosed, b.State())
}

func (s *BreakerSuite) TestProbeAfterCooldownClosesOnSuccess() {
	b := s.breaker()
	for range 3 {
		b.RecordFailure()
	}

	s.now = s.now.Add(999 * time.Millisecond)
	s.False(b.Allow())

	s.now = s.now.Add(time.Millisecond)
	s.True(b.Allow())
	s.False(b.Allow(), "only one probe per cooldown")

	s.True(b.RecordSuccess().Closed)
	s.True(b.Allow())
}

func (s *BreakerSuite) TestFailedProbeKeepsCircuitOpen() {
	b := s.breaker()
	for range 3 {
		b.RecordFailure()
	}
	s.now = s.now.Add(time.Second)
	s.True(b.Allow())
	b.RecordFailure()

	s.True(b.IsOpen())
	s.False(b.Allow())
}
