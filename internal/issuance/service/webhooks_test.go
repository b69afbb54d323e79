package service

import (
	"context"
	"errors"

	"go.uber.org/mock/gomock"

	"github.com/admin-bn/company-controller/internal/agent"
	credmodels "github.com/admin-bn/company-controller/internal/credential/models"
	empstore "github.com/admin-bn/company-controller/internal/employee/store"
	"github.com/admin-bn/company-controller/internal/issuance/service/mocks"
	id "github.com/admin-bn/company-controller/pkg/domain"
	dErrors "github.com/admin-bn/company-controller/pkg/domain-errors"
	"github.com/admin-bn/company-controller/pkg/testutil"
)

func issuedEvent() CredentialEvent {
	return CredentialEvent{
		ConnectionID:           "C1",
		CredentialExchangeID:   "X1",
		State:                  "credential_issued",
		CredentialDefinitionID: credDefID,
	}
}

func exchangeRecord() *agent.CredentialExchangeRecord {
	return &agent.CredentialExchangeRecord{
		CredentialExchangeID:   "X1",
		ConnectionID:           "C1",
		CredentialRevocationID: "12",
		RevocationRegistryID:   "reg:4",
		State:                  "credential_issued",
	}
}

func notFound(op string) error {
	return agent.NewError(agent.CategoryNotFound, op, "record not found", nil)
}

func (s *IssuanceSuite) TestConnectionResponseTriggersOfferOnce() {
	s.givenEmployee("E1")
	s.agent.EXPECT().SendCredentialOffer(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, offer *agent.CredentialOffer) error {
			s.Equal(id.ConnectionID("C1"), offer.ConnectionID)
			return nil
		}).Times(1)

	err := s.svc.OnConnectionStateChanged(s.ctx, ConnectionEvent{Alias: "E1", ConnectionID: "C1", State: "response"})
	s.NoError(err)
}

func (s *IssuanceSuite) TestConnectionEventsThatAreDropped() {
	s.givenEmployee("E1")

	s.Run("other states are ignored", func() {
		for _, state := range []string{"invitation", "request", "active", "completed"} {
			s.NoError(s.svc.OnConnectionStateChanged(s.ctx, ConnectionEvent{Alias: "E1", ConnectionID: "C1", State: state}))
		}
	})

	s.Run("unknown employee is an anomaly, not an error", func() {
		s.NoError(s.svc.OnConnectionStateChanged(s.ctx, ConnectionEvent{Alias: "E404", ConnectionID: "C1", State: "response"}))
	})

	s.Run("missing alias", func() {
		s.NoError(s.svc.OnConnectionStateChanged(s.ctx, ConnectionEvent{ConnectionID: "C1", State: "response"}))
	})
}

func (s *IssuanceSuite) TestConnectionResponseAgentFailureIsReturned() {
	s.givenEmployee("E1")
	s.agent.EXPECT().SendCredentialOffer(gomock.Any(), gomock.Any()).
		Return(agent.NewError(agent.CategoryTimeout, "send_offer", "request timeout", nil))

	err := s.svc.OnConnectionStateChanged(s.ctx, ConnectionEvent{Alias: "E1", ConnectionID: "C1", State: "response"})
	s.True(dErrors.HasCode(err, dErrors.CodeAgentCallFailed))
}

func (s *IssuanceSuite) TestCredentialIssuedRecordsAndRetires() {
	s.givenEmployee("E1")
	gomock.InOrder(
		s.agent.EXPECT().GetConnection(gomock.Any(), id.ConnectionID("C1")).
			Return(&agent.Connection{ConnectionID: "C1", Alias: "E1", State: "active"}, nil),
		s.agent.EXPECT().GetCredentialExchangeRecord(gomock.Any(), id.CredentialExchangeID("X1")).
			Return(exchangeRecord(), nil),
		s.agent.EXPECT().DeleteCredentialExchangeRecord(gomock.Any(), id.CredentialExchangeID("X1")).
			Return(nil),
	)

	s.Require().NoError(s.svc.OnCredentialIssued(s.ctx, issuedEvent()))

	s.False(s.employeeExists("E1"))
	rec, err := s.credentials.FindByID(s.ctx, "E1")
	s.Require().NoError(err)
	s.Equal("12", rec.CredentialRevocationID)
	s.Equal("reg:4", rec.RevocationRegistryID)
	s.Equal(id.CredentialExchangeID("X1"), rec.CredentialExchangeID)
	s.Equal(s.now, rec.IssuanceDate)
}

func (s *IssuanceSuite) TestDuplicateCredentialIssuedIsNoOp() {
	s.givenEmployee("E1")
	s.agent.EXPECT().GetConnection(gomock.Any(), id.ConnectionID("C1")).
		Return(&agent.Connection{ConnectionID: "C1", Alias: "E1"}, nil).Times(2)
	s.agent.EXPECT().GetCredentialExchangeRecord(gomock.Any(), id.CredentialExchangeID("X1")).
		Return(exchangeRecord(), nil).Times(1)
	s.agent.EXPECT().DeleteCredentialExchangeRecord(gomock.Any(), id.CredentialExchangeID("X1")).
		Return(nil).Times(1)

	s.Require().NoError(s.svc.OnCredentialIssued(s.ctx, issuedEvent()))
	s.Require().NoError(s.svc.OnCredentialIssued(s.ctx, issuedEvent()))

	all, err := s.credentials.List(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *IssuanceSuite) TestCredentialIssuedForCleanedUpExchangeIsNoOp() {
	s.givenEmployee("E1")
	s.agent.EXPECT().GetConnection(gomock.Any(), id.ConnectionID("C1")).
		Return(&agent.Connection{ConnectionID: "C1", Alias: "E1"}, nil)
	s.agent.EXPECT().GetCredentialExchangeRecord(gomock.Any(), id.CredentialExchangeID("X1")).
		Return(nil, notFound("get_exchange_record"))

	s.NoError(s.svc.OnCredentialIssued(s.ctx, issuedEvent()))

	_, err := s.credentials.FindByID(s.ctx, "E1")
	s.Error(err)
	s.True(s.employeeExists("E1"))
}

func (s *IssuanceSuite) TestConcurrentDuplicateDeliveriesRecordOnce() {
	s.givenEmployee("E1")
	s.agent.EXPECT().GetConnection(gomock.Any(), id.ConnectionID("C1")).
		Return(&agent.Connection{ConnectionID: "C1", Alias: "E1"}, nil).Times(8)
	s.agent.EXPECT().GetCredentialExchangeRecord(gomock.Any(), id.CredentialExchangeID("X1")).
		Return(exchangeRecord(), nil).Times(1)
	s.agent.EXPECT().DeleteCredentialExchangeRecord(gomock.Any(), id.CredentialExchangeID("X1")).
		Return(nil).Times(1)

	result := testutil.RunConcurrent(8, func(int) error {
		return s.svc.OnCredentialIssued(s.ctx, issuedEvent())
	})

	s.Equal(int32(8), result.Successes)
	s.False(s.employeeExists("E1"))
}

func (s *IssuanceSuite) TestCredentialIssuedPersistFailureDeletesNothing() {
	s.givenEmployee("E1")
	creds := mocks.NewMockCredentialStore(s.ctrl)
	svc := New(s.employees, creds, s.agent, Config{})

	s.agent.EXPECT().GetConnection(gomock.Any(), id.ConnectionID("C1")).
		Return(&agent.Connection{ConnectionID: "C1", Alias: "E1"}, nil)
	s.agent.EXPECT().GetCredentialExchangeRecord(gomock.Any(), id.CredentialExchangeID("X1")).
		Return(exchangeRecord(), nil)
	creds.EXPECT().FindByID(gomock.Any(), id.EmployeeID("E1")).Return(nil, notFoundStoreErr)
	creds.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	err := svc.OnCredentialIssued(s.ctx, issuedEvent())
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.True(s.employeeExists("E1"))
}

func (s *IssuanceSuite) TestCredentialIssuedExchangeCleanupIsBestEffort() {
	s.givenEmployee("E1")
	s.agent.EXPECT().GetConnection(gomock.Any(), gomock.Any()).
		Return(&agent.Connection{ConnectionID: "C1", Alias: "E1"}, nil)
	s.agent.EXPECT().GetCredentialExchangeRecord(gomock.Any(), gomock.Any()).Return(exchangeRecord(), nil)
	s.agent.EXPECT().DeleteCredentialExchangeRecord(gomock.Any(), gomock.Any()).
		Return(agent.NewError(agent.CategoryOutage, "delete_exchange_record", "down", nil))

	s.NoError(s.svc.OnCredentialIssued(s.ctx, issuedEvent()))
	s.False(s.employeeExists("E1"))
}

func (s *IssuanceSuite) TestCredentialEventsThatAreDropped() {
	s.Run("other states are ignored", func() {
		ev := issuedEvent()
		ev.State = "offer_sent"
		s.NoError(s.svc.OnCredentialIssued(s.ctx, ev))
	})

	s.Run("unknown connection", func() {
		s.agent.EXPECT().GetConnection(gomock.Any(), id.ConnectionID("C1")).Return(nil, notFound("get_connection"))
		s.NoError(s.svc.OnCredentialIssued(s.ctx, issuedEvent()))
	})

	s.Run("connection lookup failure is returned for redelivery", func() {
		s.agent.EXPECT().GetConnection(gomock.Any(), id.ConnectionID("C1")).
			Return(nil, agent.NewError(agent.CategoryOutage, "get_connection", "down", nil))
		err := s.svc.OnCredentialIssued(s.ctx, issuedEvent())
		s.True(dErrors.HasCode(err, dErrors.CodeAgentCallFailed))
	})
}

func (s *IssuanceSuite) TestNewExchangeReplacesOlderRecord() {
	s.Require().NoError(s.credentials.Save(s.ctx, &credmodels.Record{
		ID: "E1", CredentialRevocationID: "1", RevocationRegistryID: "reg:1", CredentialExchangeID: "X0",
	}))
	s.agent.EXPECT().GetConnection(gomock.Any(), gomock.Any()).
		Return(&agent.Connection{ConnectionID: "C1", Alias: "E1"}, nil)
	s.agent.EXPECT().GetCredentialExchangeRecord(gomock.Any(), id.CredentialExchangeID("X1")).Return(exchangeRecord(), nil)
	s.agent.EXPECT().DeleteCredentialExchangeRecord(gomock.Any(), gomock.Any()).Return(nil)

	s.Require().NoError(s.svc.OnCredentialIssued(s.ctx, issuedEvent()))

	rec, err := s.credentials.FindByID(s.ctx, "E1")
	s.Require().NoError(err)
	s.Equal("12", rec.CredentialRevocationID)
}

// flakyDeleteStore fails the first Delete and behaves normally afterwards.
type flakyDeleteStore struct {
	*empstore.InMemoryStore
	failures int
}

func (f *flakyDeleteStore) Delete(ctx context.Context, employeeID id.EmployeeID) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("connection reset")
	}
	return f.InMemoryStore.Delete(ctx, employeeID)
}

func (s *IssuanceSuite) TestRedeliveryFinishesFailedRetire() {
	employees := &flakyDeleteStore{InMemoryStore: s.employees, failures: 1}
	svc := New(employees, s.credentials, s.agent, Config{CredentialDefinitionID: credDefID})
	s.givenEmployee("E1")

	s.agent.EXPECT().GetConnection(gomock.Any(), id.ConnectionID("C1")).
		Return(&agent.Connection{ConnectionID: "C1", Alias: "E1"}, nil).Times(3)
	s.agent.EXPECT().GetCredentialExchangeRecord(gomock.Any(), id.CredentialExchangeID("X1")).
		Return(exchangeRecord(), nil).Times(1)
	s.agent.EXPECT().DeleteCredentialExchangeRecord(gomock.Any(), id.CredentialExchangeID("X1")).
		Return(nil).Times(2)

	err := svc.OnCredentialIssued(s.ctx, issuedEvent())
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.True(s.employeeExists("E1"))

	s.Require().NoError(svc.OnCredentialIssued(s.ctx, issuedEvent()))
	s.False(s.employeeExists("E1"))
	rec, err := s.credentials.FindByID(s.ctx, "E1")
	s.Require().NoError(err)
	s.Equal(id.CredentialExchangeID("X1"), rec.CredentialExchangeID)

	s.Require().NoError(svc.OnCredentialIssued(s.ctx, issuedEvent()))
	all, err := s.credentials.List(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *IssuanceSuite) TestLateRedeliveryForRevokedExchangeIsIgnored() {
	revoked := exchangeRecord()
	revoked.State = "credential_revoked"
	s.agent.EXPECT().GetConnection(gomock.Any(), id.ConnectionID("C1")).
		Return(&agent.Connection{ConnectionID: "C1", Alias: "E1"}, nil)
	s.agent.EXPECT().GetCredentialExchangeRecord(gomock.Any(), id.CredentialExchangeID("X1")).
		Return(revoked, nil)

	s.NoError(s.svc.OnCredentialIssued(s.ctx, issuedEvent()))

	_, err := s.credentials.FindByID(s.ctx, "E1")
	s.ErrorIs(err, notFoundStoreErr)
}
