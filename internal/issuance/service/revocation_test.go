package service

import (
	"context"

	"go.uber.org/mock/gomock"

	"github.com/admin-bn/company-controller/internal/agent"
	credmodels "github.com/admin-bn/company-controller/internal/credential/models"
	id "github.com/admin-bn/company-controller/pkg/domain"
	dErrors "github.com/admin-bn/company-controller/pkg/domain-errors"
	"github.com/admin-bn/company-controller/pkg/platform/sentinel"
)

var notFoundStoreErr = sentinel.ErrNotFound

func (s *IssuanceSuite) givenIssued(empID string) {
	s.Require().NoError(s.credentials.Save(s.ctx, &credmodels.Record{
		ID:                     id.EmployeeID(empID),
		CredentialRevocationID: "12",
		RevocationRegistryID:   "reg:4",
		CredentialExchangeID:   "X1",
		ConnectionID:           "C1",
		IssuanceDate:           s.now,
	}))
}

func (s *IssuanceSuite) issuedExists(empID string) bool {
	_, err := s.credentials.FindByID(s.ctx, id.EmployeeID(empID))
	return err == nil
}

func (s *IssuanceSuite) TestRevokeTwiceCallsAgentOnce() {
	s.givenIssued("E1")
	s.agent.EXPECT().RevokeCredential(gomock.Any(), &agent.RevocationRequest{
		CredentialRevocationID: "12",
		RevocationRegistryID:   "reg:4",
		Publish:                true,
	}).Return(nil).Times(1)

	s.Require().NoError(s.svc.Revoke(s.ctx, "E1"))
	s.False(s.issuedExists("E1"))

	s.NoError(s.svc.Revoke(s.ctx, "E1"))
}

func (s *IssuanceSuite) TestRevokeFailureKeepsRecord() {
	s.givenIssued("E1")
	s.agent.EXPECT().RevokeCredential(gomock.Any(), gomock.Any()).
		Return(agent.NewError(agent.CategoryOutage, "revoke_credential", "down", nil))

	err := s.svc.Revoke(s.ctx, "E1")
	s.True(dErrors.HasCode(err, dErrors.CodeAgentCallFailed))
	s.True(s.issuedExists("E1"))
}

func (s *IssuanceSuite) TestResendPreconditions() {
	s.Run("no issued credential", func() {
		err := s.svc.Resend(s.ctx, employee("E1"))
		s.ErrorIs(err, ErrIssuedCredentialNotFound)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("no connection with exactly this alias", func() {
		s.givenIssued("E1")
		s.agent.EXPECT().GetConnectionsByAlias(gomock.Any(), id.EmployeeID("E1")).
			Return([]agent.Connection{
				{ConnectionID: "C10", Alias: "E10"},
				{ConnectionID: "C11", Alias: "xE1"},
			}, nil)

		err := s.svc.Resend(s.ctx, employee("E1"))
		s.ErrorIs(err, ErrConnectionNotFound)
		s.True(s.issuedExists("E1"), "nothing is revoked without a connection")
	})
}

func (s *IssuanceSuite) TestResendRevokesAndOffersOnMatchedConnection() {
	s.givenIssued("E1")
	gomock.InOrder(
		s.agent.EXPECT().GetConnectionsByAlias(gomock.Any(), id.EmployeeID("E1")).
			Return([]agent.Connection{
				{ConnectionID: "C10", Alias: "E10"},
				{ConnectionID: "C1", Alias: "E1"},
				{ConnectionID: "C2", Alias: "E1"},
			}, nil),
		s.agent.EXPECT().RevokeCredential(gomock.Any(), gomock.Any()).Return(nil),
		s.agent.EXPECT().SendCredentialOffer(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, offer *agent.CredentialOffer) error {
				s.Equal(id.ConnectionID("C1"), offer.ConnectionID)
				s.True(s.employeeExists("E1"), "offer is built while the record exists")
				return nil
			}),
	)

	s.Require().NoError(s.svc.Resend(s.ctx, employee("E1")))
	s.False(s.employeeExists("E1"))
	s.False(s.issuedExists("E1"))
}

func (s *IssuanceSuite) TestResendContinuesWhenRevocationFails() {
	s.givenIssued("E1")
	s.agent.EXPECT().GetConnectionsByAlias(gomock.Any(), gomock.Any()).
		Return([]agent.Connection{{ConnectionID: "C1", Alias: "E1"}}, nil)
	s.agent.EXPECT().RevokeCredential(gomock.Any(), gomock.Any()).
		Return(agent.NewError(agent.CategoryRejected, "revoke_credential", "already revoked", nil))
	s.agent.EXPECT().SendCredentialOffer(gomock.Any(), gomock.Any()).Return(nil)

	s.NoError(s.svc.Resend(s.ctx, employee("E1")))
	s.True(s.issuedExists("E1"))
	s.False(s.employeeExists("E1"))
}

func (s *IssuanceSuite) TestResendRejectsExistingEmployeeBeforeRevoking() {
	s.givenIssued("E1")
	s.givenEmployee("E1")

	err := s.svc.Resend(s.ctx, employee("E1"))
	s.ErrorIs(err, ErrEmployeeAlreadyExists)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.True(s.issuedExists("E1"))
	s.True(s.employeeExists("E1"))
}

func (s *IssuanceSuite) TestResendRemovesScratchRecordWhenOfferFails() {
	s.givenIssued("E1")
	s.agent.EXPECT().GetConnectionsByAlias(gomock.Any(), gomock.Any()).
		Return([]agent.Connection{{ConnectionID: "C1", Alias: "E1"}}, nil)
	s.agent.EXPECT().RevokeCredential(gomock.Any(), gomock.Any()).Return(nil)
	s.agent.EXPECT().SendCredentialOffer(gomock.Any(), gomock.Any()).
		Return(agent.NewError(agent.CategoryOutage, "send_offer", "down", nil))

	err := s.svc.Resend(s.ctx, employee("E1"))
	s.True(dErrors.HasCode(err, dErrors.CodeAgentCallFailed))
	s.False(s.employeeExists("E1"))
}

func (s *IssuanceSuite) TestIssuedQueries() {
	s.givenIssued("E2")
	s.givenIssued("E1")

	all, err := s.svc.ListIssued(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(id.EmployeeID("E1"), all[0].ID)

	_, err = s.svc.GetIssued(s.ctx, "E3")
	s.ErrorIs(err, ErrIssuedCredentialNotFound)
}
