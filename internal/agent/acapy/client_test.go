package acapy

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/admin-bn/company-controller/internal/agent"
	id "github.com/admin-bn/company-controller/pkg/domain"
	"github.com/admin-bn/company-controller/pkg/platform/circuit"
)

type ClientSuite struct {
	suite.Suite
	ctx     context.Context
	server  *httptest.Server
	handler http.HandlerFunc
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.ctx = context.Background()
	s.handler = func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.handler(w, r)
	}))
}

func (s *ClientSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientSuite) client(opts ...Option) *Client {
	return New(Config{BaseURL: s.server.URL + "/", APIKey: "secret", Timeout: time.Second}, opts...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *ClientSuite) TestCreateInvitation() {
	s.Run("sends alias and empty body with api key", func() {
		s.handler = func(w http.ResponseWriter, r *http.Request) {
			s.Equal(http.MethodPost, r.Method)
			s.Equal("/connections/create-invitation", r.URL.Path)
			s.Equal("emp-1", r.URL.Query().Get("alias"))
			s.Equal("secret", r.Header.Get(APIKeyHeader))
			body, _ := io.ReadAll(r.Body)
			s.JSONEq(`{}`, string(body))
			writeJSON(w, http.StatusOK, map[string]string{
				"connection_id":  "conn-1",
				"invitation_url": "http://agent/?c_i=abc",
				"alias":          "emp-1",
			})
		}

		inv, err := s.client().CreateInvitation(s.ctx, id.EmployeeID("emp-1"))
		s.Require().NoError(err)
		s.Equal(id.ConnectionID("conn-1"), inv.ConnectionID)
		s.Equal("http://agent/?c_i=abc", inv.URL)
	})

	s.Run("missing url is bad data", func() {
		s.handler = func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"connection_id": "conn-1"})
		}

		_, err := s.client().CreateInvitation(s.ctx, id.EmployeeID("emp-1"))
		s.Equal(agent.CategoryBadData, agent.CategoryOf(err))
	})
}

func (s *ClientSuite) TestSendCredentialOfferPayload() {
	var got map[string]any
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/issue-credential/send-offer", r.URL.Path)
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, map[string]string{"credential_exchange_id": "ex-1"})
	}

	err := s.client().SendCredentialOffer(s.ctx, &agent.CredentialOffer{
		ConnectionID:           "conn-1",
		CredentialDefinitionID: "def:1",
		Attributes: []agent.OfferAttribute{
			{Name: "firstName", Value: "Ada"},
			{Name: "lastName", Value: "Lovelace"},
		},
	})
	s.Require().NoError(err)

	s.Equal("conn-1", got["connection_id"])
	s.Equal("def:1", got["cred_def_id"])
	s.Equal(true, got["auto_issue"])
	s.Equal(false, got["auto_remove"])
	s.Equal(false, got["trace"])
	preview := got["credential_preview"].(map[string]any)
	s.Equal(credentialPreviewType, preview["@type"])
	attrs := preview["attributes"].([]any)
	s.Require().Len(attrs, 2)
	s.Equal("firstName", attrs[0].(map[string]any)["name"])
	s.Equal("Lovelace", attrs[1].(map[string]any)["value"])
}

func (s *ClientSuite) TestReads() {
	s.Run("connections by alias", func() {
		s.handler = func(w http.ResponseWriter, r *http.Request) {
			s.Equal("/connections", r.URL.Path)
			s.Equal("emp-1", r.URL.Query().Get("alias"))
			writeJSON(w, http.StatusOK, map[string]any{"results": []map[string]string{
				{"connection_id": "c1", "alias": "emp-1", "state": "active"},
				{"connection_id": "c2", "alias": "emp-1", "state": "invitation"},
			}})
		}

		conns, err := s.client().GetConnectionsByAlias(s.ctx, id.EmployeeID("emp-1"))
		s.Require().NoError(err)
		s.Require().Len(conns, 2)
		s.Equal(id.ConnectionID("c2"), conns[1].ConnectionID)
		s.Equal("invitation", conns[1].State)
	})

	s.Run("single connection", func() {
		s.handler = func(w http.ResponseWriter, r *http.Request) {
			s.Equal("/connections/c1", r.URL.Path)
			writeJSON(w, http.StatusOK, map[string]string{"connection_id": "c1", "alias": "emp-1", "state": "response"})
		}

		conn, err := s.client().GetConnection(s.ctx, id.ConnectionID("c1"))
		s.Require().NoError(err)
		s.Equal("emp-1", conn.Alias)
	})

	s.Run("exchange record carries revocation ids", func() {
		s.handler = func(w http.ResponseWriter, r *http.Request) {
			s.Equal(http.MethodGet, r.Method)
			s.Equal("/issue-credential/records/ex-1", r.URL.Path)
			writeJSON(w, http.StatusOK, map[string]string{
				"credential_exchange_id": "ex-1",
				"connection_id":          "c1",
				"revocation_id":          "7",
				"revoc_reg_id":           "reg:1",
				"state":                  "credential_issued",
			})
		}

		rec, err := s.client().GetCredentialExchangeRecord(s.ctx, id.CredentialExchangeID("ex-1"))
		s.Require().NoError(err)
		s.Equal("7", rec.CredentialRevocationID)
		s.Equal("reg:1", rec.RevocationRegistryID)
	})
}

func (s *ClientSuite) TestRevokeAndDelete() {
	var paths []string
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		if r.URL.Path == "/revocation/revoke" {
			var body map[string]any
			s.Require().NoError(json.NewDecoder(r.Body).Decode(&body))
			s.Equal("7", body["cred_rev_id"])
			s.Equal("reg:1", body["rev_reg_id"])
			s.Equal(true, body["publish"])
		}
		writeJSON(w, http.StatusOK, map[string]any{})
	}

	c := s.client()
	s.Require().NoError(c.RevokeCredential(s.ctx, &agent.RevocationRequest{
		CredentialRevocationID: "7", RevocationRegistryID: "reg:1", Publish: true,
	}))
	s.Require().NoError(c.DeleteCredentialExchangeRecord(s.ctx, id.CredentialExchangeID("ex-1")))
	s.Equal([]string{"POST /revocation/revoke", "DELETE /issue-credential/records/ex-1"}, paths)
}

func (s *ClientSuite) TestStatusClassification() {
	cases := []struct {
		status   int
		category agent.Category
	}{
		{http.StatusUnauthorized, agent.CategoryAuthentication},
		{http.StatusForbidden, agent.CategoryAuthentication},
		{http.StatusNotFound, agent.CategoryNotFound},
		{http.StatusTooManyRequests, agent.CategoryRateLimited},
		{http.StatusBadGateway, agent.CategoryOutage},
		{http.StatusUnprocessableEntity, agent.CategoryRejected},
	}
	for _, tc := range cases {
		s.Run(http.StatusText(tc.status), func() {
			s.handler = func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte("nope"))
			}

			_, err := s.client().GetConnection(s.ctx, id.ConnectionID("c1"))
			s.Equal(tc.category, agent.CategoryOf(err))
			var aerr *agent.Error
			s.Require().ErrorAs(err, &aerr)
			s.Equal(tc.status, aerr.StatusCode)
		})
	}

	s.Run("rejected carries body snippet", func() {
		s.handler = func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("unknown cred def"))
		}
		err := s.client().SendCredentialOffer(s.ctx, &agent.CredentialOffer{ConnectionID: "c1"})
		s.ErrorContains(err, "unknown cred def")
	})

	s.Run("undecodable body is bad data", func() {
		s.handler = func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("{not json"))
		}
		_, err := s.client().GetConnection(s.ctx, id.ConnectionID("c1"))
		s.Equal(agent.CategoryBadData, agent.CategoryOf(err))
	})
}

func (s *ClientSuite) TestTimeout() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}

	c := New(Config{BaseURL: s.server.URL, Timeout: 50 * time.Millisecond})
	err := c.Ping(s.ctx)
	s.Equal(agent.CategoryTimeout, agent.CategoryOf(err))
	s.True(agent.IsRetryable(err))
}

func (s *ClientSuite) TestBreakerFailsFastAfterOutages() {
	var hits atomic.Int32
	s.handler = func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	metrics := NewMetrics(prometheus.NewRegistry())
	breaker := circuit.New("agent", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Hour))
	c := s.client(WithBreaker(breaker), WithMetrics(metrics))

	for range 2 {
		s.Error(c.Ping(s.ctx))
	}
	s.True(breaker.IsOpen())
	s.Equal(float64(1), promtest.ToFloat64(metrics.BreakerOpened))

	err := c.Ping(s.ctx)
	s.ErrorContains(err, "circuit open")
	s.Equal(agent.CategoryOutage, agent.CategoryOf(err))
	s.Equal(int32(2), hits.Load())
}

func (s *ClientSuite) TestNotFoundDoesNotTripBreaker() {
	s.handler = func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}
	breaker := circuit.New("agent", circuit.WithFailureThreshold(1))
	c := s.client(WithBreaker(breaker))

	_, err := c.GetCredentialExchangeRecord(s.ctx, id.CredentialExchangeID("gone"))
	s.True(agent.IsNotFound(err))
	s.False(breaker.IsOpen())
}
