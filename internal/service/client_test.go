package service

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"

	"github.com/gfamlabs/agencydesk/internal/api/dto"
	"github.com/gfamlabs/agencydesk/internal/cache"
	"github.com/gfamlabs/agencydesk/internal/config"
	ierr "github.com/gfamlabs/agencydesk/internal/errors"
	"github.com/gfamlabs/agencydesk/internal/logger"
	"github.com/gfamlabs/agencydesk/internal/testutil"
	"github.com/gfamlabs/agencydesk/internal/types"
	"github.com/gfamlabs/agencydesk/internal/validator"
)

type ClientServiceSuite struct {
	suite.Suite
	ctx        context.Context
	service    ClientService
	clientRepo *testutil.InMemoryClientStore
}

func TestClientService(t *testing.T) {
	suite.Run(t, new(ClientServiceSuite))
}

func (s *ClientServiceSuite) SetupSuite() {
	validator.NewValidator()
}

func (s *ClientServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.clientRepo = testutil.NewInMemoryClientStore()
	s.service = NewClientService(ServiceParams{
		Logger:     logger.L,
		Config:     config.GetDefaultConfig(),
		Cache:      cache.NewInMemoryCache(),
		ClientRepo: s.clientRepo,
	})
}

func (s *ClientServiceSuite) TestCreateClient() {
	resp, err := s.service.CreateClient(s.ctx, dto.CreateClientRequest{
		Name:    "Ama Owusu",
		Company: "Owusu Media",
		Email:   "ama@owusumedia.com",
		Phone:   "555-0134",
	})
	s.NoError(err)
	s.NotEmpty(resp.ID)
	s.Equal("ama@owusumedia.com", resp.Email)
	s.Equal(types.StatusActive, resp.Status)
	s.False(resp.HasStripeCustomer())
}

func (s *ClientServiceSuite) TestCreateClientValidation() {
	testCases := []struct {
		name string
		req  dto.CreateClientRequest
	}{
		{
			name: "missing name",
			req:  dto.CreateClientRequest{Email: "a@b.com"},
		},
		{
			name: "missing email",
			req:  dto.CreateClientRequest{Name: "No Email"},
		},
		{
			name: "malformed email",
			req:  dto.CreateClientRequest{Name: "Bad Email", Email: "not-an-email"},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.service.CreateClient(s.ctx, tc.req)
			s.Error(err)
			s.True(ierr.IsValidation(err))
		})
	}
}

func (s *ClientServiceSuite) TestCreateClientDuplicateEmail() {
	_, err := s.service.CreateClient(s.ctx, dto.CreateClientRequest{
		Name:  "First",
		Email: "dup@example.com",
	})
	s.NoError(err)

	_, err = s.service.CreateClient(s.ctx, dto.CreateClientRequest{
		Name:  "Second",
		Email: "dup@example.com",
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *ClientServiceSuite) TestGetClient() {
	created, err := s.service.CreateClient(s.ctx, dto.CreateClientRequest{
		Name:  "Lookup",
		Email: "lookup@example.com",
	})
	s.NoError(err)

	got, err := s.service.GetClient(s.ctx, created.ID)
	s.NoError(err)
	s.Equal(created.ID, got.ID)

	_, err = s.service.GetClient(s.ctx, "cli_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *ClientServiceSuite) TestGetClientByEmail() {
	_, err := s.service.CreateClient(s.ctx, dto.CreateClientRequest{
		Name:  "By Email",
		Email: "byemail@example.com",
	})
	s.NoError(err)

	got, err := s.service.GetClientByEmail(s.ctx, "byemail@example.com")
	s.NoError(err)
	s.Equal("By Email", got.Name)

	_, err = s.service.GetClientByEmail(s.ctx, "nobody@example.com")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *ClientServiceSuite) TestListClients() {
	for _, email := range []string{"one@example.com", "two@example.com", "three@example.com"} {
		_, err := s.service.CreateClient(s.ctx, dto.CreateClientRequest{
			Name:  "Client " + email,
			Email: email,
		})
		s.NoError(err)
	}

	resp, err := s.service.ListClients(s.ctx, nil)
	s.NoError(err)
	s.Len(resp.Items, 3)
	s.Equal(3, resp.Total)

	filter := &types.ClientFilter{
		QueryFilter: types.QueryFilter{Limit: lo.ToPtr(2)},
	}
	resp, err = s.service.ListClients(s.ctx, filter)
	s.NoError(err)
	s.Len(resp.Items, 2)
	s.Equal(3, resp.Total)
}

func (s *ClientServiceSuite) TestUpdateClient() {
	created, err := s.service.CreateClient(s.ctx, dto.CreateClientRequest{
		Name:  "Before",
		Email: "update@example.com",
	})
	s.NoError(err)

	updated, err := s.service.UpdateClient(s.ctx, created.ID, dto.UpdateClientRequest{
		Name:  lo.ToPtr("After"),
		Notes: lo.ToPtr("prefers invoices on the 1st"),
	})
	s.NoError(err)
	s.Equal("After", updated.Name)
	s.Equal("prefers invoices on the 1st", updated.Notes)
	s.Equal("update@example.com", updated.Email)
}

func (s *ClientServiceSuite) TestDeleteClient() {
	created, err := s.service.CreateClient(s.ctx, dto.CreateClientRequest{
		Name:  "Gone",
		Email: "gone@example.com",
	})
	s.NoError(err)

	s.NoError(s.service.DeleteClient(s.ctx, created.ID))

	_, err = s.service.GetClient(s.ctx, created.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
