package invoice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"clinica/pkg/domain"
	dErrors "clinica/pkg/domain-errors"
	"clinica/pkg/requestcontext"
)

// knownOperations fakes the operation service's existence check with a fixed
// allow-list.
type knownOperations map[domain.OperationID]bool

func (k knownOperations) Require(_ context.Context, id domain.OperationID) error {
	if !k[id] {
		return dErrors.NotFound("operation", id.String())
	}
	return nil
}

type InvoiceServiceSuite struct {
	suite.Suite
	ctx        context.Context
	store      *InMemoryStore
	operations knownOperations
	service    *Service
}

func TestInvoiceServiceSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemoryStore()
	s.operations = knownOperations{}
	s.service = NewService(s.store, s.operations)
}

func (s *InvoiceServiceSuite) knownOperation() domain.OperationID {
	id := domain.NewOperationID()
	s.operations[id] = true
	return id
}

func (s *InvoiceServiceSuite) TestCreate() {
	s.Run("starts PENDING with matching timestamps", func() {
		pinned := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
		ctx := requestcontext.WithTime(s.ctx, pinned)

		inv, err := s.service.Create(ctx, CreateRequest{
			OperationID: s.knownOperation(),
			Amount:      domain.MustMoney("250.00", "EUR"),
		})
		s.Require().NoError(err)
		s.False(inv.ID.IsNil())
		s.Equal(StatusPending, inv.Status)
		s.Equal(pinned, inv.CreatedAt)
		s.Equal(inv.CreatedAt, inv.UpdatedAt)
	})

	s.Run("unknown operation fails and persists nothing", func() {
		ghost := domain.NewOperationID()
		_, err := s.service.Create(s.ctx, CreateRequest{
			OperationID: ghost,
			Amount:      domain.MustMoney("250.00", "EUR"),
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

		invoices, err := s.store.FindByOperation(s.ctx, ghost)
		s.Require().NoError(err)
		s.Empty(invoices)
	})

	s.Run("rejects a negative amount", func() {
		_, err := s.service.Create(s.ctx, CreateRequest{
			OperationID: s.knownOperation(),
			Amount:      domain.MustMoney("-1.00", "EUR"),
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *InvoiceServiceSuite) TestUpdateStatus() {
	s.Run("moves status and stamps UpdatedAt", func() {
		created, err := s.service.Create(s.ctx, CreateRequest{
			OperationID: s.knownOperation(),
			Amount:      domain.MustMoney("250.00", "EUR"),
		})
		s.Require().NoError(err)

		later := created.CreatedAt.Add(time.Hour)
		updated, err := s.service.UpdateStatus(requestcontext.WithTime(s.ctx, later), created.ID, StatusPaid)
		s.Require().NoError(err)
		s.Equal(StatusPaid, updated.Status)
		s.Equal(later, updated.UpdatedAt)
		s.Equal(created.CreatedAt, updated.CreatedAt)
	})

	s.Run("allows any transition, even backwards", func() {
		created, err := s.service.Create(s.ctx, CreateRequest{
			OperationID: s.knownOperation(),
			Amount:      domain.MustMoney("250.00", "EUR"),
		})
		s.Require().NoError(err)

		_, err = s.service.UpdateStatus(s.ctx, created.ID, StatusPaid)
		s.Require().NoError(err)
		back, err := s.service.UpdateStatus(s.ctx, created.ID, StatusPending)
		s.Require().NoError(err)
		s.Equal(StatusPending, back.Status)
	})

	s.Run("unknown invoice yields NotFound", func() {
		_, err := s.service.UpdateStatus(s.ctx, domain.NewInvoiceID(), StatusCancelled)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *InvoiceServiceSuite) TestListByOperation() {
	s.Run("lists invoices for an operation", func() {
		operationID := s.knownOperation()
		first, err := s.service.Create(s.ctx, CreateRequest{
			OperationID: operationID, Amount: domain.MustMoney("100.00", "EUR"),
		})
		s.Require().NoError(err)
		second, err := s.service.Create(s.ctx, CreateRequest{
			OperationID: operationID, Amount: domain.MustMoney("50.00", "EUR"),
		})
		s.Require().NoError(err)

		invoices, err := s.service.ListByOperation(s.ctx, operationID)
		s.Require().NoError(err)
		s.Require().Len(invoices, 2)
		s.Equal(first.ID, invoices[0].ID)
		s.Equal(second.ID, invoices[1].ID)
	})

	s.Run("unknown operation yields an empty list, not an error", func() {
		invoices, err := s.service.ListByOperation(s.ctx, domain.NewOperationID())
		s.Require().NoError(err)
		s.Empty(invoices)
	})
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"PENDING", "PAID", "CANCELLED"} {
		if _, err := ParseStatus(valid); err != nil {
			t.Fatalf("ParseStatus(%q) = %v", valid, err)
		}
	}
	if _, err := ParseStatus("paid"); !dErrors.HasCode(err, dErrors.CodeInvalidInput) {
		t.Fatalf("lower-case status accepted: %v", err)
	}
}
