package operation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"clinica/pkg/domain"
	"clinica/pkg/platform/sentinel"
)

type OperationStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *InMemoryStore
}

func TestOperationStoreSuite(t *testing.T) {
	suite.Run(t, new(OperationStoreSuite))
}

func (s *OperationStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemoryStore()
}

func (s *OperationStoreSuite) stored(patientID domain.PatientID) *PatientOperation {
	now := time.Now()
	op := &PatientOperation{
		ID:            domain.NewOperationID(),
		PatientID:     patientID,
		Type:          domain.TypeCode("SURGERY"),
		AssetKeys:     []string{},
		Notes:         []Note{},
		EstimatedCost: domain.MustMoney("100.00", "EUR"),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	saved, err := s.store.Save(s.ctx, op)
	s.Require().NoError(err)
	return saved
}

func (s *OperationStoreSuite) TestSaveAndFind() {
	s.Run("round-trips an operation", func() {
		op := s.stored(domain.NewPatientID())
		found, err := s.store.FindByID(s.ctx, op.ID)
		s.Require().NoError(err)
		s.Equal(op.ID, found.ID)
	})

	s.Run("unknown id reports ErrNotFound", func() {
		_, err := s.store.FindByID(s.ctx, domain.NewOperationID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned copies do not alias stored state", func() {
		op := s.stored(domain.NewPatientID())
		found, err := s.store.FindByID(s.ctx, op.ID)
		s.Require().NoError(err)
		found.AssetKeys = append(found.AssetKeys, "mutated")

		again, err := s.store.FindByID(s.ctx, op.ID)
		s.Require().NoError(err)
		s.Empty(again.AssetKeys)
	})
}

func (s *OperationStoreSuite) TestAppendNote() {
	s.Run("appends and stamps UpdatedAt", func() {
		op := s.stored(domain.NewPatientID())
		at := time.Now().Add(time.Minute)

		updated, err := s.store.AppendNote(s.ctx, op.ID, Note{Text: "healing well", At: at})
		s.Require().NoError(err)
		s.Require().Len(updated.Notes, 1)
		s.Equal(at, updated.UpdatedAt)
	})

	s.Run("unknown id reports ErrNotFound", func() {
		_, err := s.store.AppendNote(s.ctx, domain.NewOperationID(), Note{Text: "x", At: time.Now()})
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *OperationStoreSuite) TestAppendAsset() {
	s.Run("appends keys in order", func() {
		op := s.stored(domain.NewPatientID())
		_, err := s.store.AppendAsset(s.ctx, op.ID, "a.png", time.Now())
		s.Require().NoError(err)
		updated, err := s.store.AppendAsset(s.ctx, op.ID, "b.png", time.Now())
		s.Require().NoError(err)
		s.Equal([]string{"a.png", "b.png"}, updated.AssetKeys)
	})

	s.Run("unknown id reports ErrNotFound", func() {
		_, err := s.store.AppendAsset(s.ctx, domain.NewOperationID(), "a.png", time.Now())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *OperationStoreSuite) TestFindByPatient() {
	s.Run("filters by patient preserving insertion order", func() {
		patientID := domain.NewPatientID()
		first := s.stored(patientID)
		s.stored(domain.NewPatientID())
		second := s.stored(patientID)

		ops, err := s.store.FindByPatient(s.ctx, patientID)
		s.Require().NoError(err)
		s.Require().Len(ops, 2)
		s.Equal(first.ID, ops[0].ID)
		s.Equal(second.ID, ops[1].ID)
	})

	s.Run("unknown patient yields an empty slice", func() {
		ops, err := s.store.FindByPatient(s.ctx, domain.NewPatientID())
		s.Require().NoError(err)
		s.Empty(ops)
	})
}
