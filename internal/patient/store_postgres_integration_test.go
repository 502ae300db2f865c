//go:build integration

package patient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"clinica/pkg/domain"
	"clinica/pkg/platform/sentinel"
	"clinica/pkg/testutil/containers"
)

type PatientPostgresSuite struct {
	suite.Suite
	ctx   context.Context
	pg    *containers.PostgresContainer
	store *PostgresStore
}

func TestPatientPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	suite.Run(t, new(PatientPostgresSuite))
}

func (s *PatientPostgresSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.NewPostgresContainer(s.T(), Schema)
	s.store = NewPostgresStore(s.pg.Pool)
}

func (s *PatientPostgresSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(s.ctx, "patients"))
}

func (s *PatientPostgresSuite) stored(name string) *Patient {
	p := &Patient{
		ID:        domain.NewPatientID(),
		Name:      name,
		Email:     "ada@example.com",
		City:      "Firenze",
		BirthDate: time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC),
		TaxCode:   "RSSMRA90H55D612X",
	}
	saved, err := s.store.Save(s.ctx, p)
	s.Require().NoError(err)
	return saved
}

func (s *PatientPostgresSuite) TestSaveAndFind() {
	s.Run("round-trips a patient", func() {
		p := s.stored("Ada Lovelace")
		found, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal(p.Name, found.Name)
		s.Equal(p.Email, found.Email)
		s.Equal(p.TaxCode, found.TaxCode)
	})

	s.Run("unknown id reports ErrNotFound", func() {
		_, err := s.store.FindByID(s.ctx, domain.NewPatientID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("saving the same id replaces the record", func() {
		p := s.stored("Ada Lovelace")
		p.City = "Siena"
		_, err := s.store.Save(s.ctx, p)
		s.Require().NoError(err)

		found, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal("Siena", found.City)
	})
}

func (s *PatientPostgresSuite) TestSearchByName() {
	s.stored("Ada Lovelace")
	s.stored("Grace Hopper")
	s.stored("Adalberto Rossi")

	results, err := s.store.SearchByName(s.ctx, "ada")
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	names := []string{results[0].Name, results[1].Name}
	s.Contains(names, "Ada Lovelace")
	s.Contains(names, "Adalberto Rossi")
}
