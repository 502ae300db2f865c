package httptransport

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"clinica/internal/assets"
	"clinica/internal/invoice"
	"clinica/internal/operation"
	"clinica/internal/operationtype"
	"clinica/internal/patient"
	"clinica/internal/platform/logger"
	"clinica/internal/user"
)

// RouterSuite exercises the wired HTTP surface against in-memory adapters.
type RouterSuite struct {
	suite.Suite
	server *httptest.Server
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	log := logger.New()
	patientService := patient.NewService(patient.NewInMemoryStore())
	operationService := operation.NewService(
		operation.NewInMemoryStore(), patientService, assets.NewInMemoryStorage())
	catalogService := operationtype.NewService(operationtype.NewInMemoryStore())
	invoiceService := invoice.NewService(invoice.NewInMemoryStore(), operationService)
	userService := user.NewService(user.NewInMemoryStore())

	router := NewRouter(Services{
		Patients:   NewPatientHandler(patientService, log),
		Operations: NewOperationHandler(operationService, log),
		Catalog:    NewCatalogHandler(catalogService, log),
		Invoices:   NewInvoiceHandler(invoiceService, log),
		Users:      NewUserHandler(userService, log),
	})
	s.server = httptest.NewServer(router)
}

func (s *RouterSuite) TearDownTest() {
	s.server.Close()
}

func (s *RouterSuite) postJSON(path, body string) (*http.Response, map[string]any) {
	resp, err := http.Post(s.server.URL+path, "application/json", strings.NewReader(body))
	s.Require().NoError(err)
	return resp, s.decode(resp)
}

func (s *RouterSuite) getJSON(path string) (*http.Response, map[string]any) {
	resp, err := http.Get(s.server.URL + path)
	s.Require().NoError(err)
	return resp, s.decode(resp)
}

func (s *RouterSuite) decode(resp *http.Response) map[string]any {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	if len(data) == 0 {
		return nil
	}
	var body map[string]any
	if json.Unmarshal(data, &body) != nil {
		return map[string]any{"raw": string(data)}
	}
	return body
}

func (s *RouterSuite) createPatient() string {
	resp, body := s.postJSON("/patients", `{
		"name": "Ada Lovelace",
		"email": "ada@example.com",
		"birth_date": "1990-06-15"
	}`)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	id, _ := body["id"].(string)
	s.Require().NotEmpty(id)
	return id
}

func (s *RouterSuite) createOperation(patientID string) string {
	resp, body := s.postJSON("/operations", `{
		"patient_id": "`+patientID+`",
		"type": "surgery",
		"estimated_cost": {"amount": "100.00", "currency": "EUR"}
	}`)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	id, _ := body["id"].(string)
	s.Require().NotEmpty(id)
	return id
}

func (s *RouterSuite) TestHealthz() {
	resp, err := http.Get(s.server.URL + "/healthz")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
	s.NotEmpty(resp.Header.Get("X-Request-Id"))
}

func (s *RouterSuite) TestPatientLifecycle() {
	id := s.createPatient()

	resp, body := s.getJSON("/patients/" + id)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("Ada Lovelace", body["name"])

	searchResp, err := http.Get(s.server.URL + "/patients?name=ada")
	s.Require().NoError(err)
	defer searchResp.Body.Close()
	s.Equal(http.StatusOK, searchResp.StatusCode)

	var results []map[string]any
	s.Require().NoError(json.NewDecoder(searchResp.Body).Decode(&results))
	s.Require().Len(results, 1)
	s.Equal(id, results[0]["id"])
}

func (s *RouterSuite) TestPatientErrors() {
	s.Run("malformed body is a 400", func() {
		resp, body := s.postJSON("/patients", `{"name":`)
		s.Equal(http.StatusBadRequest, resp.StatusCode)
		s.Equal("bad_request", body["error"])
	})

	s.Run("bad birth date is a 400", func() {
		resp, body := s.postJSON("/patients", `{"name":"Ada","email":"ada@example.com","birth_date":"15/06/1990"}`)
		s.Equal(http.StatusBadRequest, resp.StatusCode)
		s.Equal("invalid_input", body["error"])
	})

	s.Run("invalid email is a 422", func() {
		resp, body := s.postJSON("/patients", `{"name":"Ada","email":"nope","birth_date":"1990-06-15"}`)
		s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
		s.Equal("validation_failed", body["error"])
	})

	s.Run("unknown patient is a 404 naming the entity", func() {
		resp, body := s.getJSON("/patients/6e7f8a90-1b2c-4d3e-9f40-516273849500")
		s.Equal(http.StatusNotFound, resp.StatusCode)
		s.Equal("not_found", body["error"])
		s.Equal("patient", body["entity"])
	})

	s.Run("malformed patient id is a 400", func() {
		resp, body := s.getJSON("/patients/not-a-uuid")
		s.Equal(http.StatusBadRequest, resp.StatusCode)
		s.Equal("invalid_input", body["error"])
	})
}

func (s *RouterSuite) TestOperationFlow() {
	patientID := s.createPatient()
	operationID := s.createOperation(patientID)

	s.Run("cost mismatch is a 422", func() {
		resp, body := s.postJSON("/operations", `{
			"patient_id": "`+patientID+`",
			"type": "surgery",
			"estimated_cost": {"amount": "100.00", "currency": "EUR"},
			"details": [{"tooth": 18, "estimated_cost": {"amount": "99.99", "currency": "EUR"}, "type": "PERMANENT"}]
		}`)
		s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
		s.Equal("validation_failed", body["error"])
	})

	s.Run("notes append through the endpoint", func() {
		resp, body := s.postJSON("/operations/"+operationID+"/notes", `{"text":"healing well"}`)
		s.Equal(http.StatusOK, resp.StatusCode)
		notes, ok := body["notes"].([]any)
		s.Require().True(ok)
		s.Len(notes, 1)
	})

	s.Run("assets upload and download round-trip", func() {
		resp, err := http.Post(
			s.server.URL+"/operations/"+operationID+"/assets?key=xray.png",
			"image/png", bytes.NewReader([]byte("png-bytes")))
		s.Require().NoError(err)
		resp.Body.Close()
		s.Equal(http.StatusOK, resp.StatusCode)

		resp, err = http.Get(s.server.URL + "/assets?key=xray.png")
		s.Require().NoError(err)
		defer resp.Body.Close()
		s.Equal(http.StatusOK, resp.StatusCode)
		data, err := io.ReadAll(resp.Body)
		s.Require().NoError(err)
		s.Equal("png-bytes", string(data))
	})

	s.Run("upload without a key is a 400", func() {
		resp, err := http.Post(
			s.server.URL+"/operations/"+operationID+"/assets",
			"image/png", bytes.NewReader([]byte("png-bytes")))
		s.Require().NoError(err)
		resp.Body.Close()
		s.Equal(http.StatusBadRequest, resp.StatusCode)
	})
}

func (s *RouterSuite) TestCatalogEndpoints() {
	s.Run("PUT upserts and GET lists", func() {
		resp, _ := s.putJSON("/operation-types", `{
			"code": "surgery",
			"description": "Surgical procedure",
			"base_cost": {"amount": "250.00", "currency": "EUR"}
		}`)
		s.Equal(http.StatusOK, resp.StatusCode)

		resp, err := http.Get(s.server.URL + "/operation-types")
		s.Require().NoError(err)
		defer resp.Body.Close()
		s.Equal(http.StatusOK, resp.StatusCode)

		var types []map[string]any
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(&types))
		s.Require().Len(types, 1)
		s.Equal("SURGERY", types[0]["code"])
	})

	s.Run("POST on a taken code is a 409", func() {
		resp, _ := s.postJSON("/operation-types", `{
			"code": "TREATMENT",
			"description": "Ongoing treatment",
			"base_cost": {"amount": "80.00", "currency": "EUR"}
		}`)
		s.Equal(http.StatusCreated, resp.StatusCode)

		resp, body := s.postJSON("/operation-types", `{
			"code": "treatment",
			"description": "Duplicate",
			"base_cost": {"amount": "99.00", "currency": "EUR"}
		}`)
		s.Equal(http.StatusConflict, resp.StatusCode)
		s.Equal("already_exists", body["error"])
	})
}

func (s *RouterSuite) TestInvoiceFlow() {
	patientID := s.createPatient()
	operationID := s.createOperation(patientID)

	resp, body := s.postJSON("/invoices", `{
		"operation_id": "`+operationID+`",
		"amount": {"amount": "250.00", "currency": "EUR"}
	}`)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.Equal("PENDING", body["status"])
	invoiceID, _ := body["id"].(string)
	s.Require().NotEmpty(invoiceID)

	s.Run("status updates through PUT", func() {
		resp, body := s.putJSON("/invoices/"+invoiceID+"/status", `{"status":"PAID"}`)
		s.Equal(http.StatusOK, resp.StatusCode)
		s.Equal("PAID", body["status"])
	})

	s.Run("unknown status value is a 400", func() {
		resp, body := s.putJSON("/invoices/"+invoiceID+"/status", `{"status":"SETTLED"}`)
		s.Equal(http.StatusBadRequest, resp.StatusCode)
		s.Equal("invalid_input", body["error"])
	})

	s.Run("billing an unknown operation is a 404", func() {
		resp, body := s.postJSON("/invoices", `{
			"operation_id": "6e7f8a90-1b2c-4d3e-9f40-516273849500",
			"amount": {"amount": "250.00", "currency": "EUR"}
		}`)
		s.Equal(http.StatusNotFound, resp.StatusCode)
		s.Equal("operation", body["entity"])
	})
}

func (s *RouterSuite) TestUserEndpoints() {
	resp, body := s.postJSON("/users", `{
		"name": "Dr. Rossi",
		"email": "rossi@example.com",
		"birth_date": "1985-02-20"
	}`)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	userID, _ := body["id"].(string)
	s.Require().NotEmpty(userID)

	resp, body = s.getJSON("/users/" + userID)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("Dr. Rossi", body["name"])
}

func (s *RouterSuite) putJSON(path, body string) (*http.Response, map[string]any) {
	req, err := http.NewRequest(http.MethodPut, s.server.URL+path, strings.NewReader(body))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp, s.decode(resp)
}
