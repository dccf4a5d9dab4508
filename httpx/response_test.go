package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/diewo77/medicine-recommendation/internal/apperr"
)

func run(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	Error(c, err)
	return rr
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.ErrNoValidSymptoms, http.StatusBadRequest},
		{apperr.ErrEmailTaken, http.StatusBadRequest},
		{apperr.ErrInvalidCredentials, http.StatusUnauthorized},
		{apperr.ErrUserNotFound, http.StatusUnauthorized},
		{apperr.ModelError(errors.New("x")), http.StatusInternalServerError},
		{errors.New("unclassified"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if rr := run(c.err); rr.Code != c.want {
			t.Errorf("%v: status %d want %d", c.err, rr.Code, c.want)
		}
	}
}

func TestErrorBodyHidesInternalCause(t *testing.T) {
	rr := run(apperr.Internal(errors.New("pq: password authentication failed")))
	var body ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "error" || body.Message != "Internal server error" {
		t.Fatalf("body=%+v", body)
	}
}

func TestErrorBodyCarriesFields(t *testing.T) {
	rr := run(apperr.InvalidInput("VALIDATION", "Invalid request").WithField("email", "required"))
	var body struct {
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Message != "Invalid request" || body.Details["email"] != "required" {
		t.Fatalf("body=%+v", body)
	}
}
