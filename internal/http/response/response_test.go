package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorAttachesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("request_id", "req-1")

	ErrorWithData(c, CodeBadRequest, "bad", gin.H{"fields": map[string]string{"email": "required"}})

	var body struct {
		StatusCode int                    `json:"status_code"`
		Msg        string                 `json:"msg"`
		Data       map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if body.StatusCode != CodeBadRequest || body.Msg != "bad" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
	if body.Data["request_id"] != "req-1" || body.Data["fields"] == nil {
		t.Fatalf("request id or fields missing: %+v", body.Data)
	}
}

func TestBuildPagination(t *testing.T) {
	p := BuildPagination(2, 20, 41)
	if p.TotalPage != 3 || p.Page != 2 {
		t.Fatalf("unexpected pagination: %+v", p)
	}
	if BuildPagination(1, 0, 10).TotalPage != 0 {
		t.Fatalf("zero page size should yield zero pages")
	}
}

func TestErrorWithoutRequestIDKeepsData(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, CodeNotFound, "missing")

	var body Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if w.Code != http.StatusOK || body.StatusCode != CodeNotFound || body.Data != nil {
		t.Fatalf("unexpected response: http=%d body=%+v", w.Code, body)
	}
}

func TestSuccessWithPageFlattensEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SuccessWithPage(c, []int{1, 2}, BuildPagination(1, 2, 3))

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if _, ok := body["status_code"]; !ok {
		t.Fatalf("status_code must be top level: %v", body)
	}
	pagination, ok := body["pagination"].(map[string]interface{})
	if !ok || pagination["total_page"].(float64) != 2 {
		t.Fatalf("unexpected pagination: %v", body["pagination"])
	}
}

func TestAppErrorServerSide(t *testing.T) {
	if !WrapError(CodeInternal, "boom", nil).ServerSide() {
		t.Fatalf("500 should be server side")
	}
	if WrapError(CodeUnprocessable, "invalid", nil).ServerSide() {
		t.Fatalf("422 should not be server side")
	}
}
