package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pacemaker_dcm/internal/service"
)

func TestSignUp(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		mock     *mockAuth
		wantCode int
	}{
		{
			name:     "success",
			body:     `{"username":"alice","password":"s3cr3t"}`,
			mock:     &mockAuth{registerID: 5},
			wantCode: http.StatusOK,
		},
		{
			name:     "missing fields",
			body:     `{"username":"alice"}`,
			mock:     &mockAuth{},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "service rejects",
			body:     `{"username":"alice","password":"x"}`,
			mock:     &mockAuth{registerErr: errors.New("operator already registered")},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&service.Service{Authorization: tc.mock})

			req := httptest.NewRequest(http.MethodPost, "/auth/sign-up", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tc.wantCode, w.Body.String())
			}
			if tc.wantCode == http.StatusOK {
				var body map[string]any
				if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
					t.Fatalf("invalid JSON body: %v", err)
				}
				if body["id"] != float64(5) {
					t.Fatalf("id = %v, want 5", body["id"])
				}
			}
		})
	}
}

func TestSignIn(t *testing.T) {
	t.Run("success returns token", func(t *testing.T) {
		auth := &mockAuth{genTokenToken: "jwt-token"}
		router := newTestRouter(&service.Service{Authorization: auth})

		req := httptest.NewRequest(http.MethodPost, "/auth/sign-in",
			strings.NewReader(`{"username":"alice","password":"s3cr3t"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON body: %v", err)
		}
		if body["token"] != "jwt-token" {
			t.Fatalf("token = %q, want jwt-token", body["token"])
		}
		if auth.lastGenUsername != "alice" {
			t.Fatalf("username passed = %q, want alice", auth.lastGenUsername)
		}
	})

	t.Run("bad credentials are unauthorized", func(t *testing.T) {
		auth := &mockAuth{genTokenErr: errors.New("invalid password")}
		router := newTestRouter(&service.Service{Authorization: auth})

		req := httptest.NewRequest(http.MethodPost, "/auth/sign-in",
			strings.NewReader(`{"username":"alice","password":"wrong"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})
}
