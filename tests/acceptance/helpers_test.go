package acceptance

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/chesterOps/salem-server/internal/domain"
	"github.com/chesterOps/salem-server/internal/dto"
	"github.com/chesterOps/salem-server/internal/repository"
	"github.com/chesterOps/salem-server/internal/utils"
)

const refreshCookieName = "refresh-token"

// postJSON sends a JSON POST without authentication.
func (s *Suite) postJSON(path string, payload any) *http.Response {
	body, err := json.Marshal(payload)
	s.Require().NoError(err)

	resp, err := http.Post(s.BaseURL+path, "application/json", bytes.NewReader(body))
	s.Require().NoError(err)
	return resp
}

// doJSON sends a JSON request with a bearer token.
func (s *Suite) doJSON(method, path, token string, payload any) *http.Response {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		s.Require().NoError(err)
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.BaseURL+path, body)
	s.Require().NoError(err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

// decodeData decodes the data field of a success envelope into out.
func (s *Suite) decodeData(resp *http.Response, out any) dto.DataResponse {
	var envelope struct {
		Status  string          `json:"status"`
		Message string          `json:"message"`
		Length  *int            `json:"length"`
		Data    json.RawMessage `json:"data"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&envelope))

	if out != nil && len(envelope.Data) > 0 {
		s.Require().NoError(json.Unmarshal(envelope.Data, out))
	}

	return dto.DataResponse{Status: envelope.Status, Message: envelope.Message, Length: envelope.Length}
}

// refreshCookie extracts the refresh cookie from a response, failing
// the test if it is absent.
func (s *Suite) refreshCookie(resp *http.Response) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == refreshCookieName {
			return cookie
		}
	}
	s.Require().FailNow("response has no refresh cookie")
	return nil
}

// signup registers a fresh customer and returns its access token and
// refresh cookie.
func (s *Suite) signup(email string) (string, *http.Cookie) {
	resp := s.postJSON("/api/v1/auth/signup", dto.SignupRequest{
		Email:     email,
		Password:  "password123",
		FirstName: "Test",
		LastName:  "User",
	})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var tokenResp dto.TokenResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&tokenResp))
	s.Require().NotEmpty(tokenResp.AccessToken)

	return tokenResp.AccessToken, s.refreshCookie(resp)
}

// createAdmin inserts an admin user directly and logs it in through
// the API, returning its access token.
func (s *Suite) createAdmin() string {
	hash, err := utils.HashPassword("adminpass123", 4)
	s.Require().NoError(err)

	email := "admin-" + uuid.New().String()[:8] + "@example.com"
	repos := repository.NewRepositories(s.Postgres)
	s.Require().NoError(repos.User.Create(s.T().Context(), &domain.User{
		Email:        email,
		FirstName:    "Admin",
		LastName:     "User",
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Active:       true,
	}))

	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    email,
		Password: "adminpass123",
	})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var tokenResp dto.TokenResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&tokenResp))
	return tokenResp.AccessToken
}

// createCategory creates a category through the API as admin.
func (s *Suite) createCategory(adminToken, name string) map[string]any {
	resp := s.doJSON(http.MethodPost, "/api/v1/categories", adminToken, dto.CreateCategoryRequest{Name: name})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var category map[string]any
	s.decodeData(resp, &category)
	return category
}
