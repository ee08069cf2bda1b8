package acceptance

import (
	"encoding/json"
	"net/http"

	"github.com/chesterOps/salem-server/internal/dto"
)

func (s *Suite) TestSignup_Success() {
	resp := s.postJSON("/api/v1/auth/signup", dto.SignupRequest{
		Email:     "jane@example.com",
		Password:  "password123",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)

	var tokenResp dto.TokenResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&tokenResp))
	s.Equal("success", tokenResp.Status)
	s.NotEmpty(tokenResp.AccessToken)

	cookie := s.refreshCookie(resp)
	s.True(cookie.HttpOnly, "refresh cookie must be httpOnly")
	s.NotEmpty(cookie.Value)
}

func (s *Suite) TestSignup_DuplicateEmail() {
	s.signup("dup@example.com")

	resp := s.postJSON("/api/v1/auth/signup", dto.SignupRequest{
		Email:     "dup@example.com",
		Password:  "password123",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&errResp))
	s.Equal("fail", errResp.Status)
}

func (s *Suite) TestSignup_InvalidPayload() {
	cases := []dto.SignupRequest{
		{Email: "not-an-email", Password: "password123", FirstName: "A", LastName: "B"},
		{Email: "short@example.com", Password: "short", FirstName: "A", LastName: "B"},
		{Email: "missing@example.com", Password: "password123"},
	}

	for _, req := range cases {
		resp := s.postJSON("/api/v1/auth/signup", req)
		s.Equal(http.StatusBadRequest, resp.StatusCode, "signup %+v", req)
		resp.Body.Close()
	}
}

func (s *Suite) TestLogin_Success() {
	s.signup("login@example.com")

	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "login@example.com",
		Password: "password123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var tokenResp dto.TokenResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&tokenResp))
	s.NotEmpty(tokenResp.AccessToken)
	s.NotEmpty(s.refreshCookie(resp).Value)
}

func (s *Suite) TestLogin_WrongPassword() {
	s.signup("wrongpass@example.com")

	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "wrongpass@example.com",
		Password: "not-the-password",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestLogin_UnknownEmail() {
	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestGetMe() {
	token, _ := s.signup("me@example.com")

	resp := s.doJSON(http.MethodGet, "/api/v1/auth/get-profile", token, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var user map[string]any
	s.decodeData(resp, &user)
	s.Equal("me@example.com", user["email"])
	s.NotContains(user, "password_hash")
	s.NotContains(user, "refresh_token")
}

func (s *Suite) TestGetMe_NoToken() {
	resp := s.doJSON(http.MethodGet, "/api/v1/auth/get-profile", "", nil)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestGetMe_InvalidToken() {
	resp := s.doJSON(http.MethodGet, "/api/v1/auth/get-profile", "invalid-token", nil)
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *Suite) TestRefresh_RotatesCookie() {
	_, cookie := s.signup("refresh@example.com")

	req, _ := http.NewRequest(http.MethodPost, s.BaseURL+"/api/v1/auth/refresh-token", nil)
	req.AddCookie(cookie)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var tokenResp dto.TokenResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&tokenResp))
	s.NotEmpty(tokenResp.AccessToken)

	rotated := s.refreshCookie(resp)
	s.NotEqual(cookie.Value, rotated.Value, "refresh must rotate the cookie token")

	// The superseded token no longer works.
	replay, _ := http.NewRequest(http.MethodPost, s.BaseURL+"/api/v1/auth/refresh-token", nil)
	replay.AddCookie(cookie)
	replayResp, err := http.DefaultClient.Do(replay)
	s.Require().NoError(err)
	defer replayResp.Body.Close()
	s.Equal(http.StatusForbidden, replayResp.StatusCode)

	// The replacement does.
	next, _ := http.NewRequest(http.MethodPost, s.BaseURL+"/api/v1/auth/refresh-token", nil)
	next.AddCookie(rotated)
	nextResp, err := http.DefaultClient.Do(next)
	s.Require().NoError(err)
	defer nextResp.Body.Close()
	s.Equal(http.StatusOK, nextResp.StatusCode)
}

func (s *Suite) TestRefresh_NoCookie() {
	resp, err := http.Post(s.BaseURL+"/api/v1/auth/refresh-token", "application/json", nil)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestLogout() {
	_, cookie := s.signup("logout@example.com")

	req, _ := http.NewRequest(http.MethodPost, s.BaseURL+"/api/v1/auth/logout", nil)
	req.AddCookie(cookie)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusNoContent, resp.StatusCode)

	cleared := s.refreshCookie(resp)
	s.Empty(cleared.Value)
	s.Negative(cleared.MaxAge)

	// The logged-out session can no longer refresh.
	refreshReq, _ := http.NewRequest(http.MethodPost, s.BaseURL+"/api/v1/auth/refresh-token", nil)
	refreshReq.AddCookie(cookie)
	refreshResp, err := http.DefaultClient.Do(refreshReq)
	s.Require().NoError(err)
	defer refreshResp.Body.Close()
	s.Equal(http.StatusForbidden, refreshResp.StatusCode)
}

func (s *Suite) TestLogout_WithoutCookieStillSucceeds() {
	resp, err := http.Post(s.BaseURL+"/api/v1/auth/logout", "application/json", nil)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusNoContent, resp.StatusCode)
}

func (s *Suite) TestLoginInvalidatesPreviousRefreshToken() {
	_, first := s.signup("single-session@example.com")

	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "single-session@example.com",
		Password: "password123",
	})
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodPost, s.BaseURL+"/api/v1/auth/refresh-token", nil)
	req.AddCookie(first)
	refreshResp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer refreshResp.Body.Close()

	s.Equal(http.StatusForbidden, refreshResp.StatusCode, "old session must die when a new one opens")
}
