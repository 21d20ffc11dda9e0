package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodewithdky/chai-backend/internal/domain"
	"github.com/kodewithdky/chai-backend/internal/testutil"
)

// loginFor creates a user and logs it in through the API, returning the
// user and a valid access token.
func loginFor(t *testing.T, ts *testutil.TestServer) (*domain.User, string) {
	t.Helper()

	user, rawPassword := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	body, _ := json.Marshal(map[string]string{"email": user.Email, "password": rawPassword})
	resp, err := http.Post(ts.APIURL("/login"), "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data testutil.AuthResponse
	testutil.AssertJSONData(t, resp, &data)
	return user, data.AccessToken
}

func doAuthed(t *testing.T, method, url, accessToken string, body io.Reader, contentType string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestAccountHandler_CurrentUser(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, accessToken := loginFor(t, ts)

	resp := doAuthed(t, http.MethodGet, ts.APIURL("/current-user"), accessToken, nil, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data map[string]interface{}
	env := testutil.DecodeEnvelope(t, resp)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, user.Username, data["username"])
	assert.NotContains(t, data, "passwordHash")
}

func TestAccountHandler_UpdateAccount(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, accessToken := loginFor(t, ts)

	t.Run("successful update", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"name": "Renamed", "username": "renamed", "email": "renamed@x.com", "phone": "999",
		})
		resp := doAuthed(t, http.MethodPatch, ts.APIURL("/update-account"), accessToken, bytes.NewBuffer(body), "application/json")
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var data map[string]interface{}
		env := testutil.DecodeEnvelope(t, resp)
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "renamed", data["username"])
	})

	t.Run("blank field", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"name": "", "username": "renamed", "email": "renamed@x.com", "phone": "999",
		})
		resp := doAuthed(t, http.MethodPatch, ts.APIURL("/update-account"), accessToken, bytes.NewBuffer(body), "application/json")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAccountHandler_UpdateAvatar(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, accessToken := loginFor(t, ts)

	t.Run("missing file", func(t *testing.T) {
		body, contentType := testutil.MultipartForm(t, nil, nil)
		resp := doAuthed(t, http.MethodPatch, ts.APIURL("/update-avatar"), accessToken, body, contentType)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("successful replacement", func(t *testing.T) {
		body, contentType := testutil.MultipartForm(t, nil, map[string]string{"avatar": "new.png"})
		resp := doAuthed(t, http.MethodPatch, ts.APIURL("/update-avatar"), accessToken, body, contentType)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var data map[string]interface{}
		env := testutil.DecodeEnvelope(t, resp)
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.NotEqual(t, user.AvatarURL(), data["avatarUrl"])
	})
}

func TestAccountHandler_UpdateCoverImage(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, accessToken := loginFor(t, ts)

	body, contentType := testutil.MultipartForm(t, nil, map[string]string{"coverImage": "cover.png"})
	resp := doAuthed(t, http.MethodPatch, ts.APIURL("/update-cover-image"), accessToken, body, contentType)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data map[string]interface{}
	env := testutil.DecodeEnvelope(t, resp)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data["coverImageUrl"])
}

func TestAuthHandler_ChangePasswordHTTP(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, accessToken := loginFor(t, ts)

	body, _ := json.Marshal(map[string]string{"oldPassword": "wrong", "newPassword": "next"})
	resp := doAuthed(t, http.MethodPost, ts.APIURL("/change-password"), accessToken, bytes.NewBuffer(body), "application/json")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
