package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirpkit/chirp/internal/config"
)

// sharedKeyring makes every keyring open in the test return the same store.
func sharedKeyring(t *testing.T) {
	t.Helper()
	ring := keyring.NewArrayKeyring(nil)
	t.Cleanup(config.SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	}))
}

func TestAuthLoginStatusLogout(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())
	sharedKeyring(t)
	t.Setenv("CHIRP_TOKEN", "")

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"auth", "login", "--token", "abcdefghijklmnop"}))
	})
	assert.Contains(t, output, `Saved profile "default"`)

	output = captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"auth", "status"}))
	})
	assert.Contains(t, output, "Profile:     default")
	assert.Contains(t, output, "Source:      keyring")
	assert.Contains(t, output, "Credential:  bearer")
	assert.NotContains(t, output, "abcdefghijklmnop")

	output = captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"auth", "logout"}))
	})
	assert.Contains(t, output, `Removed profile "default"`)

	var stderr string
	output = captureStdout(t, func() {
		stderr = captureStderr(t, func() {
			require.NoError(t, Execute(context.Background(), []string{"auth", "status"}))
		})
	})
	assert.Contains(t, output, "Credential:  anonymous")
	assert.Contains(t, stderr, "no credentials configured")
}

func TestAuthLogin_VerifiesCredentials(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/1/account/verify_credentials.json", jsonResponse(200, userJSON))
	setupTestEnvWithHandler(t, handler)
	sharedKeyring(t)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"--profile", "work", "auth", "login", "--username", "ann", "--password", "pw", "--verify"}))
	})

	assert.Contains(t, output, `Saved profile "work" for @ann`)
	assert.Equal(t, 1, handler.count("GET", "/1/account/verify_credentials.json"))
	require.NotEmpty(t, handler.requests)
	user, pass, ok := handler.requests[0].BasicAuth()
	assert.True(t, ok)
	assert.Equal(t, "ann", user)
	assert.Equal(t, "pw", pass)
}

func TestAuthLogin_Rejected(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/1/account/verify_credentials.json", jsonResponse(401, `{"error": "Could not authenticate you."}`))
	setupTestEnvWithHandler(t, handler)
	sharedKeyring(t)

	var err error
	stderr := captureStderr(t, func() {
		err = Execute(context.Background(), []string{"auth", "login", "--token", "bad-token-value", "--verify"})
	})

	require.Error(t, err)
	assert.Equal(t, exitAuth, ExitCode(err))
	assert.Contains(t, stderr, "Could not authenticate you.")

	profiles, listErr := config.ListProfiles()
	require.NoError(t, listErr)
	assert.Empty(t, profiles)
}

func TestAuthLogin_MissingFlags(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())
	sharedKeyring(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"nothing", []string{"auth", "login"}, "--token or --username is required"},
		{"no password", []string{"auth", "login", "--username", "ann"}, "--password is required"},
		{"both", []string{"auth", "login", "--token", "x", "--username", "ann"}, "mutually exclusive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			stderr := captureStderr(t, func() {
				err = Execute(context.Background(), tt.args)
			})
			require.Error(t, err)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestAuthProfilesAndUse(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())
	sharedKeyring(t)

	require.NoError(t, config.SaveProfile("default", config.Credentials{Kind: config.KindBearer, Token: "one"}))
	require.NoError(t, config.SaveProfile("work", config.Credentials{Kind: config.KindBearer, Token: "two"}))

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"auth", "use", "default"}))
	})
	assert.Contains(t, output, `Switched to profile "default"`)

	output = captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"auth", "profiles", "-o", "json"}))
	})
	items := decodeArray(t, output)
	require.Len(t, items, 2)
	current := map[string]bool{}
	for _, item := range items {
		current[item["name"].(string)] = item["current"].(bool)
	}
	assert.True(t, current["default"])
	assert.False(t, current["work"])

	var err error
	stderr := captureStderr(t, func() {
		err = Execute(context.Background(), []string{"auth", "use", "missing"})
	})
	require.Error(t, err)
	assert.True(t, strings.Contains(stderr, `profile "missing"`), stderr)
}

func TestAuthStatus_EnvironmentToken(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())
	sharedKeyring(t)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"auth", "status", "-o", "json"}))
	})

	obj := decodeObject(t, output)
	assert.Equal(t, "environment", obj["source"])
	assert.Equal(t, true, obj["enabled"])
}
