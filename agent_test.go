package consul

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAgentMembers(t *testing.T) {
	var gotPath, gotWan string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotWan = r.URL.Query().Get("wan")
		w.Write([]byte(`[{"Name":"n1","Addr":"10.0.0.1","Port":8301,"Status":1,
			"Tags":{"role":"consul"}}]`))
	}))
	defer server.Close()
	client := newTestClient(t, server.URL)

	members, err := client.AgentMembers(context.Background(), false)
	require.NoError(t, err)
	require.Equal(t, "/v1/agent/members", gotPath)
	require.Empty(t, gotWan)
	require.Len(t, members, 1)
	require.Equal(t, "n1", members[0].Name)
	require.Equal(t, uint16(8301), members[0].Port)
	require.Equal(t, "consul", members[0].Tags["role"])

	_, err = client.AgentMembers(context.Background(), true)
	require.NoError(t, err)
	require.Equal(t, "1", gotWan)
}

func TestAgentServicesAndChecks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/agent/services":
			w.Write([]byte(`{"web":{"ID":"web","Service":"web","Port":8080,"Tags":["primary"]}}`))
		case "/v1/agent/checks":
			w.Write([]byte(`{"service:web":{"CheckID":"service:web","Name":"web check",
				"Status":"passing","ServiceID":"web"}}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()
	client := newTestClient(t, server.URL)

	services, err := client.AgentServices(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"primary"}, services["web"].Tags)

	checks, err := client.AgentChecks(context.Background())
	require.NoError(t, err)
	require.Equal(t, "passing", checks["service:web"].Status)
}

func TestAgentServiceRegister(t *testing.T) {
	var gotPath string
	var received AgentServiceRegistration
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
	}))
	defer server.Close()
	client := newTestClient(t, server.URL)

	wm, err := client.AgentServiceRegister(context.Background(), &AgentServiceRegistration{
		Name: "web",
		Port: 8080,
		Check: &AgentServiceCheck{
			HTTP:     "http://127.0.0.1:8080/health",
			Interval: "10s",
		},
	})
	require.NoError(t, err)
	require.NotZero(t, wm.RequestTime)
	require.Equal(t, "/v1/agent/service/register", gotPath)
	require.Equal(t, "web", received.Name)
	require.Equal(t, "10s", received.Check.Interval)
}

func TestAgentDeregisterPaths(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.Equal(t, http.MethodPut, r.Method)
	}))
	defer server.Close()
	client := newTestClient(t, server.URL)

	_, err := client.AgentServiceDeregister(context.Background(), "web")
	require.NoError(t, err)
	require.Equal(t, "/v1/agent/service/deregister/web", gotPath)

	_, err = client.AgentCheckDeregister(context.Background(), "service:web")
	require.NoError(t, err)
	require.Equal(t, "/v1/agent/check/deregister/service:web", gotPath)
}

func TestAgentMissingParameters(t *testing.T) {
	client := New()
	ctx := context.Background()

	_, err := client.AgentServiceRegister(ctx, &AgentServiceRegistration{})
	require.ErrorIs(t, err, &ClientError{Type: ErrorTypeValidation})

	_, err = client.AgentServiceDeregister(ctx, "")
	require.ErrorIs(t, err, &ClientError{Type: ErrorTypeValidation})

	_, err = client.AgentCheckRegister(ctx, nil)
	require.ErrorIs(t, err, &ClientError{Type: ErrorTypeValidation})

	_, err = client.AgentCheckDeregister(ctx, "")
	require.ErrorIs(t, err, &ClientError{Type: ErrorTypeValidation})
}
