package testingx

//
// Code for testing against a fake measurement platform.
//

import (
	"bufio"
	"bytes"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/topoprobe/campaign/internal/must"
	"github.com/topoprobe/campaign/internal/runtimex"
)

// FakePlatformMeasurement is a measurement known to [FakePlatform].
type FakePlatformMeasurement struct {
	UUID   string
	State  string
	Tool   string
	Tags   []string
	Agents []FakePlatformMeasurementAgent
	Polls  int
}

// FakePlatformMeasurementAgent is an agent participating in a [FakePlatformMeasurement].
type FakePlatformMeasurementAgent struct {
	UUID           string `json:"uuid"`
	TargetFile     string `json:"target_file"`
	ToolParameters struct {
		MaxRound int `json:"max_round,omitempty"`
	} `json:"tool_parameters"`
}

// FakePlatform implements the login, agents, targets, and measurements
// APIs of the measurement platform.
//
// The zero value is ready to use. Add users and agents before serving requests.
//
// This struct methods panics for several errors. Only use for testing purposes!
type FakePlatform struct {
	// Agents contains the registered agents.
	Agents []string

	// Links OPTIONALLY maps a prefix to the number of links discovered
	// when probing it. Missing prefixes discover one link.
	Links map[string]int

	// PollsBeforeFinished is the number of status queries returning
	// "ongoing" before a measurement becomes "finished".
	PollsBeforeFinished int

	// Users maps usernames to passwords.
	Users map[string]string

	// measurements maps a UUID to the corresponding measurement.
	measurements map[string]*FakePlatformMeasurement

	// mu provides mutual exclusion.
	mu sync.Mutex

	// order contains the measurements UUIDs in creation order.
	order []string

	// targets maps a target list key to its content.
	targets map[string][]byte

	// tokens contains the valid bearer tokens.
	tokens map[string]bool
}

// ExpireTokens invalidates all the bearer tokens.
//
// This method is safe to call concurrently with incoming HTTP requests.
func (h *FakePlatform) ExpireTokens() {
	defer h.mu.Unlock()
	h.mu.Lock()
	h.tokens = nil
}

// SetMeasurementState forcibly sets the state of a measurement.
//
// This method is safe to call concurrently with incoming HTTP requests.
func (h *FakePlatform) SetMeasurementState(id, state string) {
	defer h.mu.Unlock()
	h.mu.Lock()
	m := h.measurements[id]
	runtimex.Assert(m != nil, "no such measurement")
	m.State = state
}

// Measurements returns a copy of the measurements in creation order.
//
// This method is safe to call concurrently with incoming HTTP requests.
func (h *FakePlatform) Measurements() (out []FakePlatformMeasurement) {
	defer h.mu.Unlock()
	h.mu.Lock()
	for _, id := range h.order {
		out = append(out, *h.measurements[id])
	}
	return
}

// TargetList returns the content of the given target list.
//
// This method is safe to call concurrently with incoming HTTP requests.
func (h *FakePlatform) TargetList(key string) []byte {
	defer h.mu.Unlock()
	h.mu.Lock()
	return h.targets[key]
}

// NewMux constructs an [*http.ServeMux] configured with the correct routing.
func (h *FakePlatform) NewMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("POST /auth/jwt/login", h.handleLogin())
	mux.Handle("GET /agents/", h.withAuthentication(h.handleAgents()))
	mux.Handle("POST /targets/", h.withAuthentication(h.handleTargets()))
	mux.Handle("POST /measurements/", h.withAuthentication(h.handleCreateMeasurement()))
	mux.Handle("GET /measurements/{uuid}", h.withAuthentication(h.handleGetMeasurement()))
	mux.Handle("GET /measurements/{uuid}/discoveries", h.withAuthentication(h.handleDiscoveries()))
	return mux
}

func (h *FakePlatform) handleLogin() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		runtimex.Try0(r.ParseForm())
		username, password := r.PostForm.Get("username"), r.PostForm.Get("password")

		// lock the users database
		defer h.mu.Unlock()
		h.mu.Lock()

		// handle the case where the user does not exist or the password is invalid
		if expect, found := h.Users[username]; !found || expect != password {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"LOGIN_BAD_CREDENTIALS"}`))
			return
		}

		// create and register the token
		token := uuid.Must(uuid.NewRandom()).String()
		if h.tokens == nil {
			h.tokens = make(map[string]bool)
		}
		h.tokens["Bearer "+token] = true

		// send response
		_, _ = w.Write(must.MarshalJSON(map[string]string{
			"access_token": token,
			"token_type":   "bearer",
		}))
	})
}

func (h *FakePlatform) handleAgents() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		type agent struct {
			UUID  string `json:"uuid"`
			State string `json:"state"`
		}
		results := []agent{}
		h.mu.Lock()
		for _, id := range h.Agents {
			results = append(results, agent{UUID: id, State: "idle"})
		}
		h.mu.Unlock()
		_, _ = w.Write(must.MarshalJSON(map[string]any{
			"count":   len(results),
			"next":    "",
			"results": results,
		}))
	})
}

func (h *FakePlatform) handleTargets() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("target_file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		content := runtimex.Try1(io.ReadAll(file))

		defer h.mu.Unlock()
		h.mu.Lock()
		if h.targets == nil {
			h.targets = make(map[string][]byte)
		}
		h.targets[header.Filename] = content
		_, _ = w.Write(must.MarshalJSON(map[string]string{"key": header.Filename}))
	})
}

func (h *FakePlatform) handleCreateMeasurement() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request struct {
			Tool   string                         `json:"tool"`
			Agents []FakePlatformMeasurementAgent `json:"agents"`
			Tags   []string                       `json:"tags"`
		}
		must.UnmarshalJSON(runtimex.Try1(io.ReadAll(r.Body)), &request)

		defer h.mu.Unlock()
		h.mu.Lock()

		// make sure all the target files exist
		for _, agent := range request.Agents {
			if _, found := h.targets[agent.TargetFile]; !found {
				w.WriteHeader(http.StatusNotFound)
				return
			}
		}

		m := &FakePlatformMeasurement{
			UUID:   uuid.Must(uuid.NewRandom()).String(),
			State:  "ongoing",
			Tool:   request.Tool,
			Tags:   request.Tags,
			Agents: request.Agents,
		}
		if h.measurements == nil {
			h.measurements = make(map[string]*FakePlatformMeasurement)
		}
		h.measurements[m.UUID] = m
		h.order = append(h.order, m.UUID)
		_, _ = w.Write(h.marshalMeasurement(m))
	})
}

func (h *FakePlatform) marshalMeasurement(m *FakePlatformMeasurement) []byte {
	return must.MarshalJSON(map[string]any{
		"uuid":  m.UUID,
		"state": m.State,
		"tool":  m.Tool,
		"tags":  m.Tags,
	})
}

func (h *FakePlatform) handleGetMeasurement() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer h.mu.Unlock()
		h.mu.Lock()
		m := h.measurements[r.PathValue("uuid")]
		if m == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		m.Polls++
		if m.State == "ongoing" && m.Polls > h.PollsBeforeFinished {
			m.State = "finished"
		}
		_, _ = w.Write(h.marshalMeasurement(m))
	})
}

func (h *FakePlatform) handleDiscoveries() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		type discovery struct {
			AgentUUID string `json:"agent_uuid"`
			Prefix    string `json:"prefix"`
			Links     int    `json:"links"`
		}

		defer h.mu.Unlock()
		h.mu.Lock()
		m := h.measurements[r.PathValue("uuid")]
		if m == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		// we derive the discoveries from the target lists
		discoveries := []discovery{}
		for _, agent := range m.Agents {
			scanner := bufio.NewScanner(bytes.NewReader(h.targets[agent.TargetFile]))
			for scanner.Scan() {
				prefix, _, _ := strings.Cut(scanner.Text(), ",")
				links, found := h.Links[prefix]
				if !found {
					links = 1
				}
				discoveries = append(discoveries, discovery{
					AgentUUID: agent.UUID,
					Prefix:    prefix,
					Links:     links,
				})
			}
		}
		_, _ = w.Write(must.MarshalJSON(map[string]any{"discoveries": discoveries}))
	})
}

func (h *FakePlatform) withAuthentication(child http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// get the authorization header
		authorization := r.Header.Get("Authorization")

		// lock the users database
		h.mu.Lock()

		// check whether we have state
		valid := h.tokens[authorization]

		// unlock the users database
		h.mu.Unlock()

		// handle the case of nonexisting state
		if !valid {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		// defer to the child handler
		child.ServeHTTP(w, r)
	})
}
