package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-cabinwalk/pkg/camera"
	"github.com/teslashibe/go-cabinwalk/pkg/protocol"
	"github.com/teslashibe/go-cabinwalk/pkg/session"
	"github.com/teslashibe/go-cabinwalk/pkg/settings"
)

type fixture struct {
	srv   *Server
	sess  *session.Session
	store *settings.Store
	tel   *camera.SimTelemetry
	addr  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := settings.Load("")
	require.NoError(t, err)

	tel := camera.NewParkedTelemetry()
	sess := session.New(session.Options{
		Device:    camera.NewSimDevice(camera.NewPose(0, 0, 0, 0, 0)),
		Clock:     camera.NewWallClock(),
		Telemetry: tel,
		Settings:  store,
	})
	store.OnChange(sess.SettingsChanged)

	srv := NewServer("", sess, store, WithPlanner(sess.Controller()))
	sess.OnStatus(srv.PublishStatus)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go sess.Run(ctx, 5*time.Millisecond)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go srv.Serve(ctx, ln)

	return &fixture{srv: srv, sess: sess, store: store, tel: tel, addr: ln.Addr().String()}
}

func (f *fixture) request(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := f.srv.App().Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestStatusEndpoint(t *testing.T) {
	f := newFixture(t)

	code, body := f.request(t, "GET", "/api/status", nil)
	assert.Equal(t, 200, code)
	assert.Equal(t, "driver", body["position"])
	assert.Equal(t, "none", body["target"])
	assert.Equal(t, false, body["animating"])
}

func TestMoveStartsTransition(t *testing.T) {
	f := newFixture(t)

	code, body := f.request(t, "POST", "/api/move/passenger", nil)
	require.Equal(t, 200, code, body)
	status := body["status"].(map[string]any)
	assert.Equal(t, "passenger", status["target"])
	assert.Equal(t, true, status["animating"])

	code, body = f.request(t, "POST", "/api/move/standing", nil)
	assert.Equal(t, 409, code)
	assert.Equal(t, "busy", body["code"])
}

func TestMoveRefusedWhileDriving(t *testing.T) {
	f := newFixture(t)
	f.tel.Set(20, false)

	code, body := f.request(t, "POST", "/api/move/standing", nil)
	assert.Equal(t, 423, code)
	assert.Equal(t, "unsafe", body["code"])

	// The driver seat is always reachable.
	code, _ = f.request(t, "POST", "/api/move/driver", nil)
	assert.Equal(t, 200, code)
}

func TestMoveErrors(t *testing.T) {
	f := newFixture(t)

	code, body := f.request(t, "POST", "/api/move/roof", nil)
	assert.Equal(t, 404, code)
	assert.Equal(t, "unknown_position", body["code"])

	code, body = f.request(t, "POST", "/api/move/bed", nil)
	assert.Equal(t, 404, code)
	assert.Equal(t, "unknown_position", body["code"])

	_, err := f.store.Set("positions.sofa_lie.enabled", false)
	require.NoError(t, err)
	code, body = f.request(t, "POST", "/api/move/sofa_lie", nil)
	assert.Equal(t, 409, code)
	assert.Equal(t, "disabled", body["code"])
}

func TestWalkAndCycle(t *testing.T) {
	f := newFixture(t)

	code, body := f.request(t, "POST", "/api/walk", WalkRequest{Walk: true})
	require.Equal(t, 200, code)
	assert.Equal(t, true, body["status"].(map[string]any)["walking"])

	code, body = f.request(t, "POST", "/api/cycle-sofa", nil)
	require.Equal(t, 200, code)
	status := body["status"].(map[string]any)
	assert.Equal(t, "standing", status["target"])
	assert.Equal(t, []any{"sofa_sit1"}, status["pending"])
}

func TestCommandEndpoint(t *testing.T) {
	f := newFixture(t)

	code, _ := f.request(t, "POST", "/api/command", protocol.CommandData{Action: "look", Yaw: 0.5})
	assert.Equal(t, 200, code)

	code, body := f.request(t, "POST", "/api/command", protocol.CommandData{Action: "jump"})
	assert.Equal(t, 404, code)
	assert.Equal(t, "unknown_action", body["code"])

	code, body = f.request(t, "POST", "/api/command", protocol.CommandData{Action: "move_to"})
	assert.Equal(t, 400, code)
	assert.Equal(t, "bad_request", body["code"])
}

func TestPlanEndpoint(t *testing.T) {
	f := newFixture(t)

	code, body := f.request(t, "GET", "/api/plan?from=passenger&to=sofa_lie", nil)
	require.Equal(t, 200, code)
	assert.Equal(t, []any{"standing", "sofa_sit1", "sofa_lie"}, body["path"])

	code, _ = f.request(t, "GET", "/api/plan?from=passenger&to=attic", nil)
	assert.Equal(t, 404, code)
}

func TestPositionsEndpoint(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.Set("positions.sofa_sit2.enabled", false)
	require.NoError(t, err)

	resp, err := f.srv.App().Test(httptest.NewRequest("GET", "/api/positions", nil))
	require.NoError(t, err)
	var got []PositionInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))

	require.Len(t, got, 6)
	assert.Equal(t, PositionInfo{Name: "driver", Enabled: true}, got[0])
	assert.Equal(t, PositionInfo{Name: "sofa_sit2", Enabled: false}, got[5])
}

func TestSettingsEndpoints(t *testing.T) {
	f := newFixture(t)

	code, body := f.request(t, "GET", "/api/settings", nil)
	require.Equal(t, 200, code)
	assert.Contains(t, body, "general.height")

	code, body = f.request(t, "PUT", "/api/settings", SettingRequest{Key: "general.height", Value: 1.5})
	require.Equal(t, 200, code, body)
	assert.Equal(t, []any{"general.height"}, body["changed"])
	assert.InDelta(t, 1.5, f.store.Current().General.Height, 1e-9)

	code, _ = f.request(t, "PUT", "/api/settings", SettingRequest{Key: "general.wings", Value: 2})
	assert.Equal(t, 404, code)

	code, _ = f.request(t, "PUT", "/api/settings", SettingRequest{Value: 2})
	assert.Equal(t, 400, code)
}

func TestStatusSocket(t *testing.T) {
	f := newFixture(t)

	ws, _, err := websocket.DefaultDialer.Dial("ws://"+f.addr+"/ws/status", nil)
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var status struct {
		Position string `json:"position"`
	}
	require.NoError(t, ws.ReadJSON(&status))
	assert.Equal(t, "driver", status.Position)
	require.Eventually(t, func() bool { return f.srv.StatusClients() == 1 }, time.Second, 5*time.Millisecond)
}

func TestWebsocketRoutesRequireUpgrade(t *testing.T) {
	f := newFixture(t)

	code, _ := f.request(t, "GET", "/ws/status", nil)
	assert.Equal(t, 426, code)
}

func TestControlSocket(t *testing.T) {
	f := newFixture(t)

	ws, _, err := websocket.DefaultDialer.Dial("ws://"+f.addr+"/ws/control", nil)
	require.NoError(t, err)
	defer ws.Close()

	msg, err := protocol.NewCommandMessage("c1", protocol.CommandData{Action: "move_to", Position: "standing"})
	require.NoError(t, err)
	raw, err := msg.Bytes()
	require.NoError(t, err)
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, raw))

	// Status pushes may arrive first; wait for our result.
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, data, err := ws.ReadMessage()
		require.NoError(t, err)
		reply, err := protocol.ParseMessage(data)
		require.NoError(t, err)
		if reply.Type != protocol.TypeResult {
			continue
		}
		assert.Equal(t, "c1", reply.ID)
		res, err := reply.GetResultData()
		require.NoError(t, err)
		assert.True(t, res.OK)
		break
	}
	assert.Equal(t, "standing", f.sess.Status().Target.String())
}
