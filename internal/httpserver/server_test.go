package httpserver

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/vianime/internal/catalog"
	"github.com/MrSnakeDoc/vianime/internal/feedback"
	"github.com/MrSnakeDoc/vianime/internal/httpserver/deps"
	"github.com/MrSnakeDoc/vianime/internal/localcache"
	"github.com/MrSnakeDoc/vianime/internal/logger"
	"github.com/MrSnakeDoc/vianime/internal/mylist"
	"github.com/MrSnakeDoc/vianime/internal/nav"
	"github.com/MrSnakeDoc/vianime/internal/session"
	redisstore "github.com/MrSnakeDoc/vianime/internal/store/redis"
)

type testEnv struct {
	handler http.Handler
	deps    deps.Deps
	mr      *miniredis.Miniredis
	cache   *localcache.Memory
}

func newTestEnv(t *testing.T, burst int) *testEnv {
	t.Helper()
	log := logger.Nop()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := redisstore.NewStore(client, time.Hour)

	cache := localcache.NewMemory()
	router := nav.NewRouter()
	sessions := session.NewManager(store, cache, router, log)
	lists := mylist.NewSynchronizer(store, cache, sessions, log, "")

	idx := catalog.NewIndex()
	idx.Update(catalog.Builtin(), catalog.SourceBuiltin)

	done := make(chan struct{})
	t.Cleanup(func() { close(done) })

	d := deps.Deps{
		Logger:         log,
		StartTime:      time.Now(),
		Version:        "test",
		RequestTimeout: 5 * time.Second,
		AuthRateBurst:  burst,
		AuthRatePerMin: 1,
		RedisClient:    client,
		LocalCache:     cache,
		ViAnimes:       store,
		Sessions:       sessions,
		Navigator:      router,
		Lists:          lists,
		Mirror:         mylist.NewMirror(sessions),
		Catalog:        catalog.NewBrowser(idx, lists, catalog.LogOpener{Logger: log}, log),
		CatalogIndex:   idx,
		Feedback:       feedback.NewForm(feedback.NewSubmitter(store, log)),
		ReloadTrigger:  make(chan struct{}, 1),
		Done:           done,
	}
	return &testEnv{handler: NewRouter(log, d), deps: d, mr: mr, cache: cache}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	r.RemoteAddr = "10.0.0.1:4242"
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, r)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", w.Body.String(), err)
	}
	return out
}

func expect(t *testing.T, w *httptest.ResponseRecorder, status int) map[string]any {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, status, w.Body.String())
	}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		return decodeBody(t, w)
	}
	return nil
}

func signUp(t *testing.T, e *testEnv) {
	t.Helper()
	body := expect(t, e.do(t, http.MethodPost, "/api/auth/signup",
		`{"email":"kakashi@leaf.jp","password":"sharingan","confirm":"sharingan"}`), http.StatusCreated)
	if body["authenticated"] != true || body["route"] != "home" {
		t.Fatalf("sign-up response = %v", body)
	}
}

func items(t *testing.T, body map[string]any) []any {
	t.Helper()
	list, ok := body["items"].([]any)
	if !ok {
		t.Fatalf("no items in %v", body)
	}
	return list
}

func TestHealthz(t *testing.T) {
	e := newTestEnv(t, 10)
	body := expect(t, e.do(t, http.MethodGet, "/healthz", ""), http.StatusOK)
	if body["status"] != "ok" || body["version"] != "test" {
		t.Errorf("healthz = %v", body)
	}
}

func TestReadyzAndInfra(t *testing.T) {
	e := newTestEnv(t, 10)

	body := expect(t, e.do(t, http.MethodGet, "/readyz", ""), http.StatusOK)
	if body["ready"] != true {
		t.Errorf("readyz = %v", body)
	}
	body = expect(t, e.do(t, http.MethodGet, "/infra", ""), http.StatusOK)
	if body["mode"] != "operational" || body["session"] != "anonymous" {
		t.Errorf("infra = %v", body)
	}

	e.mr.Close()
	body = expect(t, e.do(t, http.MethodGet, "/readyz", ""), http.StatusServiceUnavailable)
	if body["remote"] != false {
		t.Errorf("readyz with remote down = %v", body)
	}
	body = expect(t, e.do(t, http.MethodGet, "/infra", ""), http.StatusOK)
	if body["mode"] != "degraded" {
		t.Errorf("infra mode = %v", body["mode"])
	}
}

func TestCatalogRequiresSession(t *testing.T) {
	e := newTestEnv(t, 10)
	body := expect(t, e.do(t, http.MethodGet, "/api/catalog", ""), http.StatusUnauthorized)
	if body["code"] != "not_authenticated" {
		t.Errorf("code = %v", body["code"])
	}
}

func TestCatalogBrowse(t *testing.T) {
	e := newTestEnv(t, 10)
	signUp(t, e)

	body := expect(t, e.do(t, http.MethodGet, "/api/catalog?q=TITAN", ""), http.StatusOK)
	entries := body["entries"].([]any)
	if len(entries) != 1 || entries[0].(map[string]any)["id"] != "3" {
		t.Errorf("filtered entries = %v", entries)
	}
	if body["category"] != "2D" {
		t.Errorf("category = %v", body["category"])
	}

	expect(t, e.do(t, http.MethodPut, "/api/catalog/category", `{"name":"3D"}`), http.StatusOK)
	body = expect(t, e.do(t, http.MethodGet, "/api/catalog", ""), http.StatusOK)
	if body["category"] != "3D" || len(body["entries"].([]any)) != 2 {
		t.Errorf("after select = %v", body)
	}

	body = expect(t, e.do(t, http.MethodPut, "/api/catalog/category", `{"name":"4D"}`), http.StatusBadRequest)
	if body["code"] != "unknown_category" {
		t.Errorf("code = %v", body["code"])
	}

	w := e.do(t, http.MethodGet, "/api/catalog/2/watch", "")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "https://9animetv.to/search?keyword=one+piece" {
		t.Errorf("watch = %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestMyListFlow(t *testing.T) {
	e := newTestEnv(t, 10)
	signUp(t, e)

	body := expect(t, e.do(t, http.MethodPost, "/api/mylist", `{"id":"21"}`), http.StatusCreated)
	if got := items(t, body); len(got) != 1 {
		t.Fatalf("items after add = %v", got)
	}
	expect(t, e.do(t, http.MethodPost, "/api/mylist", `{"id":"1"}`), http.StatusCreated)

	body = expect(t, e.do(t, http.MethodPost, "/api/mylist", `{"id":"21"}`), http.StatusConflict)
	if body["code"] != "duplicate_item" {
		t.Errorf("code = %v", body["code"])
	}

	body = expect(t, e.do(t, http.MethodGet, "/api/mylist", ""), http.StatusOK)
	got := items(t, body)
	if len(got) != 2 || got[0].(map[string]any)["id"] != "21" || got[1].(map[string]any)["id"] != "1" {
		t.Errorf("loaded list = %v", got)
	}

	w := e.do(t, http.MethodGet, "/api/mylist/21/watch", "")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "https://animexin.dev/btth-season-5/" {
		t.Errorf("watch = %d %q", w.Code, w.Header().Get("Location"))
	}
	expect(t, e.do(t, http.MethodGet, "/api/mylist/404/watch", ""), http.StatusNotFound)

	for i := 0; i < 2; i++ {
		body = expect(t, e.do(t, http.MethodDelete, "/api/mylist/21", ""), http.StatusOK)
		if got := items(t, body); len(got) != 1 {
			t.Errorf("remove #%d items = %v", i, got)
		}
	}

	expect(t, e.do(t, http.MethodPost, "/api/mylist", `{"id":"999"}`), http.StatusNotFound)
}

func TestMyListWithoutSession(t *testing.T) {
	e := newTestEnv(t, 10)

	body := expect(t, e.do(t, http.MethodGet, "/api/mylist", ""), http.StatusOK)
	if got := items(t, body); len(got) != 0 {
		t.Errorf("anonymous load = %v", got)
	}
	body = expect(t, e.do(t, http.MethodPost, "/api/mylist", `{"id":"1"}`), http.StatusUnauthorized)
	if body["code"] != "not_authenticated" {
		t.Errorf("code = %v", body["code"])
	}
}

func TestMyListRemoteDown(t *testing.T) {
	e := newTestEnv(t, 10)
	signUp(t, e)
	e.mr.Close()

	body := expect(t, e.do(t, http.MethodGet, "/api/mylist", ""), http.StatusOK)
	if got := items(t, body); len(got) != 0 {
		t.Errorf("load with remote down = %v", got)
	}
	body = expect(t, e.do(t, http.MethodPost, "/api/mylist", `{"id":"1"}`), http.StatusServiceUnavailable)
	if body["error"] != "service unavailable, please try again" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestFeedbackFlow(t *testing.T) {
	e := newTestEnv(t, 10)

	body := expect(t, e.do(t, http.MethodPost, "/api/feedback", `{"text":"   "}`), http.StatusBadRequest)
	if body["code"] != "empty_feedback" {
		t.Errorf("code = %v", body["code"])
	}
	body = expect(t, e.do(t, http.MethodGet, "/api/feedback/draft", ""), http.StatusOK)
	if body["text"] != "   " {
		t.Errorf("draft after rejection = %q", body["text"])
	}

	expect(t, e.do(t, http.MethodPut, "/api/feedback/draft", `{"text":"more donghua please"}`), http.StatusOK)
	body = expect(t, e.do(t, http.MethodPost, "/api/feedback", ""), http.StatusCreated)
	entry := body["entry"].(map[string]any)
	if entry["userId"] != "guest" || entry["text"] != "more donghua please" {
		t.Errorf("entry = %v", entry)
	}
	if body["draft"] != "" {
		t.Errorf("draft after success = %q", body["draft"])
	}

	stream, err := e.deps.RedisClient.XRange(context.Background(), redisstore.KeyFeedback, "-", "+").Result()
	if err != nil || len(stream) != 1 {
		t.Fatalf("feedback stream = %v, %v", stream, err)
	}
}

func TestAuthErrors(t *testing.T) {
	e := newTestEnv(t, 10)
	signUp(t, e)
	expect(t, e.do(t, http.MethodPost, "/api/auth/signout", ""), http.StatusOK)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"wrong password", "/api/auth/signin", `{"email":"kakashi@leaf.jp","password":"wrong-one"}`, http.StatusUnauthorized, "invalid_credentials"},
		{"unknown account", "/api/auth/signin", `{"email":"obito@leaf.jp","password":"sharingan"}`, http.StatusUnauthorized, "invalid_credentials"},
		{"mismatch", "/api/auth/signup", `{"email":"rin@leaf.jp","password":"abcdef","confirm":"abcdeg"}`, http.StatusBadRequest, "password_mismatch"},
		{"taken", "/api/auth/signup", `{"email":"kakashi@leaf.jp","password":"abcdef","confirm":"abcdef"}`, http.StatusBadRequest, "account_creation"},
		{"garbage", "/api/auth/signin", `{"email":`, http.StatusBadRequest, "bad_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := expect(t, e.do(t, http.MethodPost, tt.path, tt.body), tt.status)
			if body["code"] != tt.code {
				t.Errorf("code = %v, want %v", body["code"], tt.code)
			}
		})
	}
}

func TestSignOut(t *testing.T) {
	e := newTestEnv(t, 10)
	signUp(t, e)
	expect(t, e.do(t, http.MethodPost, "/api/mylist", `{"id":"4"}`), http.StatusCreated)

	body := expect(t, e.do(t, http.MethodPost, "/api/auth/signout", ""), http.StatusOK)
	if body["authenticated"] != false || body["route"] != "landing" {
		t.Errorf("sign-out response = %v", body)
	}
	if _, ok, _ := e.cache.Get(context.Background(), localcache.KeyMyList); ok {
		t.Error("local list survived sign-out")
	}
	if n := len(e.deps.Mirror.Items()); n != 0 {
		t.Errorf("mirror kept %d items", n)
	}
	expect(t, e.do(t, http.MethodGet, "/api/catalog", ""), http.StatusUnauthorized)

	body = expect(t, e.do(t, http.MethodPost, "/api/auth/signin",
		`{"email":"kakashi@leaf.jp","password":"sharingan"}`), http.StatusOK)
	if body["route"] != "home" {
		t.Errorf("sign-in route = %v", body["route"])
	}
	body = expect(t, e.do(t, http.MethodGet, "/api/mylist", ""), http.StatusOK)
	if got := items(t, body); len(got) != 1 {
		t.Errorf("list after sign-in = %v", got)
	}
}

func TestAuthRateLimit(t *testing.T) {
	e := newTestEnv(t, 1)
	creds := `{"email":"guy@leaf.jp","password":"youthful"}`

	expect(t, e.do(t, http.MethodPost, "/api/auth/signin", creds), http.StatusUnauthorized)
	w := e.do(t, http.MethodPost, "/api/auth/signin", creds)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", w.Code)
	}
}

func TestNavigate(t *testing.T) {
	e := newTestEnv(t, 10)

	body := expect(t, e.do(t, http.MethodPost, "/api/nav", `{"route":"feedback"}`), http.StatusUnauthorized)
	if body["code"] != "not_authenticated" {
		t.Errorf("code = %v", body["code"])
	}
	body = expect(t, e.do(t, http.MethodPost, "/api/nav", `{"route":"nowhere"}`), http.StatusBadRequest)
	if body["code"] != "unknown_route" {
		t.Errorf("code = %v", body["code"])
	}
	expect(t, e.do(t, http.MethodPost, "/api/nav", `{"route":"login"}`), http.StatusOK)

	body = expect(t, e.do(t, http.MethodGet, "/api/session", ""), http.StatusOK)
	if body["route"] != "login" {
		t.Errorf("route = %v", body["route"])
	}

	signUp(t, e)
	expect(t, e.do(t, http.MethodPost, "/api/nav", `{"route":"mylist"}`), http.StatusOK)
}

func TestCreateViAnime(t *testing.T) {
	e := newTestEnv(t, 10)
	expect(t, e.do(t, http.MethodPost, "/api/vianimes", `{"title":"Solo Leveling"}`), http.StatusUnauthorized)

	signUp(t, e)
	body := expect(t, e.do(t, http.MethodPost, "/api/vianimes", `{"title":"Solo Leveling"}`), http.StatusCreated)
	id, _ := body["id"].(string)
	if id == "" {
		t.Fatalf("no id in %v", body)
	}
	if got := e.mr.HGet(redisstore.ViAnimeKey(id), "title"); got != "Solo Leveling" {
		t.Errorf("stored title = %q", got)
	}

	body = expect(t, e.do(t, http.MethodPost, "/api/vianimes", `{}`), http.StatusBadRequest)
	if body["code"] != "invalid_item" {
		t.Errorf("code = %v", body["code"])
	}
}

func TestReload(t *testing.T) {
	e := newTestEnv(t, 10)

	expect(t, e.do(t, http.MethodPost, "/reload", ""), http.StatusAccepted)
	expect(t, e.do(t, http.MethodPost, "/reload", ""), http.StatusTooManyRequests)
}

func TestSessionEvents(t *testing.T) {
	e := newTestEnv(t, 10)
	srv := httptest.NewServer(e.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/session/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}

	events := make(chan map[string]any, 4)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			line := sc.Text()
			if data, ok := strings.CutPrefix(line, "data: "); ok {
				var ev map[string]any
				if json.Unmarshal([]byte(data), &ev) == nil {
					events <- ev
				}
			}
		}
		close(events)
	}()

	next := func() map[string]any {
		select {
		case ev, ok := <-events:
			if !ok {
				t.Fatal("stream closed")
			}
			return ev
		case <-ctx.Done():
			t.Fatal("no session event")
		}
		return nil
	}

	if ev := next(); ev["authenticated"] != false {
		t.Errorf("first event = %v, want anonymous", ev)
	}

	signUp(t, e)
	if ev := next(); ev["authenticated"] != true {
		t.Errorf("second event = %v, want authenticated", ev)
	}
}
