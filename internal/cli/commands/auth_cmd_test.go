package commands

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"IonAuth/internal/cli/page"
	reposqlite "IonAuth/internal/cli/repo/sqlite"
	"IonAuth/internal/config"
	"IonAuth/internal/server"
)

// fakeAuthAPI имитирует /api/signup, /api/login и /api/me.
func fakeAuthAPI(t *testing.T, signup, login string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/signup":
			_, _ = w.Write([]byte(signup))
		case "/api/login":
			_, _ = w.Write([]byte(login))
		case "/api/me":
			_, _ = w.Write([]byte(`{"success":true,"user":{"id":1,"name":"alice"}}`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestSignup_Run_StoresToken(t *testing.T) {
	withTempConfig(t)
	ts := fakeAuthAPI(t, `{"success":true,"message":"created"}`, `{"success":true,"token":"tok-1"}`)

	var err error
	withStdoutCapture(t, func() {
		err = (signupCmd{}).Run(context.Background(), fileConfig(ts.URL), []string{"alice", "secret"})
	})
	if err != nil {
		t.Fatalf("signup should succeed: %v", err)
	}
	tok, ok := storedToken(t)
	if !ok || tok != "tok-1" {
		t.Fatalf("token not stored: %q %v", tok, ok)
	}
	if n := len(storageFiles(t)); n != 1 {
		t.Fatalf("expected exactly one stored item, got %d", n)
	}
}

func TestSignup_Run_RejectedShowsAlert(t *testing.T) {
	withTempConfig(t)
	ts := fakeAuthAPI(t, `{"success":false,"message":"Username already exists."}`, `{}`)

	var err error
	out := withStdoutCapture(t, func() {
		err = (signupCmd{}).Run(context.Background(), fileConfig(ts.URL), []string{"alice", "secret"})
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if strings.Count(out, "[Erreur]") != 1 || !strings.Contains(out, "Username already exists.") {
		t.Fatalf("single alert expected, got: %s", out)
	}
	if _, ok := storedToken(t); ok {
		t.Fatalf("token must not be stored")
	}
}

func TestSignup_Run_Usage(t *testing.T) {
	withTempConfig(t)
	if err := (signupCmd{}).Run(context.Background(), fileConfig("http://127.0.0.1:1"), []string{"alice"}); err != ErrUsage {
		t.Fatalf("expected ErrUsage without terminal, got %v", err)
	}
	if err := (signupCmd{}).Run(context.Background(), fileConfig("http://127.0.0.1:1"), nil); err != ErrUsage {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
}

func TestLogin_Run_SQLiteBackend(t *testing.T) {
	dir := withTempConfig(t)
	ts := fakeAuthAPI(t, `{}`, `{"success":true,"token":"tok-sql"}`)
	dbPath := filepath.Join(dir, "client.db")
	cfg := &config.Config{ServerURL: ts.URL, StorageBackend: config.StorageSQLite, ClientDBPath: dbPath}

	var err error
	withStdoutCapture(t, func() {
		err = (loginCmd{}).Run(context.Background(), cfg, []string{"alice", "secret"})
	})
	if err != nil {
		t.Fatalf("login should succeed: %v", err)
	}

	s, err := reposqlite.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	tok, ok, err := page.LoadToken(s)
	if err != nil || !ok || tok != "tok-sql" {
		t.Fatalf("token not stored in sqlite: %q %v %v", tok, ok, err)
	}
}

func TestLogout_Run(t *testing.T) {
	withTempConfig(t)
	ts := fakeAuthAPI(t, `{}`, `{"success":true,"token":"tok-1"}`)
	cfg := fileConfig(ts.URL)

	withStdoutCapture(t, func() {
		if err := (loginCmd{}).Run(context.Background(), cfg, []string{"a", "b"}); err != nil {
			t.Fatalf("login: %v", err)
		}
		if err := (logoutCmd{}).Run(context.Background(), cfg, nil); err != nil {
			t.Fatalf("logout: %v", err)
		}
		// повторный logout не ошибка
		if err := (logoutCmd{}).Run(context.Background(), cfg, nil); err != nil {
			t.Fatalf("second logout: %v", err)
		}
	})
	if _, ok := storedToken(t); ok {
		t.Fatalf("token must be removed")
	}
	if err := (logoutCmd{}).Run(context.Background(), cfg, []string{"x"}); err != ErrUsage {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
}

func TestSignupAgainstServer(t *testing.T) {
	withTempConfig(t)
	name := strings.NewReplacer("/", "_").Replace(t.Name())
	srvCfg := &config.Config{
		Port:        "0",
		StaticRoot:  t.TempDir(),
		DatabaseDSN: "file:" + name + "?mode=memory&cache=shared",
		AuthSecret:  "test-secret",
	}
	srv := server.NewServer(srvCfg, zap.NewNop().Sugar())
	defer srv.Close()
	srv.ConnectDB(context.Background())
	<-srv.Ready()

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	cfg := fileConfig(ts.URL)

	out := withStdoutCapture(t, func() {
		if code := Dispatch(context.Background(), cfg, []string{"signup", "bob", "pwd"}); code != 0 {
			t.Fatalf("signup exit code %d", code)
		}
	})
	if !strings.Contains(out, "Welcome, bob") {
		t.Fatalf("home page expected, got: %s", out)
	}
	if _, ok := storedToken(t); !ok {
		t.Fatalf("token not stored")
	}

	// повторная регистрация: 409 и alert с сообщением сервера
	out = withStdoutCapture(t, func() {
		if code := Dispatch(context.Background(), cfg, []string{"signup", "bob", "pwd"}); code != 1 {
			t.Fatalf("expected exit 1, got %d", code)
		}
	})
	if !strings.Contains(out, "[Erreur] Username already exists.") {
		t.Fatalf("alert expected, got: %s", out)
	}
}
