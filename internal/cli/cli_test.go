package cli

import (
	"Folio/cmd"
	"Folio/internal/config"
	"Folio/internal/handlers"
	"Folio/internal/models"
	"Folio/internal/repository"
	"Folio/internal/services"
	"Folio/internal/storage"
	"Folio/internal/testutil"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *cmd.Server {
	t.Helper()
	db := testutil.NewTestDatabase(t)
	configuration := &config.Configuration{}
	config.ApplyDefaults(configuration)

	log := logrus.New()
	log.SetOutput(io.Discard)
	logService := services.LogService{Log: log}

	blobs, err := storage.NewFileSystemStore(t.TempDir(), "")
	require.NoError(t, err)

	nodes := repository.NewNodeRepository(db)
	users := repository.NewUserRepository(db)
	orphans := repository.NewOrphanBlobRepository(db)
	sessions := repository.NewSessionRepository(db)

	tree := services.NewTreeService(nodes, users, orphans, blobs, logService)
	mover := services.NewMoverService(nodes, logService)
	files := services.NewFileService(tree, blobs, logService)
	auth := services.NewAuthService(users, sessions, configuration, logService)
	catalog, err := services.NewCategoryCatalog(configuration, nodes)
	require.NoError(t, err)
	janitor := services.NewJanitorService(orphans, blobs, auth, logService, configuration)

	testutil.CreateUser(t, db, "alice", "password1", models.RoleUser)
	testutil.CreateUser(t, db, "root", "password1", models.RoleAdmin)

	return cmd.NewServer(
		configuration,
		handlers.NewFileSystemHandler(tree, mover, files),
		handlers.NewDocumentHandler(tree),
		handlers.NewAuthHandler(auth),
		handlers.NewStatsHandler(tree, catalog),
		handlers.NewJanitorHandler(janitor),
		auth,
		nodes,
		logService,
		janitor,
	)
}

func login(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"`+username+`","password":"password1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func request(t *testing.T, app *fiber.App, method, target, token, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestApp_Health(t *testing.T) {
	app := NewApp(newTestServer(t))

	resp := request(t, app, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestApp_UnknownRoute(t *testing.T) {
	app := NewApp(newTestServer(t))

	resp := request(t, app, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "not_found", body.Error.Code)
}

func TestApp_FolderRoundTrip(t *testing.T) {
	app := NewApp(newTestServer(t))
	token := login(t, app, "alice")

	resp := request(t, app, http.MethodGet, "/file-system/contents", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = request(t, app, http.MethodPost, "/file-system/folder", token, `{"name":"Docs","category":"Math"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = request(t, app, http.MethodGet, "/file-system/contents", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var contents struct {
		Items []struct {
			Name string `json:"name"`
			Path string `json:"path"`
		} `json:"items"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&contents))
	require.Len(t, contents.Items, 1)
	assert.Equal(t, "/Docs", contents.Items[0].Path)

	resp = request(t, app, http.MethodGet, "/documents", token, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = request(t, app, http.MethodPost, "/auth/logout", token, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = request(t, app, http.MethodGet, "/stats", token, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestApp_JanitorRequiresAdmin(t *testing.T) {
	server := newTestServer(t)
	app := NewApp(server)

	resp := request(t, app, http.MethodPost, "/janitor/clean", login(t, app, "alice"), "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = request(t, app, http.MethodPost, "/janitor/clean", login(t, app, "root"), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Eventually(t, func() bool { return !server.JanitorService.IsCleaning() }, 5*time.Second, 10*time.Millisecond)
}

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "folio.yaml")
	content := "storage:\n  backend: filesystem\n  path: " + t.TempDir() + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestUserAddCommand(t *testing.T) {
	server := newTestServer(t)
	rootCmd := NewRootCommand(func(*config.Configuration) (*cmd.Server, func(), error) {
		return server, func() {}, nil
	})
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader("password123\n"))
	rootCmd.SetArgs([]string{"--config", writeConfig(t), "user", "add", "carol", "--admin", "--password-stdin"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Created admin user carol")

	app := NewApp(server)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"carol","password":"password123"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRootCommand_MissingConfig(t *testing.T) {
	rootCmd := NewRootCommand(func(*config.Configuration) (*cmd.Server, func(), error) {
		t.Fatal("injector must not run without a configuration")
		return nil, nil, nil
	})
	rootCmd.SetOut(io.Discard)
	rootCmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "tree"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading configuration")
}

func TestRenderTree(t *testing.T) {
	docs := "d1"
	rendered := RenderTree([]models.Node{
		{BaseModel: models.BaseModel{ID: docs}, Name: "Docs", Type: models.NodeTypeFolder, Path: "/Docs"},
		{BaseModel: models.BaseModel{ID: "f1"}, Name: "a.pdf", Type: models.NodeTypeFile, Path: "/Docs/a.pdf", ParentID: &docs},
		{BaseModel: models.BaseModel{ID: "f2"}, Name: "top.txt", Type: models.NodeTypeFile, Path: "/top.txt"},
	})

	lines := strings.Split(strings.TrimRight(rendered, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "/", lines[0])
	assert.Contains(t, lines[1], "Docs/")
	assert.Contains(t, lines[2], "a.pdf")
	assert.Contains(t, lines[3], "top.txt")
	assert.True(t, strings.HasPrefix(lines[2], "│"), "file should be nested under Docs: %q", lines[2])
}
