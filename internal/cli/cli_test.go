package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/avatarshuffle/pkg/catalog"
	"github.com/matzehuels/avatarshuffle/pkg/config"
	"github.com/matzehuels/avatarshuffle/pkg/document"
	"github.com/matzehuels/avatarshuffle/pkg/errors"
	"github.com/matzehuels/avatarshuffle/pkg/history"
	"github.com/matzehuels/avatarshuffle/pkg/node"
	"github.com/matzehuels/avatarshuffle/pkg/plugin"
	"github.com/matzehuels/avatarshuffle/pkg/storage"
	"github.com/matzehuels/avatarshuffle/pkg/suggest"
)

const teamPage = `{
  "name": "Team page",
  "nodes": [
    {"id": "1", "type": "FRAME", "selected": true, "children": [
      {"id": "2", "type": "ELLIPSE", "fills": [{"type": "SOLID"}]},
      {"id": "3", "type": "ELLIPSE", "fills": [{"type": "SOLID"}]},
      {"id": "4", "type": "TEXT", "fills": [{"type": "SOLID"}]}
    ]},
    {"id": "5", "type": "RECTANGLE", "fills": [{"type": "SOLID"}]}
  ]
}`

// isolateEnv clears the variables config.Load reads so the host
// environment cannot change the outcome.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		config.EnvOpenAIKey, config.EnvMaxRequests, config.EnvMaxImagesPerBatch,
		config.EnvFigmaKey, config.EnvLibraryFileKey, config.EnvRedisAddr, config.EnvMongoURI,
	} {
		t.Setenv(k, "")
	}
}

// setup writes the sample document and a config file into a temp dir.
func setup(t *testing.T, cfg string) (dir, doc, cfgPath string) {
	t.Helper()
	isolateEnv(t)
	dir = t.TempDir()
	doc = filepath.Join(dir, "team.json")
	cfgPath = filepath.Join(dir, "config.toml")
	if err := os.WriteFile(doc, []byte(teamPage), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg = "[storage]\ndir = \"" + filepath.ToSlash(filepath.Join(dir, "store")) + "\"\n" + cfg
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, doc, cfgPath
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func fillStyle(t *testing.T, d *document.Document, id string) string {
	t.Helper()
	n, ok := d.Node(id)
	if !ok {
		t.Fatalf("node %s missing", id)
	}
	return n.(node.FillStyled).FillStyleID()
}

func TestRunStyles(t *testing.T) {
	dir, doc, cfg := setup(t, "")
	out := filepath.Join(dir, "out.json")

	if err := execute(t, "run", doc, "--config", cfg, "--no-cache", "--category", "People", "--out", out); err != nil {
		t.Fatalf("run: %v", err)
	}

	d, err := document.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	s2, s3 := fillStyle(t, d, "2"), fillStyle(t, d, "3")
	if !strings.HasPrefix(s2, document.StyleIDPrefix) || !strings.HasPrefix(s3, document.StyleIDPrefix) {
		t.Errorf("ellipses not styled: %q, %q", s2, s3)
	}
	if s2 == s3 {
		t.Errorf("both ellipses got %s, want distinct styles", s2)
	}
	if fillStyle(t, d, "5") != "" {
		t.Error("unselected rectangle must stay untouched")
	}

	orig, err := document.ReadFile(doc)
	if err != nil {
		t.Fatal(err)
	}
	if fillStyle(t, orig, "2") != "" {
		t.Error("input must not change when --out is given")
	}
}

func TestRunSameAvatarWithSelectFlag(t *testing.T) {
	_, doc, cfg := setup(t, "")

	if err := execute(t, "run", doc, "--config", cfg, "--no-cache", "--same", "--select", "2,5"); err != nil {
		t.Fatalf("run: %v", err)
	}

	d, err := document.ReadFile(doc)
	if err != nil {
		t.Fatal(err)
	}
	s2, s5 := fillStyle(t, d, "2"), fillStyle(t, d, "5")
	if s2 == "" || s2 != s5 {
		t.Errorf("styles = %q, %q; want one shared style", s2, s5)
	}
	if fillStyle(t, d, "3") != "" {
		t.Error("3 was not selected")
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want errors.Code
	}{
		{"unknown category", []string{"--category", "Dragons"}, errors.ErrCodeNoEligibleStyles},
		{"prompt without api key", []string{"--prompt", "a cat"}, errors.ErrCodeConfiguration},
		{"empty selection", []string{"--select", "4"}, errors.ErrCodeEmptySelection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, doc, cfg := setup(t, "[run]\nnotify_timeout = \"1ms\"\n")
			args := append([]string{"run", doc, "--config", cfg, "--no-cache"}, tt.args...)
			err := execute(t, args...)
			if got := errors.GetCode(err); got != tt.want {
				t.Errorf("code = %q, want %q (err %v)", got, tt.want, err)
			}
		})
	}
}

func TestRunAvatars(t *testing.T) {
	png := []byte("\x89PNG fake")
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			N int `json:"n"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		data := make([]map[string]string, req.N)
		for i := range data {
			data[i] = map[string]string{"b64_json": base64.StdEncoding.EncodeToString(png)}
		}
		json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	defer api.Close()

	dir, doc, cfg := setup(t, "[avatar]\napi_key = \"sk-test\"\nmax_requests = 1\nmax_images_per_batch = 4\nendpoint = \""+api.URL+"\"\n")
	images := filepath.Join(dir, "images")

	if err := execute(t, "run", doc, "--config", cfg, "--no-cache", "--prompt", "a smiling cat", "--images", images); err != nil {
		t.Fatalf("run: %v", err)
	}

	entries, err := os.ReadDir(images)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("images = %d, want 1 (identical payloads share a hash)", len(entries))
	}
	got, _ := os.ReadFile(filepath.Join(images, entries[0].Name()))
	if !bytes.Equal(got, png) {
		t.Errorf("image = %q", got)
	}
}

func TestConfigShowMasksSecrets(t *testing.T) {
	if got := mask("sk-abcdefghijkl"); got != "****ijkl" {
		t.Errorf("mask = %q", got)
	}
	if got := mask("short"); got != "****" {
		t.Errorf("mask short = %q", got)
	}
	if got := mask(""); got != "" {
		t.Errorf("mask empty = %q", got)
	}

	cfg := config.Default()
	cfg.Avatar.APIKey = "sk-abcdefghijkl"
	cfg.Library.Token = "figd_secret_token"
	masked := maskSecrets(cfg)
	if masked.Avatar.APIKey != "****ijkl" || masked.Library.Token != "****oken" {
		t.Errorf("masked = %+v", masked)
	}
	if cfg.Avatar.APIKey != "sk-abcdefghijkl" {
		t.Error("maskSecrets must not modify its argument")
	}
}

func TestConfigInit(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	if err := execute(t, "config", "init", "--config", path); err != nil {
		t.Fatalf("config init: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if cfg.Run.Timeout != config.Default().Run.Timeout {
		t.Errorf("timeout = %v", cfg.Run.Timeout)
	}
	if err := execute(t, "config", "init", "--config", path); err == nil {
		t.Error("init over an existing file should fail without --force")
	}
	if err := execute(t, "config", "init", "--config", path, "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}
}

func TestCacheClear(t *testing.T) {
	dir, _, cfg := setup(t, "")
	store, err := storage.NewFileStore(filepath.Join(dir, "store"))
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{catalog.DefaultKey, history.DefaultKey} {
		if err := store.Set(context.Background(), k, []byte(`{}`), 0); err != nil {
			t.Fatal(err)
		}
	}

	if err := execute(t, "cache", "clear", "--config", cfg); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	for _, k := range []string{catalog.DefaultKey, history.DefaultKey} {
		if _, ok, _ := store.Get(context.Background(), k); ok {
			t.Errorf("%s still stored after clear", k)
		}
	}
}

func TestCompletion(t *testing.T) {
	var out bytes.Buffer
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "avatarshuffle") {
		t.Error("completion script should name the binary")
	}
}

type emptyLoader struct{}

func (emptyLoader) Load(context.Context) catalog.Result { return catalog.Result{} }

func TestPickParamsKeepsExplicitSame(t *testing.T) {
	tests := []struct {
		name       string
		opts       runOpts
		wantTitles []string
		wantSame   bool
	}{
		{"asks", runOpts{}, []string{"Avatars", "Category"}, false},
		{"explicit same", runOpts{sameSet: true, params: plugin.Params{SameAvatar: true}}, []string{"Category"}, true},
		{"explicit no same", runOpts{sameSet: true}, []string{"Category"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var titles []string
			// Always pick the first item: "Randomize" for avatars.
			first := func(title string, items []suggest.Suggestion) (suggest.Suggestion, bool, error) {
				titles = append(titles, title)
				return items[0], true, nil
			}
			p, err := pickParams(context.Background(), first, &suggest.Provider{}, emptyLoader{}, config.Default(), tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if strings.Join(titles, ",") != strings.Join(tt.wantTitles, ",") {
				t.Errorf("asked %v, want %v", titles, tt.wantTitles)
			}
			if p.SameAvatar != tt.wantSame {
				t.Errorf("SameAvatar = %v, want %v", p.SameAvatar, tt.wantSame)
			}
			if p.Category != "" {
				t.Errorf("Category = %q, want any", p.Category)
			}
		})
	}
}
