package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/nanodoc/nanodoc/collection"
)

// cliEnv isolates a test from the user's config, env and log directory and
// returns a data directory for the file backend.
func cliEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	for _, key := range []string{
		"NANODOC_CONFIG", "NANODOC_COLLECTION", "NANODOC_BACKEND", "NANODOC_DATA",
		"NANODOC_AUTOCREATE", "NANODOC_ID_FORMAT", "NANODOC_FORMAT",
	} {
		t.Setenv(key, "")
	}
	return t.TempDir()
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cli := NewCLI(&out, &errOut)
	err := cli.Execute(args)
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("nanodoc %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestCollectionCommands(t *testing.T) {
	dir := cliEnv(t)
	base := []string{"-d", dir, "-c", "tasks.json", "collection"}
	cmd := func(name string) []string { return append(append([]string{}, base...), name) }

	if got := mustRun(t, cmd("exists")...); got != "false\n" {
		t.Errorf("exists before create = %q", got)
	}
	mustRun(t, cmd("create")...)

	content, err := os.ReadFile(filepath.Join(dir, "tasks.json"))
	if err != nil {
		t.Fatalf("collection file not written: %v", err)
	}
	if string(content) != "{}" {
		t.Errorf("new collection content = %q, want {}", content)
	}

	if got := mustRun(t, cmd("exists")...); got != "true\n" {
		t.Errorf("exists after create = %q", got)
	}

	_, err = runCLI(t, cmd("create")...)
	if !errors.Is(err, collection.ErrAlreadyExists) {
		t.Errorf("second create error = %v, want ErrAlreadyExists", err)
	}

	mustRun(t, cmd("delete")...)
	_, err = runCLI(t, cmd("delete")...)
	if !errors.Is(err, collection.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestDocumentCommands(t *testing.T) {
	dir := cliEnv(t)
	run := func(args ...string) (string, error) {
		return runCLI(t, append([]string{"-d", dir, "-c", "notes.json", "--autocreate"}, args...)...)
	}
	must := func(args ...string) string {
		t.Helper()
		out, err := run(args...)
		if err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out
	}

	if got := must("doc", "create", "--id", "n1", `{"title": "first"}`); got != "n1\n" {
		t.Errorf("create with --id printed %q", got)
	}
	if got := must("doc", "create", `{"id": "n2", "title": "second"}`); got != "n2\n" {
		t.Errorf("create with id field printed %q", got)
	}
	generated := strings.TrimSpace(must("doc", "create"))
	if generated == "" {
		t.Fatal("create without body printed no id")
	}

	t.Run("Read", func(t *testing.T) {
		var body map[string]interface{}
		if err := json.Unmarshal([]byte(must("doc", "read", "n1")), &body); err != nil {
			t.Fatalf("read output is not JSON: %v", err)
		}
		if diff := cmp.Diff(map[string]interface{}{"title": "first"}, body); diff != "" {
			t.Errorf("read mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("List", func(t *testing.T) {
		var ids []string
		if err := json.Unmarshal([]byte(must("doc", "list")), &ids); err != nil {
			t.Fatalf("list output is not JSON: %v", err)
		}
		if diff := cmp.Diff([]string{"n1", "n2", generated}, ids); diff != "" {
			t.Errorf("list mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Update", func(t *testing.T) {
		must("doc", "update", "n1", `{"title": "first", "done": true}`)

		var body map[string]interface{}
		_ = json.Unmarshal([]byte(must("doc", "read", "n1")), &body)
		if body["done"] != true {
			t.Errorf("updated body = %v", body)
		}

		_, err := run("doc", "update", "missing", `{}`)
		if !errors.Is(err, collection.ErrNotFound) {
			t.Errorf("update missing error = %v, want ErrNotFound", err)
		}
	})

	t.Run("Find", func(t *testing.T) {
		if got := must("doc", "find", "n2"); got != "true\n" {
			t.Errorf("find n2 = %q", got)
		}
		if got := must("doc", "find", "nope"); got != "false\n" {
			t.Errorf("find nope = %q", got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		must("doc", "delete", "n2")
		_, err := run("doc", "read", "n2")
		if !errors.Is(err, collection.ErrNotFound) {
			t.Errorf("read deleted error = %v, want ErrNotFound", err)
		}
		_, err = run("doc", "delete", "n2")
		if !errors.Is(err, collection.ErrNotFound) {
			t.Errorf("delete twice error = %v, want ErrNotFound", err)
		}
	})

	t.Run("DuplicateID", func(t *testing.T) {
		_, err := run("doc", "create", "--id", "n1", `{}`)
		if !errors.Is(err, collection.ErrAlreadyExists) {
			t.Errorf("duplicate create error = %v, want ErrAlreadyExists", err)
		}
	})

	t.Run("InvalidBodies", func(t *testing.T) {
		for _, body := range []string{`"text"`, `42`, `[1, 2]`, `null`, `{broken`} {
			if _, err := run("doc", "create", body); err == nil {
				t.Errorf("create %s: expected error", body)
			}
			if _, err := run("doc", "update", "n1", body); err == nil {
				t.Errorf("update %s: expected error", body)
			}
		}
	})
}

func TestQueryCommand(t *testing.T) {
	dir := cliEnv(t)
	prefix := []string{"-d", dir, "-c", "people.json", "--autocreate"}
	run := func(args ...string) (string, error) {
		return runCLI(t, append(append([]string{}, prefix...), args...)...)
	}

	for _, doc := range []string{
		`{"id": "a", "name": "Ana", "age": 15}`,
		`{"id": "b", "name": "Bo", "age": "15"}`,
		`{"id": "c", "name": "Cy", "age": 30}`,
	} {
		if _, err := run("doc", "create", doc); err != nil {
			t.Fatalf("seed %s: %v", doc, err)
		}
	}

	idsOf := func(t *testing.T, out string) []string {
		t.Helper()
		var results []map[string]interface{}
		if err := json.Unmarshal([]byte(out), &results); err != nil {
			t.Fatalf("query output is not JSON: %v\n%s", err, out)
		}
		ids := []string{}
		for _, r := range results {
			ids = append(ids, r["id"].(string))
		}
		return ids
	}

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"number value", []string{"--where", "age=15"}, []string{"a"}},
		{"quoted string value", []string{"--where", `age="15"`}, []string{"b"}},
		{"bare string value", []string{"-w", "name=Cy"}, []string{"c"}},
		{"two conditions", []string{"-w", "age=15", "-w", "name=Bo"}, []string{}},
		{"no conditions", nil, []string{"a", "b", "c"}},
		{"id condition", []string{"-w", "id=b"}, []string{"b"}},
		{"expression", []string{"--expr", `doc.name.startsWith("C") || id == "a"`}, []string{"a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(append([]string{"query"}, tt.args...)...)
			if err != nil {
				t.Fatalf("query: %v", err)
			}
			if diff := cmp.Diff(tt.want, idsOf(t, out)); diff != "" {
				t.Errorf("query mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("NoMatchesIsEmptyList", func(t *testing.T) {
		out, err := run("query", "-w", "name=nobody")
		if err != nil {
			t.Fatal(err)
		}
		if strings.TrimSpace(out) != "[]" {
			t.Errorf("no-match output = %q, want []", out)
		}
	})

	t.Run("Errors", func(t *testing.T) {
		cases := [][]string{
			{"query", "--where", "novalue"},
			{"query", "--where", "=15"},
			{"query", "--where", "age=15", "--expr", "true"},
			{"query", "--expr", "doc.name +"},
			{"query", "--expr", "doc.name"},
		}
		for _, args := range cases {
			if _, err := run(args...); err == nil {
				t.Errorf("%v: expected error", args)
			}
		}
	})
}

func TestYAMLOutput(t *testing.T) {
	dir := cliEnv(t)
	prefix := []string{"-d", dir, "-c", "yaml.json", "--autocreate", "-f", "yaml"}

	if _, err := runCLI(t, append(prefix, "doc", "create", "--id", "y1", `{"title": "yaml", "tags": ["a", "b"]}`)...); err != nil {
		t.Fatal(err)
	}
	out, err := runCLI(t, append(prefix, "doc", "read", "y1")...)
	if err != nil {
		t.Fatal(err)
	}

	var body map[string]interface{}
	if err := yaml.Unmarshal([]byte(out), &body); err != nil {
		t.Fatalf("read output is not YAML: %v\n%s", err, out)
	}
	want := map[string]interface{}{"title": "yaml", "tags": []interface{}{"a", "b"}}
	if diff := cmp.Diff(want, body); diff != "" {
		t.Errorf("yaml body mismatch (-want +got):\n%s", diff)
	}

	if _, err := runCLI(t, "-d", dir, "-c", "yaml.json", "-f", "xml", "doc", "read", "y1"); err == nil {
		t.Error("expected error for unknown output format")
	}
}

func TestConfiguration(t *testing.T) {
	t.Run("EnvironmentVariables", func(t *testing.T) {
		dir := cliEnv(t)
		t.Setenv("NANODOC_COLLECTION", "env.json")
		t.Setenv("NANODOC_DATA", dir)
		t.Setenv("NANODOC_AUTOCREATE", "true")
		t.Setenv("NANODOC_ID_FORMAT", "xid")

		id := strings.TrimSpace(mustRun(t, "doc", "create", `{"from": "env"}`))
		if len(id) != 20 {
			t.Errorf("expected a 20 character xid, got %q", id)
		}
		if _, err := os.Stat(filepath.Join(dir, "env.json")); err != nil {
			t.Errorf("collection not created in NANODOC_DATA: %v", err)
		}
	})

	t.Run("ConfigFile", func(t *testing.T) {
		dir := cliEnv(t)
		configPath := filepath.Join(t.TempDir(), "nanodoc.yaml")
		config := "collection: config.json\ndata: " + dir + "\nautocreate: true\nformat: yaml\n"
		if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("NANODOC_CONFIG", configPath)

		mustRun(t, "doc", "create", "--id", "k", `{"v": 1}`)
		out := mustRun(t, "doc", "list")
		if strings.TrimSpace(out) != "- k" {
			t.Errorf("yaml list output = %q", out)
		}
	})

	t.Run("FlagsOverrideEnvironment", func(t *testing.T) {
		dir := cliEnv(t)
		t.Setenv("NANODOC_COLLECTION", "from-env.json")

		mustRun(t, "-d", dir, "-c", "from-flag.json", "collection", "create")
		if _, err := os.Stat(filepath.Join(dir, "from-flag.json")); err != nil {
			t.Errorf("flag value not used: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "from-env.json")); !os.IsNotExist(err) {
			t.Errorf("env value used over flag")
		}
	})

	t.Run("MissingCollection", func(t *testing.T) {
		cliEnv(t)
		_, err := runCLI(t, "doc", "list")
		var cliErr *CLIError
		if !errors.As(err, &cliErr) {
			t.Fatalf("expected CLIError, got %v", err)
		}
		if !strings.Contains(cliErr.Cause, "no collection") {
			t.Errorf("unexpected cause %q", cliErr.Cause)
		}
	})

	t.Run("BadBackendAndIDFormat", func(t *testing.T) {
		dir := cliEnv(t)
		if _, err := runCLI(t, "-d", dir, "-c", "x.json", "-b", "tape", "doc", "list"); err == nil {
			t.Error("expected error for unknown backend")
		}
		if _, err := runCLI(t, "-d", dir, "-c", "x.json", "--id-format", "serial", "doc", "list"); err == nil {
			t.Error("expected error for unknown id format")
		}
	})
}

func TestBackends(t *testing.T) {
	for _, backend := range []string{"sqlite", "pebble"} {
		t.Run(backend, func(t *testing.T) {
			dir := cliEnv(t)
			prefix := []string{"-b", backend, "-d", filepath.Join(dir, "db"), "-c", "tasks", "--autocreate"}

			mustRun(t, append(prefix, "doc", "create", "--id", "t1", `{"title": "stored"}`)...)
			out := mustRun(t, append(prefix, "query", "-w", "title=stored")...)

			var results []map[string]interface{}
			if err := json.Unmarshal([]byte(out), &results); err != nil {
				t.Fatal(err)
			}
			want := []map[string]interface{}{{"id": "t1", "title": "stored"}}
			if diff := cmp.Diff(want, results); diff != "" {
				t.Errorf("%s query mismatch (-want +got):\n%s", backend, diff)
			}
		})
	}
}

func TestVerboseLogging(t *testing.T) {
	dir := cliEnv(t)
	var out, errOut bytes.Buffer
	cli := NewCLI(&out, &errOut)

	err := cli.Execute([]string{"-d", dir, "-c", "log.json", "--verbose", "--log-level", "debug", "collection", "create"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(errOut.String(), "logging initialized") {
		t.Errorf("verbose run did not log to stderr:\n%s", errOut.String())
	}

	logFile := filepath.Join(os.Getenv("XDG_CACHE_HOME"), "nanodoc", "nanodoc.log")
	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(content), `"collection":"log.json"`) {
		t.Errorf("log file lacks collection attribute:\n%s", content)
	}
}
