package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ticktodo/internal/storage"
	"ticktodo/internal/todo"
)

type testEnv struct {
	dir     string
	backend string
}

func (te testEnv) data() string {
	if te.backend == storage.KindJSON {
		return filepath.Join(te.dir, "todo.json")
	}
	return filepath.Join(te.dir, "todo.db")
}

func (te testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{
		"--config", filepath.Join(te.dir, "config.toml"),
		"--data", te.data(),
		"--backend", te.backend,
	}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (te testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := te.run(t, args...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out
}

func TestAddCompleteList(t *testing.T) {
	for _, backend := range []string{storage.KindSQLite, storage.KindJSON} {
		t.Run(backend, func(t *testing.T) {
			te := testEnv{dir: t.TempDir(), backend: backend}

			if out := te.mustRun(t, "list"); !strings.Contains(out, "No tasks.") {
				t.Fatalf("expected empty list, got %q", out)
			}
			if out := te.mustRun(t, "add", "Buy", "milk"); !strings.Contains(out, `Added "Buy milk" as task 0`) {
				t.Fatalf("unexpected add output %q", out)
			}
			te.mustRun(t, "add", "Dentist", "--due", "2999 Jan 2 09:30:00")
			te.mustRun(t, "complete", "0")

			out := te.mustRun(t, "list")
			want := []string{"Pending:", "0. Dentist [ ]", "Completed:", "0. Buy milk [X]"}
			for _, w := range want {
				if !strings.Contains(out, w) {
					t.Fatalf("list missing %q:\n%s", w, out)
				}
			}

			te.mustRun(t, "uncomplete", "0")
			out = te.mustRun(t, "list")
			if !strings.Contains(out, "1. Buy milk [ ]") || strings.Contains(out, "Completed:") {
				t.Fatalf("uncomplete not persisted:\n%s", out)
			}
		})
	}
}

func TestCommandErrors(t *testing.T) {
	te := testEnv{dir: t.TempDir(), backend: storage.KindJSON}
	te.mustRun(t, "add", "only")

	cases := []struct {
		name string
		args []string
		is   error
	}{
		{name: "out of range", args: []string{"complete", "1"}, is: todo.ErrOutOfRange},
		{name: "nothing completed", args: []string{"uncomplete", "0"}, is: todo.ErrOutOfRange},
		{name: "past due", args: []string{"add", "late", "--due", "2000 Jan 1 00:00:00"}, is: todo.ErrPastDate},
		{name: "bad due", args: []string{"add", "late", "--due", "tomorrow"}, is: todo.ErrDateParse},
		{name: "duplicate", args: []string{"add", "only"}, is: todo.ErrDuplicate},
		{name: "negative index", args: []string{"complete", "-1"}},
		{name: "no title", args: []string{"add"}},
		{name: "bad backend", args: []string{"list", "--backend", "csv"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := te.run(t, tc.args...)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if tc.is != nil && !errors.Is(err, tc.is) {
				t.Fatalf("expected %v, got %v", tc.is, err)
			}
		})
	}

	if out := te.mustRun(t, "list"); !strings.Contains(out, "0. only [ ]") || strings.Contains(out, "late") {
		t.Fatalf("failed commands changed the list:\n%s", out)
	}
}

func TestInvalidDataIsNotOverwritten(t *testing.T) {
	te := testEnv{dir: t.TempDir(), backend: storage.KindJSON}
	garbage := []byte("{not json")
	if err := os.WriteFile(te.data(), garbage, 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := te.run(t, "add", "x")
	if !errors.Is(err, storage.ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData, got %v", err)
	}
	got, err := os.ReadFile(te.data())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, garbage) {
		t.Fatalf("data file rewritten: %q", got)
	}
}

func TestConfigFileIsCreated(t *testing.T) {
	te := testEnv{dir: t.TempDir(), backend: storage.KindJSON}
	te.mustRun(t, "list")
	data, err := os.ReadFile(filepath.Join(te.dir, "config.toml"))
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if !strings.Contains(string(data), "autosave") {
		t.Fatalf("unexpected config:\n%s", data)
	}
}
