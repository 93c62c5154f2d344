package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sizereport/pkg/transform"
)

func newTestCLI() (*CLI, *bytes.Buffer) {
	var logs bytes.Buffer
	return New(&logs, log.InfoLevel), &logs
}

func TestRootCommandSubcommands(t *testing.T) {
	c, _ := newTestCLI()
	root := c.RootCommand()

	want := []string{"report", "transforms", "serve", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if !root.SilenceUsage {
		t.Error("root command should silence usage on errors")
	}
}

func TestSetLogLevel(t *testing.T) {
	c, logs := newTestCLI()
	c.Logger.Debug("hidden")
	if logs.Len() != 0 {
		t.Fatal("debug message logged at info level")
	}
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")
	if !strings.Contains(logs.String(), "shown") {
		t.Error("debug message not logged after SetLogLevel(LogDebug)")
	}
}

func TestParseCols(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"filepath,origin", []string{"filepath", "origin"}},
		{" filepath , gzip ,", []string{"filepath", "gzip"}},
		{"gzip,gzip", []string{"gzip", "gzip"}},
		{"", nil},
	}
	for _, tt := range tests {
		got := parseCols(tt.in)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
			t.Errorf("parseCols(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBaseDir(t *testing.T) {
	tests := map[string]string{
		"":      "",
		"src":   "src/",
		"src/":  "src/",
		"a/b/c": "a/b/c/",
	}
	for in, want := range tests {
		if got := baseDir(in); got != want {
			t.Errorf("baseDir(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTransformsCommand(t *testing.T) {
	c, _ := newTestCLI()
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"transforms"})
	if err := root.Execute(); err != nil {
		t.Fatalf("transforms: %v", err)
	}

	for _, want := range []string{"filepath", "File Path", "uglify_gzip", "Uglify & Gzip", "lz4"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestTransformsCommandJSON(t *testing.T) {
	c, _ := newTestCLI()
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"transforms", "--json"})
	if err := root.Execute(); err != nil {
		t.Fatalf("transforms --json: %v", err)
	}

	var got []transformInfo
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}
	if len(got) != 11 {
		t.Errorf("got %d transforms, want 11", len(got))
	}
	if got[0].Name != "filepath" || !got[0].Default {
		t.Errorf("first transform = %+v", got[0])
	}
	for _, ti := range got {
		if ti.Name == "gzip" && ti.Default {
			t.Error("gzip is not a default column")
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	c, _ := newTestCLI()
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatalf("completion bash: %v", err)
	}
	if !strings.Contains(out.String(), "sizereport") {
		t.Error("bash completion should mention the program name")
	}

	root.SetArgs([]string{"completion", "tcsh"})
	if err := root.Execute(); err == nil {
		t.Error("completion should reject unsupported shells")
	}
}

func TestCompleteCols(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"gz", []string{"gzip\tGzip"}},
		{"filepath,or", []string{"filepath,origin\tOriginal"}},
		{"uglify_", []string{"uglify_gzip\tUglify & Gzip", "uglify_brotli\tUglify & Brotli"}},
		{"gzip,gz", nil},
		{"nope", nil},
	}

	for _, tt := range tests {
		got := completeCols(tt.in)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("completeCols(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := completeCols(""); len(got) != len(transform.Kinds()) {
		t.Errorf("completeCols(\"\") offered %d columns, want %d", len(got), len(transform.Kinds()))
	}
}

func TestReportFlagCompletion(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"report", "--cols", "filepath,br"}, []string{"filepath,brotli"}},
		{[]string{"report", "--format", ""}, []string{"styled", "text"}},
	}

	for _, tt := range tests {
		c, _ := newTestCLI()
		root := c.RootCommand()

		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs(append([]string{cobra.ShellCompRequestCmd}, tt.args...))
		if err := root.Execute(); err != nil {
			t.Fatalf("complete %v: %v", tt.args, err)
		}
		for _, w := range tt.want {
			if !strings.Contains(out.String(), w) {
				t.Errorf("complete %v = %q, missing %q", tt.args, out.String(), w)
			}
		}
	}
}
