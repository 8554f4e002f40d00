package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gsarma/codepad/internal/code"
	"github.com/gsarma/codepad/internal/config"
	"github.com/gsarma/codepad/internal/language"
	"github.com/gsarma/codepad/internal/worker"
)

var extensions = map[string]int{
	".py":   71,
	".c":    50,
	".cpp":  54,
	".cc":   54,
	".cxx":  54,
	".java": 62,
	".js":   63,
}

type job struct {
	path   string
	lang   language.Descriptor
	source string
}

func newRunCmd(newProvider providerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run FILE...",
		Short: "Execute one or more source files",
		Long: `Submit each file to the remote service and print its result.

The language is taken from --lang/--lang-id or inferred from the file extension.
Files run independently and concurrently; results are printed in argument order.
The exit status is 1 if any file does not finish with "Accepted".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFiles(cmd, args, newProvider)
		},
	}
	cmd.Flags().StringP("lang", "l", "", "Language name (e.g. Python, C++)")
	cmd.Flags().Int("lang-id", 0, "Remote service language id (e.g. 71)")
	cmd.Flags().String("stdin", "", "File to use as standard input ('-' reads from stdin)")
	cmd.Flags().Int("attempts", 0, "Max status polls per file (default from config)")
	cmd.Flags().Duration("interval", 0, "Wait between status polls (default from config)")
	cmd.Flags().Int("parallel", 4, "Max files executed at once")
	return cmd
}

func runFiles(cmd *cobra.Command, paths []string, newProvider providerFactory) error {
	langName, _ := cmd.Flags().GetString("lang")
	langID, _ := cmd.Flags().GetInt("lang-id")
	stdinPath, _ := cmd.Flags().GetString("stdin")
	attempts, _ := cmd.Flags().GetInt("attempts")
	interval, _ := cmd.Flags().GetDuration("interval")
	parallel, _ := cmd.Flags().GetInt("parallel")
	logLevel, _ := cmd.Flags().GetString("log-level")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if attempts > 0 {
		cfg.Judge0.MaxAttempts = attempts
	}
	if interval > 0 {
		cfg.Judge0.PollInterval = interval
	}

	stdin, err := readStdin(cmd.InOrStdin(), stdinPath)
	if err != nil {
		return err
	}

	jobs := make([]job, 0, len(paths))
	for _, p := range paths {
		lang, err := resolveLanguage(p, langName, langID)
		if err != nil {
			return err
		}
		src, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		jobs = append(jobs, job{path: p, lang: lang, source: string(src)})
	}

	batch := make([]worker.Job, len(jobs))
	for i, j := range jobs {
		batch[i] = worker.Job{SourceCode: j.source, LanguageID: j.lang.ID, Stdin: stdin}
	}
	results := worker.New(newProvider(cfg, logLevel), parallel, nil).Run(cmd.Context(), batch)

	allOK := true
	out := cmd.OutOrStdout()
	for i, j := range jobs {
		printResult(out, j, results[i])
		allOK = allOK && results[i].Success
	}
	if !allOK {
		return errUnsuccessful
	}
	return nil
}

func readStdin(in io.Reader, path string) (string, error) {
	switch path {
	case "":
		return "", nil
	case "-":
		b, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	default:
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read stdin file: %w", err)
		}
		return string(b), nil
	}
}

// resolveLanguage picks the language from an explicit id, then an explicit
// name (display name or editor mode, case-insensitive), then the file extension.
func resolveLanguage(path, name string, id int) (language.Descriptor, error) {
	if id != 0 {
		if d, ok := language.ByID(id); ok {
			return d, nil
		}
		return language.Descriptor{}, fmt.Errorf("unsupported language id: %d", id)
	}
	if name != "" {
		if d, ok := language.ByName(name); ok {
			return d, nil
		}
		for _, d := range language.All() {
			if strings.EqualFold(d.Name, name) || strings.EqualFold(d.EditorMode, name) {
				return d, nil
			}
		}
		return language.Descriptor{}, fmt.Errorf("unsupported language: %s", name)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if lid, ok := extensions[ext]; ok {
		d, _ := language.ByID(lid)
		return d, nil
	}
	return language.Descriptor{}, fmt.Errorf("cannot infer language of %s; pass --lang", path)
}

func extensionsFor(id int) []string {
	var out []string
	for ext, lid := range extensions {
		if lid == id {
			out = append(out, ext)
		}
	}
	sort.Strings(out)
	return out
}

func printResult(w io.Writer, j job, res code.ExecutionResult) {
	status := color.New(color.FgGreen, color.Bold)
	if !res.Success {
		status = color.New(color.FgRed, color.Bold)
	}

	fmt.Fprintf(w, "==> %s (%s) ", j.path, j.lang.Name)
	status.Fprint(w, res.Status)
	if res.Time != nil {
		fmt.Fprintf(w, "  time=%.3fs", *res.Time)
	}
	if res.Memory != nil {
		fmt.Fprintf(w, "  memory=%dKB", *res.Memory)
	}
	fmt.Fprintln(w)

	if res.Output != "" {
		fmt.Fprint(w, res.Output)
		if !strings.HasSuffix(res.Output, "\n") {
			fmt.Fprintln(w)
		}
	}
	if res.Error != "" {
		color.New(color.FgRed).Fprintln(w, strings.TrimRight(res.Error, "\n"))
	}
}
