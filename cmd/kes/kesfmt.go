package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"

	"github.com/riey/kes/format"
)

// kesfmtCmd reformats every `**/*.kes` file under the given roots: in
// place with -w, otherwise it only lists the files that would change. Each
// file is independent, so this fans out across an errgroup rather than
// formatting files one at a time.
type kesfmtCmd struct {
	write bool
}

func (*kesfmtCmd) Name() string     { return "kesfmt" }
func (*kesfmtCmd) Synopsis() string { return "Reformat .kes files in parallel" }
func (*kesfmtCmd) Usage() string {
	return `kesfmt [-w] <dir>...:
  Reformat every .kes file found under the given directories. Without -w,
  reports which files would change; with -w, rewrites them in place.
`
}

func (cmd *kesfmtCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.write, "w", false, "write the reformatted source back to each file")
}

func (cmd *kesfmtCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	roots := f.Args()
	if len(roots) == 0 {
		roots = []string{"."}
	}

	var files []string
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(path) == ".kes" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 디렉토리 탐색 오류: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	g, _ := errgroup.WithContext(ctx)
	for _, path := range files {
		path := path
		g.Go(func() error {
			return cmd.processFile(path)
		})
	}

	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (cmd *kesfmtCmd) processFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	formatted, err := format.Source(string(data))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if formatted == string(data) {
		return nil
	}

	if !cmd.write {
		fmt.Printf("%s would be reformatted\n", path)
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return os.WriteFile(path, []byte(formatted), info.Mode())
}
