package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/quartz-framework/start/internal/archive"
	"github.com/quartz-framework/start/internal/cmdtypes"
	"github.com/quartz-framework/start/internal/cmdutil"
	oerrors "github.com/quartz-framework/start/internal/errors"
	"github.com/quartz-framework/start/internal/generator"
	"github.com/quartz-framework/start/internal/output"
	"github.com/quartz-framework/start/internal/project"
	"github.com/quartz-framework/start/internal/wizard"
)

// generateOptions holds the output flags of generate.
type generateOptions struct {
	out         string
	dir         string
	force       bool
	interactive bool
	dryRun      bool
	readme      bool
}

// NewGenerateCmd creates the generate command.
func NewGenerateCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		rf   cmdutil.RequestFlags
		opts generateOptions
	)

	c := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"new"},
		Short:   "Generate a plugin project",
		Long: `Generate a Quartz plugin project.

The project is written as a zip archive (default: <artifact>.zip) or, with
--dir, unpacked into a directory. Dependencies are checked against the
option catalog: an option whose prerequisites are not selected, or that is
not available on the platform, is rejected.

Examples:
  # Minimal Spigot plugin
  qstart generate -g com.example -a my-plugin

  # BungeeCord plugin with a SQL data layer, unpacked into ./plugins
  qstart generate -g com.example -a store -p BUNGEE \
    -d QUARTZ_DATA_JPA,POSTGRESQL_DRIVER --dir ./plugins

  # Regenerate from a share link
  qstart generate --link 'https://start.quartzframework.xyz/?groupId=...'

  # Show the file tree and README without writing anything
  qstart generate -g com.example -a my-plugin --dry-run --readme

  # Answer questions instead of passing flags
  qstart generate --interactive`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runGenerate(c, cfg, &rf, opts)
		},
	}

	rf.AddTo(c)

	c.Flags().StringVarP(&opts.out, "out", "o", "",
		"Archive path (default: <artifact>.zip)")
	c.Flags().StringVar(&opts.dir, "dir", "",
		"Unpack the project into this directory instead of writing an archive")
	c.Flags().BoolVarP(&opts.force, "force", "f", false,
		"Overwrite existing files")
	c.Flags().BoolVarP(&opts.interactive, "interactive", "i", false,
		"Prompt for project settings")
	c.Flags().BoolVar(&opts.dryRun, "dry-run", false,
		"Print the project tree without writing files")
	c.Flags().BoolVar(&opts.readme, "readme", false,
		"With --dry-run, also print the generated README")

	return c
}

func runGenerate(c *cobra.Command, cfg *cmdtypes.GlobalConfig, rf *cmdutil.RequestFlags, opts generateOptions) error {
	ctx := c.Context()

	if opts.out != "" && opts.dir != "" {
		return cmdutil.ReportError("invalid flags", oerrors.NewValidationError(
			"--out and --dir are mutually exclusive", "", "", ""))
	}

	req, err := rf.Request(c, cfg.Config)
	if err != nil {
		return cmdutil.ReportError("invalid link", err)
	}

	if opts.interactive {
		if !output.IsTTY() {
			return cmdutil.ReportError("interactive mode unavailable", oerrors.NewValidationError(
				"--interactive requires a terminal", "", "", "Pass the request as flags instead"))
		}
		req, err = wizard.New(cfg.Catalog).Run(ctx, req)
		if errors.Is(err, wizard.ErrCancelled) {
			return &cmdtypes.ExitError{Code: cmdtypes.ExitGeneralError, Err: err}
		}
		if err != nil {
			return cmdutil.ReportError("wizard failed", err)
		}
	}

	gen := generator.New(cfg.Catalog, generator.WithShareBaseURL(cfg.Config.Server.PublicURL))
	out := c.OutOrStdout()

	switch {
	case opts.dryRun && opts.readme:
		res, err := gen.Render(ctx, req)
		if err != nil {
			return cmdutil.ReportError("invalid project request", err)
		}
		fmt.Fprint(out, fileTree(res.Project.Request.ArtifactID, res.Paths()))
		printReadme(c, res)
		return nil

	case opts.dryRun:
		p, paths, err := gen.Preview(ctx, req)
		if err != nil {
			return cmdutil.ReportError("invalid project request", err)
		}
		fmt.Fprint(out, fileTree(p.Request.ArtifactID, paths))
		return nil

	case opts.dir != "":
		return generateDir(ctx, c, gen, req, opts)

	default:
		return generateArchive(ctx, c, gen, req, opts)
	}
}

func generateDir(ctx context.Context, c *cobra.Command, gen *generator.Generator, req project.Request, opts generateOptions) error {
	if err := os.MkdirAll(opts.dir, 0o755); err != nil {
		return cmdutil.ReportError("creating output directory", err)
	}

	var res *generator.Result
	err := output.RunWithSpinner(ctx, func() error {
		var err error
		res, err = gen.WriteDir(ctx, req, osfs.New(opts.dir), opts.force)
		return err
	}, output.WithTitle("Generating "+req.ArtifactID))
	if err != nil {
		if errors.Is(err, archive.ErrExists) {
			return cmdutil.ReportError("refusing to overwrite", oerrors.NewValidationError(
				err.Error(), opts.dir, "", "Use --force to overwrite existing files"))
		}
		return cmdutil.ReportError("generation failed", err)
	}

	out := c.OutOrStdout()
	fmt.Fprint(out, fileTree(res.Project.Request.ArtifactID, res.Paths()))
	fmt.Fprintln(out, output.FormatCheckmark(fmt.Sprintf("Project written to %s",
		filepath.Join(opts.dir, res.Project.Request.ArtifactID))))
	printShareURL(c, res)
	return nil
}

func generateArchive(ctx context.Context, c *cobra.Command, gen *generator.Generator, req project.Request, opts generateOptions) error {
	var (
		res  *generator.Result
		data []byte
	)
	err := output.RunWithSpinner(ctx, func() error {
		var err error
		res, data, err = gen.Archive(ctx, req)
		return err
	}, output.WithTitle("Generating "+req.ArtifactID))
	if err != nil {
		return cmdutil.ReportError("generation failed", err)
	}

	dest := opts.out
	if dest == "" {
		dest = res.Project.ArchiveName()
	}
	if _, err := os.Stat(dest); err == nil && !opts.force {
		return cmdutil.ReportError("refusing to overwrite", oerrors.NewValidationError(
			fmt.Sprintf("%s already exists", dest), dest, "", "Use --force to overwrite"))
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return cmdutil.ReportError("writing archive", err)
	}

	output.ProjectLogger(res.Project.Request.ArtifactID).Debug("archive written", "path", dest, "bytes", len(data))
	fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark(fmt.Sprintf("Archive written to %s (%d files)", dest, len(res.Files))))
	printShareURL(c, res)
	return nil
}

func fileTree(root string, paths map[string]string) string {
	if output.IsTTY() {
		return output.RenderFileTree(root, paths)
	}
	return output.RenderPlainFileTree(root, paths)
}

func printReadme(c *cobra.Command, res *generator.Result) {
	for _, f := range res.Files {
		if path.Base(f.Path) == "README.md" {
			fmt.Fprintln(c.OutOrStdout())
			fmt.Fprint(c.OutOrStdout(), output.RenderMarkdown(string(f.Content), output.TerminalWidth(80), output.IsTTY()))
			return
		}
	}
}

func printShareURL(c *cobra.Command, res *generator.Result) {
	if res.ShareURL != "" {
		fmt.Fprintf(c.OutOrStdout(), "Share: %s\n", res.ShareURL)
	}
}
