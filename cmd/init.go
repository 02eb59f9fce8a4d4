package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/config"
	ferrors "github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/generator"
)

func newInitCmd(c *cli) *cobra.Command {
	var write, force bool

	cmd := &cobra.Command{
		Use:   "init <base-image>",
		Short: "Generate the environment Dockerfile",
		Long: `Renders a Dockerfile starting from <base-image> that creates the attach
user, installs the host git config and exposes the service port.

By default the Dockerfile is printed. With --write it is saved to the
configured path (container.dockerfile, default .forage-wt/Dockerfile).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInit(cmd, args[0], write, force)
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "Write the Dockerfile into the repository")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing Dockerfile")
	return cmd
}

func (c *cli) runInit(cmd *cobra.Command, baseImage string, write, force bool) error {
	repo, repoErr := c.app.Repo()
	if write && repoErr != nil {
		return repoErr
	}

	var cfg *config.Config
	var err error
	if repoErr == nil {
		cfg, err = c.app.LoadConfig(repo)
	} else if c.app.Config != nil {
		cfg = c.app.Config
	} else {
		cfg, err = config.Load(config.GlobalPath())
		if err != nil {
			err = ferrors.ConfigError("failed to load configuration", err)
		}
	}
	if err != nil {
		return err
	}

	text, err := generator.RenderDockerfile(generator.FromConfig(baseImage, cfg))
	if err != nil {
		return ferrors.ValidationError(err.Error())
	}

	if !write {
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	}

	path := cfg.DockerfilePath(repo.Root)
	fs := c.app.FS
	if fs.Exists(path) && !force {
		return ferrors.ValidationError(fmt.Sprintf("%s already exists (use --force to overwrite)", path))
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return ferrors.WorkspaceError("create dockerfile directory", err)
	}
	if err := fs.WriteFile(path, []byte(text), 0644); err != nil {
		return ferrors.WorkspaceError("write dockerfile", err)
	}
	logSuccess("Wrote %s", path)
	return nil
}
