// Package testbed manages disposable Docker testbeds for autopkgtest-virt-ssh.
//
// A testbed is a detached, auto-removed container with the caller's SSH
// public key installed for the login user. The Manager sequences runtime
// calls for the four lifecycle operations (open, cleanup, revert,
// debug-failure) and renders the Status record the harness consumes.
package testbed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	cerrdefs "github.com/containerd/errdefs"

	"github.com/schmitthub/ssh-docker/internal/config"
	"github.com/schmitthub/ssh-docker/internal/identity"
	"github.com/schmitthub/ssh-docker/internal/logger"
)

// ErrNoImageSource is returned when neither a Dockerfile nor an image is given.
var ErrNoImageSource = errors.New("either a Dockerfile or an image is required")

// BuildConfig selects the testbed image.
type BuildConfig struct {
	// Dockerfile is built with its parent directory as context when set.
	Dockerfile string
	// Image tags the built image, or names an existing image when
	// Dockerfile is empty.
	Image string
	// Proxy is passed to the build, the container environment and apt.
	Proxy string
}

// Manager runs testbed lifecycle operations against a Runtime.
type Manager struct {
	Runtime  Runtime
	Settings *config.Settings

	// Out receives the Status record and container logs.
	Out io.Writer
	// ErrOut receives build output and the container name.
	ErrOut io.Writer

	FindIdentity func(candidates []string) (*identity.Identity, error)
	GenerateName func(prefix string) string
}

// NewManager returns a Manager using the real identity probe and name generator.
func NewManager(rt Runtime, settings *config.Settings, out, errOut io.Writer) *Manager {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	return &Manager{
		Runtime:      rt,
		Settings:     settings,
		Out:          out,
		ErrOut:       errOut,
		FindIdentity: identity.Find,
		GenerateName: GenerateName,
	}
}

// Open builds or resolves the image, starts a testbed, installs the SSH
// key and writes the Status record to Out.
//
// If a step after the container started fails, the container is stopped
// unless Settings.KeepOnFailure is set.
func (m *Manager) Open(ctx context.Context, cfg BuildConfig) (*Status, error) {
	id, err := m.Identity()
	if err != nil {
		return nil, err
	}
	return m.OpenWithIdentity(ctx, cfg, id)
}

// Identity returns the first usable key pair from Settings.Identities.
// It never touches the Runtime.
func (m *Manager) Identity() (*identity.Identity, error) {
	id, err := m.FindIdentity(m.Settings.Identities)
	if err != nil {
		return nil, NoIdentityError(err)
	}
	logger.Debug().Str("identity", id.PrivateKeyPath).Msg("using SSH identity")
	return id, nil
}

// OpenWithIdentity is Open with an identity already resolved by Identity.
func (m *Manager) OpenWithIdentity(ctx context.Context, cfg BuildConfig, id *identity.Identity) (*Status, error) {
	imageID, err := m.resolveImage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	name := m.GenerateName(m.Settings.ContainerPrefix)
	logger.SetTestbed(name)

	req := RunRequest{
		Name:       name,
		Image:      imageID,
		Env:        proxyEnv(cfg.Proxy),
		AutoRemove: true,
	}
	containerID, err := m.Runtime.RunContainer(ctx, req)
	if err != nil {
		return nil, ContainerStartError(name, err)
	}
	fmt.Fprintln(m.ErrOut, name)
	logger.Debug().Str("container_id", containerID).Str("image", imageID).Msg("testbed started")

	status, err := m.provision(ctx, containerID, name, imageID, id, cfg.Proxy)
	if err != nil {
		m.rollback(ctx, containerID, name)
		return nil, err
	}

	if _, err := status.WriteTo(m.Out); err != nil {
		return nil, fmt.Errorf("failed to write status: %w", err)
	}
	return status, nil
}

func (m *Manager) resolveImage(ctx context.Context, cfg BuildConfig) (string, error) {
	switch {
	case cfg.Dockerfile != "":
		return m.build(ctx, cfg)
	case cfg.Image != "":
		imageID, err := m.Runtime.ImageID(ctx, cfg.Image)
		if err != nil {
			if cerrdefs.IsNotFound(err) {
				return "", ImageNotFoundError(cfg.Image, err)
			}
			return "", fmt.Errorf("failed to inspect image %s: %w", cfg.Image, err)
		}
		logger.Debug().Str("image", cfg.Image).Str("image_id", imageID).Msg("image resolved")
		return imageID, nil
	default:
		return "", ErrNoImageSource
	}
}

func (m *Manager) build(ctx context.Context, cfg BuildConfig) (string, error) {
	dockerfile, err := filepath.Abs(cfg.Dockerfile)
	if err != nil {
		return "", BuildError(cfg.Dockerfile, err)
	}

	req := BuildRequest{
		ContextDir: filepath.Dir(dockerfile),
		Dockerfile: filepath.Base(dockerfile),
	}
	if cfg.Image != "" {
		req.Tags = []string{cfg.Image}
	}
	if cfg.Proxy != "" {
		proxy := cfg.Proxy
		req.BuildArgs = map[string]*string{"http_proxy": &proxy}
	}

	logger.Debug().Str("dockerfile", dockerfile).Strs("tags", req.Tags).Msg("building image")
	imageID, err := m.Runtime.BuildImage(ctx, req, m.ErrOut)
	if err != nil {
		return "", BuildError(dockerfile, err)
	}
	logger.Info().Str("image_id", imageID).Msg("image built")
	return imageID, nil
}

func (m *Manager) provision(ctx context.Context, containerID, name, imageID string, id *identity.Identity, proxy string) (*Status, error) {
	steps := authorizeKeySteps(m.Settings.Login, m.Settings.Home, id.PublicKey)
	if proxy != "" {
		steps = append(steps, aptProxyStep(proxy, m.Settings.AptProxyFile))
	}

	for _, step := range steps {
		logger.Debug().Strs("cmd", step.cmd).Msg(step.desc)
		res, err := m.Runtime.Exec(ctx, containerID, step.cmd)
		if err != nil {
			return nil, ProvisionError(name, step.desc, err)
		}
		if res.ExitCode != 0 {
			return nil, ProvisionError(name, step.desc, fmt.Errorf("exit code %d: %s", res.ExitCode, res.Stderr))
		}
	}

	// Addresses come from an inspect taken after provisioning.
	state, err := m.Runtime.InspectContainer(ctx, containerID)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect testbed %s: %w", name, err)
	}
	addr, ok := SelectAddress(state)
	if !ok {
		return nil, NoAddressError(name)
	}

	return &Status{
		Login:         m.Settings.Login,
		Hostname:      addr,
		Capabilities:  Capabilities,
		Identity:      id.PrivateKeyPath,
		ContainerName: name,
		ImageID:       imageID,
	}, nil
}

// rollback stops a testbed whose open failed. Errors are logged only.
func (m *Manager) rollback(ctx context.Context, containerID, name string) {
	if m.Settings.KeepOnFailure {
		logger.Warn().Str("container", name).Msg("open failed, leaving testbed running (keep_on_failure)")
		return
	}

	ctx = context.WithoutCancel(ctx)
	if err := m.Runtime.StopContainer(ctx, containerID, m.Settings.StopTimeout); err != nil {
		if cerrdefs.IsNotFound(err) {
			return
		}
		logger.Warn().Err(err).Str("container", name).Msg("failed to stop testbed after open failure, removing")
		if err := m.Runtime.RemoveContainer(ctx, containerID); err != nil && !cerrdefs.IsNotFound(err) {
			logger.Error().Err(err).Str("container", name).Msg("failed to remove testbed after open failure")
		}
		return
	}
	logger.Debug().Str("container", name).Msg("testbed rolled back")
}

// Cleanup stops the testbed ref. Auto-removal deletes it once stopped.
func (m *Manager) Cleanup(ctx context.Context, ref string) error {
	state, err := m.lookup(ctx, ref)
	if err != nil {
		return err
	}

	logger.Debug().Str("container_id", state.ID).Msg("stopping testbed")
	if err := m.Runtime.StopContainer(ctx, state.ID, m.Settings.StopTimeout); err != nil {
		if cerrdefs.IsNotFound(err) {
			logger.Debug().Msg("testbed vanished while stopping")
			return nil
		}
		return fmt.Errorf("failed to stop testbed %s: %w", ref, err)
	}
	return nil
}

// Revert replaces the testbed ref with a fresh one from cfg.Image.
// The old testbed is gone before the new one starts, and no build happens.
func (m *Manager) Revert(ctx context.Context, ref string, cfg BuildConfig) (*Status, error) {
	if cfg.Image == "" {
		return nil, ErrNoImageSource
	}
	if err := m.Cleanup(ctx, ref); err != nil {
		return nil, err
	}
	logger.SetTestbed("")

	cfg.Dockerfile = ""
	return m.Open(ctx, cfg)
}

// DebugFailure copies the logs of testbed ref to Out.
func (m *Manager) DebugFailure(ctx context.Context, ref string) error {
	state, err := m.lookup(ctx, ref)
	if err != nil {
		return err
	}
	if err := m.Runtime.CopyLogs(ctx, state.ID, m.Out); err != nil {
		return fmt.Errorf("failed to read logs of testbed %s: %w", ref, err)
	}
	return nil
}

func (m *Manager) lookup(ctx context.Context, ref string) (*ContainerState, error) {
	logger.SetTestbed(ref)
	state, err := m.Runtime.InspectContainer(ctx, ref)
	if err != nil {
		if cerrdefs.IsNotFound(err) {
			return nil, NotFoundError(ref, err)
		}
		return nil, fmt.Errorf("failed to inspect testbed %s: %w", ref, err)
	}
	return state, nil
}

func proxyEnv(proxy string) []string {
	if proxy == "" {
		return nil
	}
	return []string{"http_proxy=" + proxy}
}
