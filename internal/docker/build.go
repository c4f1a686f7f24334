package docker

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/go-units"
	"github.com/moby/patternmatcher/ignorefile"

	"github.com/schmitthub/ssh-docker/internal/logger"
	"github.com/schmitthub/ssh-docker/internal/testbed"
)

// maxBuildLine bounds a single JSON message in the build stream.
const maxBuildLine = 1024 * 1024

// BuildImage builds req with the legacy builder and returns the image ID.
// Build output is forwarded to progress line by line.
func (c *Client) BuildImage(ctx context.Context, req testbed.BuildRequest, progress io.Writer) (string, error) {
	tar, err := buildContext(req.ContextDir, req.Dockerfile)
	if err != nil {
		return "", err
	}
	defer tar.Close()

	body := &countingReader{r: tar}
	resp, err := c.api.ImageBuild(ctx, body, build.ImageBuildOptions{
		Dockerfile:  req.Dockerfile,
		Tags:        req.Tags,
		BuildArgs:   req.BuildArgs,
		Remove:      true,
		ForceRemove: true,
	})
	if err != nil {
		return "", fmt.Errorf("image build request failed: %w", err)
	}
	defer resp.Body.Close()

	imageID, err := processBuildOutput(resp.Body, progress)
	logger.Debug().
		Str("context", req.ContextDir).
		Str("context_size", units.HumanSize(float64(body.n))).
		Msg("build context sent")
	if err != nil {
		return "", err
	}

	if imageID == "" && len(req.Tags) > 0 {
		return c.ImageID(ctx, req.Tags[0])
	}
	if imageID == "" {
		return "", errors.New("build finished without reporting an image ID")
	}
	return imageID, nil
}

// buildContext tars contextDir, honouring its .dockerignore. The Dockerfile
// and .dockerignore are always sent.
func buildContext(contextDir, dockerfile string) (io.ReadCloser, error) {
	info, err := os.Stat(filepath.Join(contextDir, dockerfile))
	if err != nil {
		return nil, fmt.Errorf("dockerfile: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("dockerfile %s is not a regular file", filepath.Join(contextDir, dockerfile))
	}

	excludes, err := readDockerignore(contextDir)
	if err != nil {
		return nil, err
	}
	if len(excludes) > 0 {
		excludes = append(excludes, "!"+filepath.ToSlash(dockerfile), "!.dockerignore")
	}

	tar, err := archive.TarWithOptions(contextDir, &archive.TarOptions{
		ExcludePatterns: excludes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create build context: %w", err)
	}
	return tar, nil
}

func readDockerignore(contextDir string) ([]string, error) {
	f, err := os.Open(filepath.Join(contextDir, ".dockerignore"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open .dockerignore: %w", err)
	}
	defer f.Close()

	patterns, err := ignorefile.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse .dockerignore: %w", err)
	}
	return patterns, nil
}

// buildEvent represents a Docker build stream event.
type buildEvent struct {
	Stream      string `json:"stream"`
	Error       string `json:"error"`
	ErrorDetail *struct {
		Message string `json:"message"`
	} `json:"errorDetail"`
	Aux *struct {
		ID string `json:"ID"`
	} `json:"aux"`
}

// processBuildOutput copies build output to progress and returns the image
// ID announced in the aux message, if any. Stream text is written verbatim,
// other messages as their raw JSON line.
func processBuildOutput(r io.Reader, progress io.Writer) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxBuildLine)

	var (
		imageID     string
		parseErrors int
	)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var event buildEvent
		if err := json.Unmarshal(line, &event); err != nil {
			parseErrors++
			logger.Debug().
				Err(err).
				Str("raw", string(line)).
				Msg("failed to parse build output event")
			if parseErrors > 10 {
				return "", fmt.Errorf("build output stream appears corrupted: %d consecutive parse failures", parseErrors)
			}
			continue
		}
		parseErrors = 0

		if event.ErrorDetail != nil && event.ErrorDetail.Message != "" {
			return "", fmt.Errorf("build error: %s", event.ErrorDetail.Message)
		}
		if event.Error != "" {
			return "", fmt.Errorf("build error: %s", event.Error)
		}

		switch {
		case event.Aux != nil:
			if event.Aux.ID != "" {
				imageID = event.Aux.ID
			}
		case event.Stream != "":
			_, _ = io.WriteString(progress, event.Stream)
		default:
			_, _ = fmt.Fprintln(progress, string(line))
		}
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("error reading build output: %w", err)
	}
	return imageID, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
