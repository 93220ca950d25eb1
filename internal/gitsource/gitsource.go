// Package gitsource mirrors bank files from a remote git repository into the
// local question directory, so a shared deck can be pulled before playing.
package gitsource

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// Sync clones the repository if no checkout exists under cacheDir yet, or
// pulls the latest changes if it does. It returns the local checkout path.
func Sync(repoURL, cacheDir string) (string, error) {
	localPath, err := localPathFor(cacheDir, repoURL)
	if err != nil {
		return "", err
	}

	_, err = os.Stat(localPath)
	if os.IsNotExist(err) {
		slog.Info("cloning bank repository", "url", repoURL, "path", localPath)
		_, err := git.PlainClone(localPath, false, &git.CloneOptions{
			URL: repoURL,
		})
		if err != nil {
			return "", fmt.Errorf("failed to clone repo %s: %w", repoURL, err)
		}
	} else if err == nil {
		slog.Info("pulling bank repository", "path", localPath)
		repo, err := git.PlainOpen(localPath)
		if err != nil {
			return "", fmt.Errorf("failed to open existing repo at %s: %w", localPath, err)
		}
		worktree, err := repo.Worktree()
		if err != nil {
			return "", fmt.Errorf("failed to get worktree for repo at %s: %w", localPath, err)
		}
		err = worktree.Pull(&git.PullOptions{RemoteName: "origin"})
		if err != nil && err != git.NoErrAlreadyUpToDate {
			return "", fmt.Errorf("failed to pull changes for repo at %s: %w", localPath, err)
		}
	} else {
		return "", fmt.Errorf("error checking path %s: %w", localPath, err)
	}

	return localPath, nil
}

// localPathFor maps a repository URL to a stable checkout directory under
// baseDir, handling both https and scp-style git addresses.
func localPathFor(baseDir, repoURL string) (string, error) {
	parsedURL, err := url.Parse(repoURL)
	if err != nil || (parsedURL.Scheme != "https" && parsedURL.Scheme != "http") {
		if strings.Contains(repoURL, "@") {
			parts := strings.Split(repoURL, ":")
			if len(parts) == 2 {
				hostAndUser := strings.Split(parts[0], "@")
				if len(hostAndUser) == 2 {
					host := hostAndUser[1]
					repoPath := strings.TrimSuffix(parts[1], ".git")
					return filepath.Join(baseDir, host, repoPath), nil
				}
			}
		}
		return "", fmt.Errorf("could not parse git URL: %s", repoURL)
	}

	sanitizedPath := strings.TrimSuffix(parsedURL.Path, ".git")
	return filepath.Join(baseDir, parsedURL.Host, sanitizedPath), nil
}

// Reconcile walks the checkout for bank files and copies new or changed ones
// into the question directory. Existing local banks are only overwritten when
// the remote content differs; nothing is ever deleted locally.
func Reconcile(repoPath, questionsDir string) (added, updated int, err error) {
	if err := os.MkdirAll(questionsDir, 0o755); err != nil {
		return 0, 0, fmt.Errorf("failed to create question directory %s: %w", questionsDir, err)
	}

	walkErr := filepath.WalkDir(repoPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".csv") {
			return nil
		}

		remote, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		dest := filepath.Join(questionsDir, d.Name())
		local, err := os.ReadFile(dest)
		switch {
		case os.IsNotExist(err):
			if err := os.WriteFile(dest, remote, 0o644); err != nil {
				return fmt.Errorf("failed to write bank %s: %w", dest, err)
			}
			slog.Info("new bank from remote", "bank", d.Name())
			added++
		case err != nil:
			return fmt.Errorf("failed to read local bank %s: %w", dest, err)
		case !bytes.Equal(local, remote):
			if err := os.WriteFile(dest, remote, 0o644); err != nil {
				return fmt.Errorf("failed to update bank %s: %w", dest, err)
			}
			slog.Info("bank updated from remote", "bank", d.Name())
			updated++
		}
		return nil
	})
	if walkErr != nil {
		return added, updated, fmt.Errorf("failed to walk repo %s: %w", repoPath, walkErr)
	}
	return added, updated, nil
}
