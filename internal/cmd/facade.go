package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/stronghold-go/stronghold/internal/genericclioptions"
	"github.com/stronghold-go/stronghold/internal/input"
	"github.com/stronghold-go/stronghold/stronghold"
)

// openFacade builds a fresh [stronghold.Stronghold], prompts streams for the
// vault passphrase, and loads snapshotPath into it if the file already
// exists. The derived key is returned alongside the facade so the caller can
// pass it back into [stronghold.Stronghold.Commit] once it is done.
func openFacade(ctx context.Context, streams *genericclioptions.IOStreams, snapshotPath string) (*stronghold.Stronghold, []byte, error) {
	s, err := stronghold.New(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("open facade: %w", err)
	}

	pass, err := input.PromptPassphrase(streams.Out, int(os.Stdin.Fd()))
	if err != nil {
		return nil, nil, fmt.Errorf("read passphrase: %w", err)
	}

	key, err := snapshotKey(pass, snapshotPath)
	if err != nil {
		return nil, nil, fmt.Errorf("derive snapshot key: %w", err)
	}

	if _, statErr := os.Stat(snapshotPath); statErr == nil {
		if err := s.LoadSnapshot(snapshotPath, key); err != nil {
			return nil, nil, fmt.Errorf("load snapshot %s: %w", snapshotPath, err)
		}
	}

	return s, key, nil
}

// persist commits the facade's current state back to snapshotPath under key.
func persist(s *stronghold.Stronghold, snapshotPath string, key []byte) error {
	if err := s.Commit(snapshotPath, key); err != nil {
		return fmt.Errorf("commit snapshot %s: %w", snapshotPath, err)
	}

	return nil
}
