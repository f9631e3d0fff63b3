package collector

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"codeberg.org/mutker/ministatus/internal/errors"
)

// Mailbox counts new messages across the INBOX folders of a local maildir tree
type Mailbox struct {
	pattern string
}

// NewMailbox fails when home has no ~/.local/share/mail directory
func NewMailbox(home string) (*Mailbox, error) {
	errFactory := errors.New()

	root := filepath.Join(home, ".local", "share", "mail")
	info, err := os.Stat(root)
	if err != nil {
		return nil, errFactory.Wrap(ErrMailboxMissing, err)
	}
	if !info.IsDir() {
		return nil, errFactory.WithData(ErrMailboxMissing, root)
	}

	return &Mailbox{
		pattern: filepath.Join(root, "*", "INBOX", "new", "*"),
	}, nil
}

func (m *Mailbox) Produce(_ context.Context) (string, error) {
	matches, err := filepath.Glob(m.pattern)
	if err != nil {
		return "", errors.New().Wrap(ErrMailboxGlob, err)
	}

	if len(matches) == 0 {
		return "", nil
	}

	return "📬 " + strconv.Itoa(len(matches)), nil
}
