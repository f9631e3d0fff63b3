// Package display publishes the status line.
package display

import (
	"fmt"
	"io"
	"sync"

	"codeberg.org/mutker/ministatus/internal/errors"
)

const (
	ErrConnectFailed  = errors.ErrorCode("display_connect_failed")
	ErrAtomFailed     = errors.ErrorCode("display_atom_failed")
	ErrSetTitleFailed = errors.ErrorCode("display_set_title_failed")
)

// Sink receives every assembled status line
type Sink interface {
	SetTitle(line string) error
	Close() error
}

// Console writes each line to w, one per tick
type Console struct {
	w  io.Writer
	mu sync.Mutex
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) SetTitle(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := fmt.Fprintln(c.w, line); err != nil {
		return errors.New().Wrap(ErrSetTitleFailed, err)
	}

	return nil
}

func (c *Console) Close() error {
	return nil
}
