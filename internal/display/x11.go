package display

import (
	"sync"

	"codeberg.org/mutker/ministatus/internal/errors"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// X11 stores the line as the root window name, where dwm and similar
// window managers read their status text from.
type X11 struct {
	conn       *xgb.Conn
	root       xproto.Window
	utf8String xproto.Atom
	mu         sync.Mutex
}

// NewX11 connects to the display named by $DISPLAY
func NewX11() (*X11, error) {
	errFactory := errors.New()

	conn, err := xgb.NewConn()
	if err != nil {
		return nil, errFactory.Wrap(ErrConnectFailed, err)
	}

	const atomName = "UTF8_STRING"
	reply, err := xproto.InternAtom(conn, false, uint16(len(atomName)), atomName).Reply()
	if err != nil {
		conn.Close()
		return nil, errFactory.Wrap(ErrAtomFailed, err)
	}

	return &X11{
		conn:       conn,
		root:       xproto.Setup(conn).DefaultScreen(conn).Root,
		utf8String: reply.Atom,
	}, nil
}

func (x *X11) SetTitle(line string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	data := []byte(line)
	err := xproto.ChangePropertyChecked(x.conn, xproto.PropModeReplace, x.root,
		xproto.AtomWmName, x.utf8String, 8, uint32(len(data)), data).Check()
	if err != nil {
		return errors.New().Wrap(ErrSetTitleFailed, err)
	}

	return nil
}

func (x *X11) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.conn.Close()

	return nil
}
