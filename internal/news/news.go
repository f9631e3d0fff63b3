// Package news reports the number of unread items in the newsboat cache.
package news

import (
	"context"
	"database/sql"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"codeberg.org/mutker/ministatus/internal/errors"
	_ "github.com/mattn/go-sqlite3"
)

const (
	ErrCacheMissing = errors.ErrorCode("news_cache_missing")
	ErrOpenCache    = errors.ErrorCode("news_open_cache_failed")
	ErrQuery        = errors.ErrorCode("news_query_failed")
	ErrClose        = errors.ErrorCode("news_close_failed")

	unreadQuery = "SELECT Count(*) FROM rss_item WHERE unread = 1;"

	updatingText = "📰 🔃"
)

// Collector counts unread newsboat items
type Collector struct {
	db         *sql.DB
	updateFlag string
}

// New opens ~/.local/share/newsboat/cache.db read-only; it fails when the
// cache does not exist.
func New(home string) (*Collector, error) {
	errFactory := errors.New()

	path := filepath.Join(home, ".local", "share", "newsboat", "cache.db")
	if _, err := os.Stat(path); err != nil {
		return nil, errFactory.Wrap(ErrCacheMissing, err)
	}

	dsn := (&url.URL{Scheme: "file", Path: path, RawQuery: "mode=ro"}).String()
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errFactory.Wrap(ErrOpenCache, err)
	}
	// newsboat holds the write lock while reloading, one reader is enough
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errFactory.Wrap(ErrOpenCache, err)
	}

	return &Collector{
		db:         db,
		updateFlag: filepath.Join(home, ".config", "newsboat", ".update"),
	}, nil
}

func (c *Collector) Produce(ctx context.Context) (string, error) {
	if _, err := os.Stat(c.updateFlag); err == nil {
		return updatingText, nil
	}

	var unread int
	if err := c.db.QueryRowContext(ctx, unreadQuery).Scan(&unread); err != nil {
		return "", errors.New().Wrap(ErrQuery, err)
	}

	if unread == 0 {
		return "", nil
	}

	return "📰 " + strconv.Itoa(unread), nil
}

func (c *Collector) Close() error {
	if err := c.db.Close(); err != nil {
		return errors.New().Wrap(ErrClose, err)
	}

	return nil
}
