package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Notifier wraps the LISTEN/NOTIFY mechanism in PostgreSQL.  It sends the id
// of a note whenever the note is saved so open editors can refresh.
type Notifier struct {
	DB      *sql.DB
	DSN     string
	Channel string
}

// NewNotifier constructs a new Notifier.  The channel should match the
// POSTGRES_NOTIFY_CHANNEL environment variable; dsn is used to open the
// dedicated listener connection.
func NewNotifier(db *sql.DB, dsn, channel string) *Notifier {
	return &Notifier{DB: db, DSN: dsn, Channel: channel}
}

// Notify sends a notification to the channel with the note ID.
func (n *Notifier) Notify(ctx context.Context, noteID string) error {
	_, err := n.DB.ExecContext(ctx, "SELECT pg_notify($1, $2)", n.Channel, noteID)
	return err
}

// Listen yields note IDs as they are received on the channel until ctx is
// cancelled.  Connection problems are reported through onErr, which may be nil.
func (n *Notifier) Listen(ctx context.Context, onErr func(error)) (<-chan string, error) {
	listener := pq.NewListener(n.DSN, 2*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil && onErr != nil {
			onErr(err)
		}
	})
	if err := listener.Listen(n.Channel); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("listen %s: %w", pq.QuoteIdentifier(n.Channel), err)
	}
	ch := make(chan string)
	go func() {
		defer func() {
			_ = listener.Close()
			close(ch)
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case note := <-listener.Notify:
				// nil is sent after a reconnect
				if note == nil {
					continue
				}
				select {
				case ch <- note.Extra:
				case <-ctx.Done():
					return
				}
			case <-time.After(90 * time.Second):
				go listener.Ping()
			}
		}
	}()
	return ch, nil
}
